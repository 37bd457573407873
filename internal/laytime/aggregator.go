// Package laytime computes allowed/used laytime, demurrage and despatch
// for single claims and prorates them across multi-cargo voyages.
package laytime

import (
	"go.uber.org/zap"

	"github.com/shopspring/decimal"

	"github.com/seaward-group/laytime-cli/internal/model"
)

var (
	hoursPerDay = decimal.NewFromInt(24)
	hundred     = decimal.NewFromInt(100)
)

// ComputeSnapshot resolves one claim into a laytime snapshot. Sibling
// summaries, when present for a reversible claim, are authoritative for
// both allowed and used time; the window/rate computation is the
// fallback.
func ComputeSnapshot(claim model.Claim, events []model.ClaimEvent, siblings []model.SiblingClaim, deductions, additions []model.Adjustment) model.Snapshot {
	snap := model.Snapshot{
		Demurrage: decimal.Zero,
		Despatch:  decimal.Zero,
	}

	var dedHours, addHours float64
	for _, d := range deductions {
		dedHours += d.Hours()
	}
	for _, a := range additions {
		addHours += a.Hours()
	}
	snap.TotalDeductionsAll = dedHours
	netDeductions := dedHours - addHours

	pool := scopedSiblings(claim, siblings)
	if claim.Reversible && len(pool) > 0 {
		for _, s := range pool {
			snap.TotalAllowed += s.AllowedHours
			snap.TotalUsed += s.UsedHours
			row := model.PortCallAllocation{
				PortCallRef: s.PortCallRef,
				Allowed:     s.AllowedHours,
				Base:        s.UsedHours,
				Used:        s.UsedHours,
				OverUnder:   s.AllowedHours - s.UsedHours,
			}
			if !s.Exists {
				row.Note = "Claim not created yet"
			}
			snap.Breakdown = append(snap.Breakdown, row)
		}
	} else {
		allowed := resolveAllowed(claim)
		snap.TotalAllowed = allowed

		base, used, onDem := resolveUsed(claim, events, allowed, netDeductions)
		snap.BaseSpanHours = base
		snap.TotalUsed = used
		snap.OnceOnDemurrage = onDem

		snap.Breakdown = []model.PortCallAllocation{{
			PortCallRef: claim.PortCallRef,
			Allowed:     allowed,
			Base:        base,
			Deductions:  netDeductions,
			Used:        used,
			OverUnder:   allowed - used,
		}}
	}

	snap.TimeOver = snap.TotalAllowed - snap.TotalUsed

	demRate := claim.DemurrageRatePerDay
	despRate := claim.DespatchRatePerDay
	if claim.DespatchPercent != nil {
		despRate = demRate.Mul(decimal.NewFromFloat(*claim.DespatchPercent)).Div(hundred)
	}

	if snap.TimeOver < 0 {
		snap.Demurrage = decimal.NewFromFloat(-snap.TimeOver).Mul(demRate).Div(hoursPerDay).Round(2)
	} else if snap.TimeOver > 0 {
		snap.Despatch = decimal.NewFromFloat(snap.TimeOver).Mul(despRate).Div(hoursPerDay).Round(2)
	}

	zap.L().Debug("laytime: snapshot computed",
		zap.String("port_call", claim.PortCallRef),
		zap.Float64("allowed", snap.TotalAllowed),
		zap.Float64("used", snap.TotalUsed),
		zap.Bool("once_on_demurrage", snap.OnceOnDemurrage),
		zap.Bool("reversible", claim.Reversible),
	)

	return snap
}

// resolveAllowed picks the explicit per-port allowance when set,
// otherwise derives it from the cargo-quantity/rate formula.
func resolveAllowed(claim model.Claim) float64 {
	if claim.AllowedHours != nil {
		return *claim.AllowedHours
	}
	switch claim.AllowanceUnit {
	case model.AllowancePerHour:
		if claim.AllowanceRate > 0 {
			return claim.CargoQuantity / claim.AllowanceRate
		}
	case model.AllowancePerDay:
		if claim.AllowanceRate > 0 {
			return claim.CargoQuantity / claim.AllowanceRate * 24
		}
	case model.AllowanceFixed:
		return claim.FixedAllowanceHours
	}
	return 0
}

// resolveUsed computes base span and used hours. With a laytime window
// the used time is the span less net deductions, floored at zero —
// unless the span already exceeds the allowance, in which case the
// once-on-demurrage policy pins used time to the full span regardless of
// later credits. Without a window, used time is the weighted sum of
// event durations.
func resolveUsed(claim model.Claim, events []model.ClaimEvent, allowed, netDeductions float64) (base, used float64, onceOnDemurrage bool) {
	if claim.WindowStart != nil && claim.WindowEnd != nil {
		base = claim.WindowEnd.Sub(*claim.WindowStart).Hours()
		if base < 0 {
			base = 0
		}
		if base > allowed {
			return base, base, true
		}
		used = base - netDeductions
		if used < 0 {
			used = 0
		}
		return base, used, false
	}

	for _, ev := range events {
		if ev.From == nil || ev.To == nil {
			continue
		}
		h := ev.To.Sub(*ev.From).Hours()
		if h < 0 {
			h = 0
		}
		rate := ev.RatePercent
		if rate == 0 {
			rate = 100
		}
		d := h * rate / 100
		if d < 0 {
			d = 0
		}
		base += h
		used += d
	}
	return base, used, false
}

// scopedSiblings filters sibling summaries by the claim's reversible
// scope, matched against each port call's activity.
func scopedSiblings(claim model.Claim, siblings []model.SiblingClaim) []model.SiblingClaim {
	if !claim.Reversible {
		return nil
	}
	var out []model.SiblingClaim
	for _, s := range siblings {
		switch claim.ReversibleScope {
		case model.ScopeLoadOnly:
			if s.Activity != model.ActivityLoad {
				continue
			}
		case model.ScopeDischargeOnly:
			if s.Activity != model.ActivityDischarge {
				continue
			}
		}
		out = append(out, s)
	}
	return out
}
