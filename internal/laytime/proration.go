package laytime

import (
	"go.uber.org/zap"

	"github.com/shopspring/decimal"

	"github.com/seaward-group/laytime-cli/internal/model"
)

// CalculationInput carries everything a multi-cargo proration run needs.
// ReversibleGroups lists port-call IDs pooled together under the
// REVERSIBLE method; when empty, one group spans all ports.
type CalculationInput struct {
	Voyage           model.Voyage
	CharterParties   []model.CharterParty
	Cargoes          []model.Cargo
	PortCalls        []model.VoyagePortCall
	Activities       []model.PortActivity
	Adjustments      []model.Adjustment
	Method           model.CalculationMethod
	ReversibleGroups [][]string
}

// pairKey identifies one (cargo, port call) cell of the matrix.
type pairKey struct {
	cargoID    string
	portCallID string
}

// Calculate runs the cargo×port proration. For every pair in scope it
// resolves allowed and net used time, then settles demurrage or despatch
// within each group: demurrage is distributed proportional to each row's
// share of group used time, despatch proportional to its share of group
// allowed time.
func Calculate(in CalculationInput) model.ProrationResult {
	cpByID := make(map[string]model.CharterParty, len(in.CharterParties))
	for _, cp := range in.CharterParties {
		cpByID[cp.ID] = cp
	}
	cargoByID := make(map[string]model.Cargo, len(in.Cargoes))
	for _, c := range in.Cargoes {
		cargoByID[c.ID] = c
	}
	portByID := make(map[string]model.VoyagePortCall, len(in.PortCalls))
	for _, p := range in.PortCalls {
		portByID[p.ID] = p
	}

	// Pairs in scope: every (cargo, port) combination with at least one
	// logged activity, in first-seen order.
	var order []pairKey
	usedRaw := make(map[pairKey]float64)
	for _, act := range in.Activities {
		if _, ok := cargoByID[act.CargoID]; !ok {
			continue
		}
		if _, ok := portByID[act.PortCallID]; !ok {
			continue
		}
		key := pairKey{act.CargoID, act.PortCallID}
		if _, seen := usedRaw[key]; !seen {
			order = append(order, key)
		}
		h := act.To.Sub(act.From).Hours()
		if h < 0 {
			h = 0
		}
		usedRaw[key] += h * act.CountBehavior.Weight(act.Percent)
	}

	rows := make(map[pairKey]*model.CargoPortRow, len(order))
	for _, key := range order {
		cargo := cargoByID[key.cargoID]
		port := portByID[key.portCallID]
		cp := cpByID[cargo.CharterPartyID]

		allowed := allowedForPair(port, cp, cargo)

		used := usedRaw[key]
		var ded, add float64
		for _, adj := range in.Adjustments {
			if adj.PortCallRef != "" && adj.PortCallRef != key.portCallID {
				continue
			}
			if !adj.AppliesToCargo(key.cargoID) {
				continue
			}
			if adj.Kind == model.AdjustmentAddition {
				add += adj.Hours()
			} else {
				ded += adj.Hours()
			}
		}
		used = used - ded + add
		if used < 0 {
			used = 0
		}

		rows[key] = &model.CargoPortRow{
			CargoID:      key.cargoID,
			PortCallID:   key.portCallID,
			AllowedHours: allowed,
			UsedHours:    used,
			Demurrage:    decimal.Zero,
			Despatch:     decimal.Zero,
		}
	}

	for _, group := range buildGroups(in, order) {
		settleGroup(group, rows, cargoByID, cpByID)
	}

	result := model.ProrationResult{
		Totals: model.ProrationTotals{Demurrage: decimal.Zero, Despatch: decimal.Zero},
	}
	for _, key := range order {
		row := rows[key]
		result.Rows = append(result.Rows, *row)
		result.Totals.AllowedHours += row.AllowedHours
		result.Totals.UsedHours += row.UsedHours
		result.Totals.Demurrage = result.Totals.Demurrage.Add(row.Demurrage)
		result.Totals.Despatch = result.Totals.Despatch.Add(row.Despatch)
	}

	zap.L().Debug("laytime: proration computed",
		zap.String("voyage", in.Voyage.ID),
		zap.String("method", string(in.Method)),
		zap.Int("rows", len(result.Rows)),
	)

	return result
}

// allowedForPair resolves the allowance for one cell: the port's explicit
// hours win, otherwise the charter party figure converted by unit.
func allowedForPair(port model.VoyagePortCall, cp model.CharterParty, cargo model.Cargo) float64 {
	if port.AllowedHours != nil {
		return *port.AllowedHours
	}
	switch cp.LaytimeUnit {
	case model.UnitHours:
		return cp.LaytimeAllowed
	case model.UnitDays:
		return cp.LaytimeAllowed * 24
	case model.UnitTonnesPerDay:
		if cp.LaytimeAllowed > 0 {
			return cargo.Quantity / cp.LaytimeAllowed * 24
		}
	}
	return 0
}

// buildGroups maps the method onto port groupings: STANDARD and AVERAGE
// treat each port as its own group, REVERSIBLE pools the supplied groups
// or, absent any, all ports together.
func buildGroups(in CalculationInput, order []pairKey) [][]pairKey {
	if in.Method == model.MethodReversible {
		groups := in.ReversibleGroups
		if len(groups) == 0 {
			all := make([]string, 0, len(in.PortCalls))
			for _, p := range in.PortCalls {
				all = append(all, p.ID)
			}
			groups = [][]string{all}
		}
		var out [][]pairKey
		for _, ports := range groups {
			member := make(map[string]bool, len(ports))
			for _, id := range ports {
				member[id] = true
			}
			var g []pairKey
			for _, key := range order {
				if member[key.portCallID] {
					g = append(g, key)
				}
			}
			if len(g) > 0 {
				out = append(out, g)
			}
		}
		return out
	}

	byPort := make(map[string][]pairKey)
	var portOrder []string
	for _, key := range order {
		if _, seen := byPort[key.portCallID]; !seen {
			portOrder = append(portOrder, key.portCallID)
		}
		byPort[key.portCallID] = append(byPort[key.portCallID], key)
	}
	out := make([][]pairKey, 0, len(portOrder))
	for _, id := range portOrder {
		out = append(out, byPort[id])
	}
	return out
}

// settleGroup distributes the group's over/under time across its rows.
func settleGroup(group []pairKey, rows map[pairKey]*model.CargoPortRow, cargoByID map[string]model.Cargo, cpByID map[string]model.CharterParty) {
	var groupUsed, groupAllowed float64
	for _, key := range group {
		groupUsed += rows[key].UsedHours
		groupAllowed += rows[key].AllowedHours
	}

	over := groupUsed - groupAllowed
	switch {
	case over > 0 && groupUsed > 0:
		for _, key := range group {
			row := rows[key]
			share := row.UsedHours / groupUsed
			hours := over * share
			row.TimeOnDemurrageMinutes = hours * 60
			rate := cpByID[cargoByID[key.cargoID].CharterPartyID].DemurrageRatePerDay
			row.Demurrage = decimal.NewFromFloat(hours).Mul(rate).Div(hoursPerDay).Round(2)
		}
	case over < 0 && groupAllowed > 0:
		saved := -over
		for _, key := range group {
			row := rows[key]
			share := row.AllowedHours / groupAllowed
			hours := saved * share
			row.TimeOnDespatchMinutes = hours * 60
			rate := cpByID[cargoByID[key.cargoID].CharterPartyID].DespatchRatePerDay
			row.Despatch = decimal.NewFromFloat(hours).Mul(rate).Div(hoursPerDay).Round(2)
		}
	}
}
