package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AllowanceUnit selects how allowed laytime is derived from the charter
// party rate when no explicit per-port allowance is set.
type AllowanceUnit string

const (
	AllowancePerHour AllowanceUnit = "per_hour"
	AllowancePerDay  AllowanceUnit = "per_day"
	AllowanceFixed   AllowanceUnit = "fixed_duration"
)

// ReversibleScope limits which sibling claims participate in a reversible
// laytime pool.
type ReversibleScope string

const (
	ScopeAllPorts      ReversibleScope = "all_ports"
	ScopeLoadOnly      ReversibleScope = "load_only"
	ScopeDischargeOnly ReversibleScope = "discharge_only"
)

// Activity kinds matched against ReversibleScope.
const (
	ActivityLoad      = "load"
	ActivityDischarge = "discharge"
)

// Claim is the laytime calculation context for one port call.
type Claim struct {
	PortCallRef string `json:"port_call_ref"`
	Activity    string `json:"activity"` // load | discharge

	// Allowed-time source: explicit hours win; otherwise the rate formula
	// per AllowanceUnit applies.
	AllowedHours        *float64      `json:"allowed_hours,omitempty"`
	AllowanceRate       float64       `json:"allowance_rate,omitempty"`
	AllowanceUnit       AllowanceUnit `json:"allowance_unit,omitempty"`
	FixedAllowanceHours float64       `json:"fixed_allowance_hours,omitempty"`
	CargoQuantity       float64       `json:"cargo_quantity,omitempty"`

	WindowStart *time.Time `json:"window_start,omitempty"`
	WindowEnd   *time.Time `json:"window_end,omitempty"`

	Reversible      bool            `json:"reversible"`
	ReversibleScope ReversibleScope `json:"reversible_scope,omitempty"`

	DemurrageRatePerDay decimal.Decimal `json:"demurrage_rate_per_day"`
	DespatchRatePerDay  decimal.Decimal `json:"despatch_rate_per_day"`
	// When set, the despatch rate is this percentage of the demurrage rate
	// and DespatchRatePerDay is ignored.
	DespatchPercent *float64 `json:"despatch_percent,omitempty"`
}

// ClaimEvent is a qualifying event feeding used-time accumulation.
// RatePercent is the rate-of-calculation weight (100 = counts in full).
type ClaimEvent struct {
	Label       string     `json:"label"`
	From        *time.Time `json:"from_datetime,omitempty"`
	To          *time.Time `json:"to_datetime,omitempty"`
	RatePercent float64    `json:"rate_percent,omitempty"`
}

// AdjustmentKind distinguishes manual deductions from additions.
type AdjustmentKind string

const (
	AdjustmentDeduction AdjustmentKind = "deduction"
	AdjustmentAddition  AdjustmentKind = "addition"
)

// Adjustment is a manually entered deduction or addition, expressed either
// as explicit minutes or as a time range. CargoIDs empty means it applies
// to every cargo.
type Adjustment struct {
	PortCallRef string         `json:"port_call_ref,omitempty"`
	Kind        AdjustmentKind `json:"kind"`
	Minutes     float64        `json:"minutes,omitempty"`
	From        *time.Time     `json:"from,omitempty"`
	To          *time.Time     `json:"to,omitempty"`
	CargoIDs    []string       `json:"applies_to_cargo_ids,omitempty"`
}

// Hours resolves the adjustment length in hours. Explicit minutes win over
// the time range; an inverted or incomplete range contributes zero.
func (a Adjustment) Hours() float64 {
	if a.Minutes > 0 {
		return a.Minutes / 60
	}
	if a.From != nil && a.To != nil && a.To.After(*a.From) {
		return a.To.Sub(*a.From).Hours()
	}
	return 0
}

// AppliesToCargo reports whether the adjustment is in scope for cargoID.
func (a Adjustment) AppliesToCargo(cargoID string) bool {
	if len(a.CargoIDs) == 0 {
		return true
	}
	for _, id := range a.CargoIDs {
		if id == cargoID {
			return true
		}
	}
	return false
}

// SiblingClaim is the summary of another claim participating in a
// reversible pool. Exists is false when the port call has no claim yet.
type SiblingClaim struct {
	PortCallRef  string  `json:"port_call_ref"`
	Activity     string  `json:"activity"`
	AllowedHours float64 `json:"allowed_hours"`
	UsedHours    float64 `json:"used_hours"`
	Exists       bool    `json:"exists"`
}

// PortCallAllocation is one breakdown row of a snapshot.
type PortCallAllocation struct {
	PortCallRef string  `json:"port_call_ref"`
	Allowed     float64 `json:"allowed"`
	Base        float64 `json:"base"`
	Deductions  float64 `json:"deductions"`
	Used        float64 `json:"used"`
	OverUnder   float64 `json:"over_under"`
	Note        string  `json:"note,omitempty"`
}

// Snapshot is the result of a laytime calculation for one claim.
// TimeOver is allowed minus used: negative means the vessel is on
// demurrage, positive means despatch was earned.
type Snapshot struct {
	TotalAllowed       float64              `json:"total_allowed"`
	TotalUsed          float64              `json:"total_used"`
	TimeOver           float64              `json:"time_over"`
	OnceOnDemurrage    bool                 `json:"once_on_demurrage"`
	Demurrage          decimal.Decimal      `json:"demurrage"`
	Despatch           decimal.Decimal      `json:"despatch"`
	Breakdown          []PortCallAllocation `json:"breakdown"`
	BaseSpanHours      float64              `json:"base_span_hours"`
	TotalDeductionsAll float64              `json:"total_deductions_all"`
}
