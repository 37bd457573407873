package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CalculationMethod selects how cargo×port pairs are grouped for
// demurrage/despatch settlement.
type CalculationMethod string

const (
	MethodStandard   CalculationMethod = "STANDARD"
	MethodAverage    CalculationMethod = "AVERAGE"
	MethodReversible CalculationMethod = "REVERSIBLE"
)

// LaytimeUnit is the unit of a charter party's laytime-allowed figure.
type LaytimeUnit string

const (
	UnitHours        LaytimeUnit = "HOURS"
	UnitDays         LaytimeUnit = "DAYS"
	UnitTonnesPerDay LaytimeUnit = "TONNES_PER_DAY"
)

// CountBehavior weights how much of an activity's duration counts as
// laytime used.
type CountBehavior string

const (
	CountFull    CountBehavior = "FULL"
	CountHalf    CountBehavior = "HALF"
	CountNone    CountBehavior = "NONE"
	CountPercent CountBehavior = "PERCENT"
)

// Weight returns the multiplier for the behavior. percent is only
// consulted for CountPercent and is expressed as 0-100.
func (c CountBehavior) Weight(percent *float64) float64 {
	switch c {
	case CountHalf:
		return 0.5
	case CountNone:
		return 0
	case CountPercent:
		if percent != nil {
			return *percent / 100
		}
		return 1
	default:
		return 1
	}
}

// Voyage identifies the voyage a multi-cargo calculation belongs to.
type Voyage struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// CharterParty carries the laytime terms for the cargoes it covers.
type CharterParty struct {
	ID                  string          `json:"id"`
	LaytimeAllowed      float64         `json:"laytime_allowed"`
	LaytimeUnit         LaytimeUnit     `json:"laytime_unit"`
	DemurrageRatePerDay decimal.Decimal `json:"demurrage_rate_per_day"`
	DespatchRatePerDay  decimal.Decimal `json:"despatch_rate_per_day"`
}

// Cargo is one parcel in a multi-cargo voyage.
type Cargo struct {
	ID             string  `json:"id"`
	Name           string  `json:"name,omitempty"`
	Quantity       float64 `json:"quantity"`
	CharterPartyID string  `json:"charter_party_id"`
}

// VoyagePortCall is a port call in scope of a proration run.
type VoyagePortCall struct {
	ID           string   `json:"id"`
	Name         string   `json:"name,omitempty"`
	Activity     string   `json:"activity"` // load | discharge
	AllowedHours *float64 `json:"allowed_hours,omitempty"`
}

// PortActivity is one logged activity span for a cargo at a port call.
type PortActivity struct {
	PortCallID    string        `json:"port_call_id"`
	CargoID       string        `json:"cargo_id"`
	From          time.Time     `json:"from"`
	To            time.Time     `json:"to"`
	CountBehavior CountBehavior `json:"count_behavior,omitempty"`
	Percent       *float64      `json:"percent,omitempty"`
}

// CargoPortRow is the prorated outcome for one (cargo, port call) pair.
type CargoPortRow struct {
	CargoID                string          `json:"cargo_id"`
	PortCallID             string          `json:"port_call_id"`
	AllowedHours           float64         `json:"allowed_hours"`
	UsedHours              float64         `json:"used_hours"`
	TimeOnDemurrageMinutes float64         `json:"time_on_demurrage_minutes"`
	TimeOnDespatchMinutes  float64         `json:"time_on_despatch_minutes"`
	Demurrage              decimal.Decimal `json:"demurrage"`
	Despatch               decimal.Decimal `json:"despatch"`
}

// ProrationTotals aggregates a proration run.
type ProrationTotals struct {
	AllowedHours float64         `json:"allowed_hours"`
	UsedHours    float64         `json:"used_hours"`
	Demurrage    decimal.Decimal `json:"demurrage"`
	Despatch     decimal.Decimal `json:"despatch"`
}

// ProrationResult is the full output of a multi-cargo calculation.
type ProrationResult struct {
	Rows   []CargoPortRow  `json:"cargo_port_rows"`
	Totals ProrationTotals `json:"totals"`
}
