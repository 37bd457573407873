package model

import "time"

// EventType classifies a normalized event as a point in time or a span.
type EventType string

const (
	EventInstant  EventType = "instant"
	EventDuration EventType = "duration"
)

// RawLineItem is a single OCR line item after the boundary has collapsed
// the payload alias unions (event/deduction_name/notes, start/from_datetime)
// into one shape. The sequence for a document is ordered and immutable.
type RawLineItem struct {
	Text       string     `json:"text"`
	Confidence *float64   `json:"confidence,omitempty"`
	Page       int        `json:"page,omitempty"`
	Line       int        `json:"line,omitempty"`
	From       *time.Time `json:"from_datetime,omitempty"`
	To         *time.Time `json:"to_datetime,omitempty"`
}

// NormalizedEvent is one timestamped entry recovered from the raw lines.
type NormalizedEvent struct {
	Label               string     `json:"label"`
	From                *time.Time `json:"from_datetime,omitempty"`
	To                  *time.Time `json:"to_datetime,omitempty"`
	Type                EventType  `json:"event_type"`
	Canonical           string     `json:"canonical_event,omitempty"`
	CanonicalConfidence float64    `json:"canonical_confidence,omitempty"`
	Confidence          *float64   `json:"confidence,omitempty"`
	Warnings            []string   `json:"warnings,omitempty"`
	PortCallRef         string     `json:"port_call_ref,omitempty"`
}

// AddWarning appends w unless it is already present.
func (e *NormalizedEvent) AddWarning(w string) {
	for _, existing := range e.Warnings {
		if existing == w {
			return
		}
	}
	e.Warnings = append(e.Warnings, w)
}

// SofSummary holds the header fields harvested from a document. Each field
// is write-once: the first successful extraction wins.
type SofSummary struct {
	PortName      string     `json:"port_name,omitempty"`
	Terminal      string     `json:"terminal,omitempty"`
	VesselName    string     `json:"vessel_name,omitempty"`
	IMO           string     `json:"imo,omitempty"`
	CargoName     string     `json:"cargo_name,omitempty"`
	CargoQuantity *float64   `json:"cargo_quantity,omitempty"`
	LaycanStart   *time.Time `json:"laycan_start,omitempty"`
	LaycanEnd     *time.Time `json:"laycan_end,omitempty"`
	OperationType string     `json:"operation_type,omitempty"`
}

// NormalizeMeta carries bookkeeping about a normalization call.
type NormalizeMeta struct {
	FilteredOutCount int     `json:"filtered_out_count"`
	ConfidenceFloor  float64 `json:"confidence_floor"`
}

// NormalizeResult is the full output of one normalization pass over a
// document. FilteredOut retains low-confidence events with their payload;
// nothing is discarded.
type NormalizeResult struct {
	Events      []NormalizedEvent `json:"events"`
	FilteredOut []NormalizedEvent `json:"filtered_out"`
	Summary     SofSummary        `json:"summary"`
	Warnings    []string          `json:"warnings,omitempty"`
	Meta        NormalizeMeta     `json:"meta"`
}
