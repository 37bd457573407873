package sof

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/seaward-group/laytime-cli/internal/model"
)

// DefaultConfidenceFloor is applied when the caller supplies no floor or
// an unusable one.
const DefaultConfidenceFloor = 0.35

// Data-quality warning strings attached by the filter.
const (
	WarnMissingLabel  = "Missing label"
	WarnMissingStart  = "Missing start"
	WarnMissingEnd    = "Missing end"
	WarnStartAfterEnd = "Start after end"
)

// NormalizeFloor clamps a confidence floor to a usable value, defaulting
// anything outside [0,1] (or NaN) to DefaultConfidenceFloor.
func NormalizeFloor(floor float64) float64 {
	if math.IsNaN(floor) || floor < 0 || floor > 1 {
		return DefaultConfidenceFloor
	}
	return floor
}

// ParseFloor reads a confidence floor from its string form; unparseable
// input falls back to the default rather than failing.
func ParseFloor(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultConfidenceFloor
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return DefaultConfidenceFloor
	}
	return NormalizeFloor(f)
}

// FilterByConfidence attaches data-quality warnings to every event and
// partitions the sequence into accepted and filtered-out sets. Events
// without a confidence score are always accepted. Nothing is discarded;
// both slices carry the full payload.
func FilterByConfidence(events []model.NormalizedEvent, floor float64) (accepted, filteredOut []model.NormalizedEvent) {
	floor = NormalizeFloor(floor)

	for _, ev := range events {
		if strings.TrimSpace(ev.Label) == "" {
			ev.AddWarning(WarnMissingLabel)
		}
		if ev.From == nil {
			ev.AddWarning(WarnMissingStart)
		}
		if ev.Type == model.EventDuration && ev.To == nil {
			ev.AddWarning(WarnMissingEnd)
		}
		if ev.From != nil && ev.To != nil && ev.To.Before(*ev.From) {
			ev.AddWarning(WarnStartAfterEnd)
		}

		if ev.Confidence != nil && *ev.Confidence < floor {
			ev.AddWarning(fmt.Sprintf("Low confidence (< %.2f)", floor))
			filteredOut = append(filteredOut, ev)
			continue
		}
		accepted = append(accepted, ev)
	}
	return accepted, filteredOut
}
