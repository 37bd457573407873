package sof

import (
	"go.uber.org/zap"

	"github.com/seaward-group/laytime-cli/internal/canonical"
	"github.com/seaward-group/laytime-cli/internal/model"
)

// Normalize is the full pipeline over one document's raw line items:
// stitching, date recovery, header harvesting, canonical mapping and
// confidence partitioning. It never fails on malformed content — a
// document yielding zero usable events returns an empty set plus
// whatever header fields were recoverable.
func Normalize(items []model.RawLineItem, floor float64) model.NormalizeResult {
	floor = NormalizeFloor(floor)

	events, summary := NormalizeEvents(items)

	for i := range events {
		if tag, conf, ok := canonical.Map(events[i].Label); ok {
			events[i].Canonical = tag
			events[i].CanonicalConfidence = conf
		}
	}

	accepted, filteredOut := FilterByConfidence(events, floor)

	var warnings []string
	if len(items) > 0 && len(accepted)+len(filteredOut) == 0 {
		warnings = append(warnings, "No events could be recovered from the document")
	}

	zap.L().Info("sof: document normalized",
		zap.Int("raw_lines", len(items)),
		zap.Int("events", len(accepted)),
		zap.Int("filtered_out", len(filteredOut)),
		zap.Float64("confidence_floor", floor),
	)

	return model.NormalizeResult{
		Events:      accepted,
		FilteredOut: filteredOut,
		Summary:     summary,
		Warnings:    warnings,
		Meta: model.NormalizeMeta{
			FilteredOutCount: len(filteredOut),
			ConfidenceFloor:  floor,
		},
	}
}
