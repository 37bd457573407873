package ocr

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/seaward-group/laytime-cli/internal/model"
)

// The OCR service payload aliases several field names. payloadEvent
// accepts the whole union; DecodePayload collapses it into the canonical
// RawLineItem shape so the alias soup never reaches core logic.
type payloadEvent struct {
	Event         string   `json:"event"`
	DeductionName string   `json:"deduction_name"`
	Notes         string   `json:"notes"`
	Confidence    *float64 `json:"confidence"`
	Page          int      `json:"page"`
	Line          int      `json:"line"`
	Start         string   `json:"start"`
	End           string   `json:"end"`
	FromDatetime  string   `json:"from_datetime"`
	ToDatetime    string   `json:"to_datetime"`
}

type payload struct {
	Events  []payloadEvent    `json:"events"`
	Summary map[string]string `json:"summary"`
	Header  map[string]string `json:"header"`
}

// timestampLayouts are tried in order when decoding explicit from/to
// fields from the payload.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"02/Jan/2006 15:04",
}

// DecodePayload parses an OCR service response body into raw line items.
// A payload without an events array is a structural error; malformed
// individual rows degrade to text-only items.
func DecodePayload(body []byte) ([]model.RawLineItem, error) {
	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, eris.Wrap(err, "ocr: unmarshal service response")
	}
	if p.Events == nil {
		return nil, eris.New("ocr: service response has no events array")
	}

	items := make([]model.RawLineItem, 0, len(p.Events))
	for _, ev := range p.Events {
		item := model.RawLineItem{
			Text:       firstNonEmpty(ev.Event, ev.DeductionName, ev.Notes),
			Confidence: ev.Confidence,
			Page:       ev.Page,
			Line:       ev.Line,
			From:       parseTimestamp(firstNonEmpty(ev.FromDatetime, ev.Start)),
			To:         parseTimestamp(firstNonEmpty(ev.ToDatetime, ev.End)),
		}
		items = append(items, item)
	}
	return items, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// parseTimestamp tries the known layouts; an unrecognized value yields
// nil rather than an error — the text pipeline recovers what it can.
func parseTimestamp(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
