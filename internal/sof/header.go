package sof

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/seaward-group/laytime-cli/internal/model"
)

// Field patterns for "label: value" header lines. Tried in order; the
// first pattern whose field is still unset wins.
var (
	reFieldVessel    = regexp.MustCompile(`(?i)^\s*(?:m\.?v\.?|vessel(?:'s)?(?:\s+name)?|ship(?:'s)?(?:\s+name)?|name of vessel)\s*[:\-]\s*(.+)$`)
	reFieldPort      = regexp.MustCompile(`(?i)^\s*port(?:\s+of\s+(?:call|loading|discharge|discharging))?\s*[:\-]\s*(.+)$`)
	reFieldTerminal  = regexp.MustCompile(`(?i)^\s*(?:terminal|berth)\s*[:\-]\s*(.+)$`)
	reFieldCargo     = regexp.MustCompile(`(?i)^\s*(?:cargo|commodity)\s*[:\-]\s*(.+)$`)
	reFieldQuantity  = regexp.MustCompile(`(?i)^\s*(?:cargo\s+)?qu?antity\s*[:\-]\s*(.+)$`)
	reFieldLaycan    = regexp.MustCompile(`(?i)^\s*lay\s*[-\s]?can(?:celling)?\s*[:\-]\s*(.+)$`)
	reFieldOperation = regexp.MustCompile(`(?i)^\s*operation(?:\s+type)?\s*[:\-]\s*(.+)$`)
	reFieldIMO       = regexp.MustCompile(`(?i)\bimo(?:\s*(?:no|number))?\.?\s*[:\-]?\s*(\d{7})\b`)

	reBareIMO  = regexp.MustCompile(`^\D{0,8}(\d{7})\D{0,4}$`)
	reQuantity = regexp.MustCompile(`(?i)\b(\d[\d,]*(?:\.\d+)?)\s*(?:mt|m\.?t\.?|tonnes?|tons?|t)\b`)

	quantityContextWords = []string{"quantity", "final", "loaded", "discharged", "figure"}
)

var titleCaser = cases.Title(language.English)

// headerScan accumulates SofSummary fields during the normalization pass.
// Every field is first-write-wins; later, lower-priority heuristics never
// overwrite an extracted value.
type headerScan struct {
	sum        model.SofSummary
	pendingKey string
}

func newHeaderScan() *headerScan { return &headerScan{} }

// clearPending abandons a label-only capture, used when the following
// line turns out to be a heading.
func (h *headerScan) clearPending() { h.pendingKey = "" }

// claimPendingValue lets a pending field label capture a line the noise
// filter would otherwise drop, such as a bare quantity cell.
func (h *headerScan) claimPendingValue(text string) bool {
	if h.pendingKey == "" {
		return false
	}
	line := strings.TrimSpace(text)
	if line == "" {
		return false
	}
	key := h.pendingKey
	h.pendingKey = ""
	h.setField(key, line)
	return true
}

// observe inspects one line and returns true when the line was consumed
// as header material and must not become an event.
func (h *headerScan) observe(text string, timelineStarted bool) bool {
	line := strings.TrimSpace(text)
	if line == "" {
		return false
	}

	// A pending field label captures this line as its value.
	if h.pendingKey != "" {
		key := h.pendingKey
		h.pendingKey = ""
		h.setField(key, line)
		return true
	}

	type fieldRule struct {
		re  *regexp.Regexp
		key string
	}
	rules := []fieldRule{
		{reFieldVessel, "vessel"},
		{reFieldLaycan, "laycan"},
		{reFieldTerminal, "terminal"},
		{reFieldQuantity, "quantity"},
		{reFieldCargo, "cargo"},
		{reFieldOperation, "operation"},
		{reFieldPort, "port"},
	}
	for _, r := range rules {
		m := r.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		value := strings.TrimSpace(m[1])
		if value == "" {
			// Label-only line: the next line carries the value.
			h.pendingKey = r.key
			return true
		}
		h.setField(r.key, value)
		return true
	}

	if m := reFieldIMO.FindStringSubmatch(line); m != nil {
		setStr(&h.sum.IMO, m[1])
		return true
	}
	// A bare 7-digit token is only read as an IMO number while still in
	// the header block.
	if !timelineStarted {
		if m := reBareIMO.FindStringSubmatch(line); m != nil {
			setStr(&h.sum.IMO, m[1])
			return true
		}
	}

	return false
}

func (h *headerScan) setField(key, value string) {
	switch key {
	case "vessel":
		setStr(&h.sum.VesselName, cleanVesselName(value))
	case "port":
		setStr(&h.sum.PortName, titleCaser.String(strings.ToLower(value)))
	case "terminal":
		setStr(&h.sum.Terminal, cleanTerminal(value))
	case "cargo":
		setStr(&h.sum.CargoName, value)
		// A cargo value often carries the quantity inline.
		if q, ok := parseQuantity(value); ok {
			setFloat(&h.sum.CargoQuantity, q)
		}
	case "quantity":
		if q, ok := parseQuantity(value); ok {
			setFloat(&h.sum.CargoQuantity, q)
		}
	case "laycan":
		if from, to, ok := ParseDateRange(value); ok {
			setTime(&h.sum.LaycanStart, from)
			setTime(&h.sum.LaycanEnd, to)
		} else if d, ok := ParseDate(value); ok {
			setTime(&h.sum.LaycanStart, d)
			setTime(&h.sum.LaycanEnd, d)
		}
	case "operation":
		setStr(&h.sum.OperationType, normalizeOperation(value))
	}
}

// finalize runs the fallback heuristics that need the whole document:
// when the header block yielded no quantity, scan every line for the
// largest unit-suffixed number near a quantity keyword.
func (h *headerScan) finalize(items []model.RawLineItem) model.SofSummary {
	if h.sum.CargoQuantity == nil {
		var best float64
		var found bool
		for _, it := range items {
			lower := strings.ToLower(it.Text)
			near := false
			for _, w := range quantityContextWords {
				if strings.Contains(lower, w) {
					near = true
					break
				}
			}
			if !near {
				continue
			}
			if q, ok := parseQuantity(it.Text); ok && q > best {
				best = q
				found = true
			}
		}
		if found {
			h.sum.CargoQuantity = &best
		}
	}
	return h.sum
}

// cleanVesselName strips a trailing " - qualifier" and rejects the
// literal placeholder "name".
func cleanVesselName(v string) string {
	v = strings.TrimSpace(v)
	if i := strings.Index(v, " - "); i > 0 {
		v = strings.TrimSpace(v[:i])
	}
	if strings.EqualFold(v, "name") {
		return ""
	}
	return titleCaser.String(strings.ToLower(v))
}

// cleanTerminal rejects single-token or purely numeric captures, which
// are nearly always false positives from tabular cells.
func cleanTerminal(v string) string {
	v = strings.TrimSpace(v)
	if !strings.Contains(v, " ") {
		return ""
	}
	if strings.IndexFunc(v, unicode.IsLetter) < 0 {
		return ""
	}
	return v
}

func normalizeOperation(v string) string {
	s := strings.ToLower(v)
	switch {
	case strings.Contains(s, "disch"):
		return "discharging"
	case strings.Contains(s, "load"):
		return "loading"
	default:
		return s
	}
}

// parseQuantity extracts a unit-suffixed numeric token, accepting grouped
// thousands.
func parseQuantity(text string) (float64, bool) {
	m := reQuantity.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func setStr(dst *string, v string) {
	if *dst == "" && v != "" {
		*dst = v
	}
}

func setFloat(dst **float64, v float64) {
	if *dst == nil {
		*dst = &v
	}
}

func setTime(dst **time.Time, v time.Time) {
	if *dst == nil {
		*dst = &v
	}
}
