package sof

import (
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/seaward-group/laytime-cli/internal/model"
)

// lineStamp is the lexed view of one physical line: up to two dates, up
// to two times, and the residual label text.
type lineStamp struct {
	date, date2       *time.Time
	hasTime, hasTime2 bool
	h, m, h2, m2      int
	label             string
}

func (ls lineStamp) hasDate() bool  { return ls.date != nil }
func (ls lineStamp) hasStamp() bool { return ls.date != nil || ls.hasTime }

// realLabel reports whether the residual text can stand as an event
// label: alphabetic content, at least 3 characters, not a bare month
// token.
func (ls lineStamp) realLabel() bool {
	s := strings.TrimSpace(ls.label)
	if len(s) < 3 {
		return false
	}
	hasAlpha := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			hasAlpha = true
			break
		}
	}
	if !hasAlpha {
		return false
	}
	if !strings.Contains(s, " ") {
		if _, ok := parseMonth(s); ok {
			return false
		}
	}
	return true
}

// scanLine lexes a physical line into dates, times and residual label.
// Date tokens are excised before time matching so dotted dates are never
// misread as H.MM times.
func scanLine(text string) lineStamp {
	s := repairOCR(text)
	s = reOrdinal.ReplaceAllString(s, "$1")

	var ls lineStamp

	// Month spans ("12-13 Feb 2025") yield both dates at once.
	if loc := reMonthSpan.FindStringIndex(s); loc != nil {
		if from, to, ok := ParseMonthSpan(s); ok {
			ls.date, ls.date2 = &from, &to
			s = s[:loc[0]] + " " + s[loc[1]:]
		}
	}

	if ls.date == nil {
		if d, loc, ok := findDate(s); ok {
			ls.date = &d
			s = s[:loc[0]] + " " + s[loc[1]:]
			if d2, loc2, ok2 := findDate(s); ok2 {
				ls.date2 = &d2
				s = s[:loc2[0]] + " " + s[loc2[1]:]
			}
		}
	}

	// Up to two time tokens.
	for i := 0; i < 2; i++ {
		loc := reTime.FindStringSubmatchIndex(s)
		if loc == nil {
			break
		}
		h := atoiAt(s, loc, 1)
		m := atoiAt(s, loc, 2)
		s = s[:loc[0]] + " " + s[loc[1]:]
		if h > 23 || m > 59 {
			i-- // not a time, keep scanning past it
			continue
		}
		if !ls.hasTime {
			ls.hasTime, ls.h, ls.m = true, h, m
		} else {
			ls.hasTime2, ls.h2, ls.m2 = true, h, m
			break
		}
	}

	ls.label = cleanLabel(s)
	return ls
}

func atoiAt(s string, loc []int, group int) int {
	n := 0
	for _, c := range s[loc[2*group]:loc[2*group+1]] {
		n = n*10 + int(c-'0')
	}
	return n
}

var reLeadingSep = regexp.MustCompile(`^(?i)(?:to|from|at|hrs?|[-–:,./@()\s])+`)

// cleanLabel strips leftover separator tokens, the timezone marker "LT"
// and collapses whitespace.
func cleanLabel(s string) string {
	fields := strings.Fields(s)
	kept := fields[:0]
	for _, f := range fields {
		if strings.EqualFold(f, "lt") {
			continue
		}
		kept = append(kept, f)
	}
	s = strings.Join(kept, " ")
	s = reLeadingSep.ReplaceAllString(s, "")
	s = strings.Trim(s, " -–:,./@()")
	return strings.TrimSpace(s)
}

// looksLikeFieldLabel reports whether a line is a header field label
// (with or without an inline value).
func looksLikeFieldLabel(text string) bool {
	for _, re := range []*regexp.Regexp{
		reFieldVessel, reFieldPort, reFieldTerminal, reFieldCargo,
		reFieldQuantity, reFieldLaycan, reFieldOperation,
	} {
		if re.MatchString(strings.TrimSpace(text)) {
			return true
		}
	}
	return false
}

// MergeTableRows stitches 2-3 physical lines that represent one logical
// tabular record: a label line followed by its date-time cell, a
// date-time line followed by its description, or a date / time /
// description triple. Heading lines and field labels never merge.
func MergeTableRows(items []model.RawLineItem) []model.RawLineItem {
	var out []model.RawLineItem
	for i := 0; i < len(items); i++ {
		cur := scanLine(items[i].Text)
		mergeable := func(j int) bool {
			return j < len(items) && !isNoiseLine(items[j].Text) && !looksLikeFieldLabel(items[j].Text)
		}

		// date / time / description triple.
		if cur.hasDate() && !cur.hasTime && !cur.realLabel() && mergeable(i+1) && mergeable(i+2) {
			second := scanLine(items[i+1].Text)
			third := scanLine(items[i+2].Text)
			if second.hasTime && !second.hasDate() && !second.realLabel() &&
				!third.hasStamp() && third.realLabel() {
				out = append(out, mergeItems(items[i], items[i+1], items[i+2]))
				i += 2
				continue
			}
		}

		// label line + following date-time line.
		if !cur.hasStamp() && cur.realLabel() && !isNoiseLine(items[i].Text) &&
			!looksLikeFieldLabel(items[i].Text) && mergeable(i+1) {
			next := scanLine(items[i+1].Text)
			if next.hasStamp() && !next.realLabel() {
				out = append(out, mergeItems(items[i], items[i+1]))
				i++
				continue
			}
		}

		// date-time line + following description line.
		if cur.hasDate() && cur.hasTime && !cur.realLabel() && mergeable(i+1) {
			next := scanLine(items[i+1].Text)
			if !next.hasStamp() && next.realLabel() {
				out = append(out, mergeItems(items[i], items[i+1]))
				i++
				continue
			}
		}

		out = append(out, items[i])
	}
	return out
}

func mergeItems(items ...model.RawLineItem) model.RawLineItem {
	merged := items[0]
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, strings.TrimSpace(it.Text))
		if it.Confidence != nil {
			if merged.Confidence == nil || *it.Confidence < *merged.Confidence {
				c := *it.Confidence
				merged.Confidence = &c
			}
		}
		if merged.From == nil && it.From != nil {
			merged.From = it.From
		}
		if merged.To == nil && it.To != nil {
			merged.To = it.To
		}
	}
	merged.Text = strings.Join(parts, " ")
	return merged
}

// accumulator is the explicit state threaded through the single pass.
type accumulator struct {
	currentDate     *time.Time
	pending         *pendingStamp
	timelineStarted bool
	events          []model.NormalizedEvent
}

type pendingStamp struct {
	stamp lineStamp
	item  model.RawLineItem
}

// NormalizeEvents runs the single interleaved pass: table-row stitching,
// date carry-forward, header harvesting, event emission. Malformed input
// degrades to partial results; it never fails.
func NormalizeEvents(items []model.RawLineItem) ([]model.NormalizedEvent, model.SofSummary) {
	rows := MergeTableRows(items)
	header := newHeaderScan()
	acc := accumulator{}

	for i := 0; i < len(rows); i++ {
		row := rows[i]
		if isNoiseLine(row.Text) {
			// A bare value cell may still belong to a pending field label;
			// headings abandon the capture instead.
			if isHeadingLine(row.Text) || !header.claimPendingValue(row.Text) {
				header.clearPending()
			}
			continue
		}

		ls := scanLine(row.Text)

		// Field-label lines go to the header even when they carry a
		// stamp: "Laycan: 10-12 Feb 2025" is header material, not an event.
		if !ls.hasStamp() || !ls.realLabel() || looksLikeFieldLabel(row.Text) {
			if header.observe(row.Text, acc.timelineStarted) {
				continue
			}
		}

		switch {
		case ls.hasDate() && !ls.hasTime && !ls.realLabel():
			// A date-only line advances the carried date and emits nothing.
			acc.currentDate = ls.date
			acc.timelineStarted = true

		case ls.hasDate() && ls.hasTime && ls.realLabel():
			acc.emit(ls, row)
			acc.currentDate = ls.date
			acc.timelineStarted = true
			acc.pending = nil

		case ls.hasDate() && ls.hasTime:
			// Timestamp-only line: hold it for the next description.
			acc.pending = &pendingStamp{stamp: ls, item: row}
			acc.currentDate = ls.date
			acc.timelineStarted = true

		case ls.hasTime:
			d := acc.currentDate
			if d == nil {
				d = scanBackForDate(rows, i)
			}
			ls.date = d
			if ls.realLabel() {
				acc.emit(ls, row)
				acc.timelineStarted = true
				continue
			}
			// Time-only line: merge with the next line when that line has
			// no stamp of its own.
			if i+1 < len(rows) && !isNoiseLine(rows[i+1].Text) {
				next := scanLine(rows[i+1].Text)
				if !next.hasStamp() && next.realLabel() {
					ls.label = next.label
					acc.emit(ls, mergeItems(row, rows[i+1]))
					acc.timelineStarted = true
					i++
					continue
				}
			}
			acc.pending = &pendingStamp{stamp: ls, item: row}

		case ls.realLabel():
			if acc.pending != nil {
				p := acc.pending
				acc.pending = nil
				p.stamp.label = ls.label
				acc.emit(p.stamp, mergeItems(p.item, row))
				acc.timelineStarted = true
			}
			// Without a pending stamp a bare description has no
			// timestamp to attach to and stays off the timeline.
		}
	}

	summary := header.finalize(items)

	// Graceful degradation: a document whose text yielded nothing may
	// still carry explicit from/to fields on the raw rows.
	if len(acc.events) == 0 {
		acc.events = eventsFromRawFields(items)
		if len(acc.events) > 0 {
			zap.L().Debug("sof: events taken directly from raw row fields",
				zap.Int("events", len(acc.events)))
		}
	}

	return acc.events, summary
}

// emit builds a NormalizedEvent from a lexed line and appends it.
func (acc *accumulator) emit(ls lineStamp, item model.RawLineItem) {
	ev := model.NormalizedEvent{
		Label:      ls.label,
		Confidence: item.Confidence,
	}

	if ls.date != nil && ls.hasTime {
		from := ls.date.Add(time.Duration(ls.h)*time.Hour + time.Duration(ls.m)*time.Minute)
		ev.From = &from
		if ls.hasTime2 {
			var to time.Time
			if ls.date2 != nil {
				to = ls.date2.Add(time.Duration(ls.h2)*time.Hour + time.Duration(ls.m2)*time.Minute)
			} else {
				to = AttachEndDate(from, ls.h2, ls.m2)
			}
			ev.To = &to
		} else if ls.date2 != nil {
			to := *ls.date2
			ev.To = &to
		}
	} else if ls.date != nil {
		from := *ls.date
		ev.From = &from
		if ls.date2 != nil {
			to := *ls.date2
			ev.To = &to
		}
	}

	if ev.From != nil && ev.To != nil && ev.To.Before(*ev.From) {
		ev.AddWarning("Start after end")
	}

	ev.Type = classify(ev)
	acc.events = append(acc.events, ev)
}

// classify labels an event as a span when it covers a non-zero interval
// or its label names a known delay category.
func classify(ev model.NormalizedEvent) model.EventType {
	if ev.From != nil && ev.To != nil && !ev.To.Equal(*ev.From) {
		return model.EventDuration
	}
	if hasDelayKeyword(ev.Label) {
		return model.EventDuration
	}
	return model.EventInstant
}

// scanBackForDate finds the nearest date row before position idx in the
// stitched sequence. Used when a time-only row appears before any date
// context; with no prior date the timestamp stays unset, never taken
// from later in the document.
func scanBackForDate(rows []model.RawLineItem, idx int) *time.Time {
	for i := idx - 1; i >= 0; i-- {
		if d, ok := ParseDate(rows[i].Text); ok {
			return &d
		}
	}
	return nil
}

// eventsFromRawFields emits events straight from explicit from/to fields
// on the raw rows.
func eventsFromRawFields(items []model.RawLineItem) []model.NormalizedEvent {
	var out []model.NormalizedEvent
	for _, it := range items {
		if it.From == nil && it.To == nil {
			continue
		}
		ev := model.NormalizedEvent{
			Label:      cleanLabel(repairOCR(it.Text)),
			From:       it.From,
			To:         it.To,
			Confidence: it.Confidence,
		}
		if ev.From != nil && ev.To != nil && ev.To.Before(*ev.From) {
			ev.AddWarning("Start after end")
		}
		ev.Type = classify(ev)
		out = append(out, ev)
	}
	return out
}
