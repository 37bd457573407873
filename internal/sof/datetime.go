// Package sof turns the OCR line items of a Statement of Facts into a
// canonical sequence of timestamped events plus a header summary.
package sof

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ocrRepairs fixes letter-spacing artifacts the OCR pass introduces into
// month tokens. Applied verbatim before any date parsing.
var ocrRepairs = [][2]string{
	{"J an", "Jan"}, {"Ja n", "Jan"},
	{"F eb", "Feb"}, {"Fe b", "Feb"},
	{"M ar", "Mar"}, {"Ma r", "Mar"},
	{"A pr", "Apr"}, {"Ap r", "Apr"},
	{"M ay", "May"}, {"Ma y", "May"},
	{"J un", "Jun"}, {"Ju n", "Jun"},
	{"J ul", "Jul"}, {"Ju l", "Jul"},
	{"A ug", "Aug"}, {"Au g", "Aug"},
	{"S ep", "Sep"}, {"Se p", "Sep"},
	{"O ct", "Oct"}, {"0ct", "Oct"}, {"Oc t", "Oct"},
	{"N ov", "Nov"}, {"N0v", "Nov"}, {"No v", "Nov"},
	{"D ec", "Dec"}, {"De c", "Dec"},
}

var monthsByName = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"sept": time.September, "oct": time.October, "nov": time.November,
	"dec": time.December,
}

var (
	reOrdinal   = regexp.MustCompile(`(?i)(\d)(st|nd|rd|th)\b`)
	reDateAlpha = regexp.MustCompile(`(?i)\b(\d{1,2})[-/ ]\s*([A-Za-z]{3,9})\.?,?[-/ ]\s*(\d{2,4})\b`)
	reDateDots  = regexp.MustCompile(`\b(\d{1,2})\.(\d{1,2})\.(\d{2,4})\b`)
	reTime      = regexp.MustCompile(`\b(\d{1,2})[:.](\d{2})\b`)
	reMonthSpan = regexp.MustCompile(`(?i)\b(\d{1,2})\s*[-–]\s*(\d{1,2})(?:st|nd|rd|th)?\s+([A-Za-z]{3,9})\.?\s+(\d{2,4})\b`)
	reArrow     = regexp.MustCompile(`->|→`)
)

// repairOCR applies the fixed substitution table for month artifacts.
func repairOCR(s string) string {
	for _, r := range ocrRepairs {
		s = strings.ReplaceAll(s, r[0], r[1])
	}
	return s
}

// parseMonth resolves a month token by full name or 3-letter prefix.
func parseMonth(tok string) (time.Month, bool) {
	tok = strings.ToLower(strings.TrimRight(tok, ".,"))
	if m, ok := monthsByName[tok]; ok {
		return m, true
	}
	if len(tok) > 3 {
		if m, ok := monthsByName[tok[:3]]; ok {
			return m, true
		}
	}
	return 0, false
}

// pivotYear expands 2-digit years: above 50 reads as 19xx, otherwise 20xx.
func pivotYear(y int) int {
	if y >= 100 {
		return y
	}
	if y > 50 {
		return 1900 + y
	}
	return 2000 + y
}

// findDate locates the first recognizable date token in s (already
// OCR-repaired and ordinal-stripped) and returns its value with the
// matched byte range.
func findDate(s string) (time.Time, []int, bool) {
	if loc := reDateAlpha.FindStringSubmatchIndex(s); loc != nil {
		monthTok := s[loc[4]:loc[5]]
		if month, ok := parseMonth(monthTok); ok {
			day, _ := strconv.Atoi(s[loc[2]:loc[3]])
			year, _ := strconv.Atoi(s[loc[6]:loc[7]])
			if validDay(day) {
				return time.Date(pivotYear(year), month, day, 0, 0, 0, 0, time.UTC),
					[]int{loc[0], loc[1]}, true
			}
		}
	}

	if loc := reDateDots.FindStringSubmatchIndex(s); loc != nil {
		day, _ := strconv.Atoi(s[loc[2]:loc[3]])
		month, _ := strconv.Atoi(s[loc[4]:loc[5]])
		yearTok := s[loc[6]:loc[7]]
		year, _ := strconv.Atoi(yearTok)
		if validDay(day) && month >= 1 && month <= 12 {
			// A 2-digit trailing component is ambiguous with H.MM times;
			// only accept it when the hours reading is impossible.
			if len(yearTok) != 2 || day > 23 {
				return time.Date(pivotYear(year), time.Month(month), day, 0, 0, 0, 0, time.UTC),
					[]int{loc[0], loc[1]}, true
			}
		}
	}

	return time.Time{}, nil, false
}

// ParseDate recognizes D-MON-YYYY, D/MON/YYYY, "D Month YYYY" and
// D.M.YYYY forms inside text. Ordinal suffixes are stripped and OCR
// letter-spacing artifacts repaired first. Unrecognized input returns
// false — a date is never guessed.
func ParseDate(text string) (time.Time, bool) {
	s := repairOCR(text)
	s = reOrdinal.ReplaceAllString(s, "$1")
	t, _, ok := findDate(s)
	return t, ok
}

// ParseTime matches H:MM or H.MM inside text.
func ParseTime(text string) (hour, minute int, ok bool) {
	m := reTime.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, false
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

// ParseMonthSpan recognizes the "D1-D2 Month YYYY" form and returns two
// dates in the same month.
func ParseMonthSpan(text string) (from, to time.Time, ok bool) {
	s := repairOCR(text)
	m := reMonthSpan.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, time.Time{}, false
	}
	month, okM := parseMonth(m[3])
	if !okM {
		return time.Time{}, time.Time{}, false
	}
	d1, _ := strconv.Atoi(m[1])
	d2, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[4])
	if !validDay(d1) || !validDay(d2) {
		return time.Time{}, time.Time{}, false
	}
	y := pivotYear(year)
	return time.Date(y, month, d1, 0, 0, 0, 0, time.UTC),
		time.Date(y, month, d2, 0, 0, 0, 0, time.UTC), true
}

// ParseDateRange splits text on "to", an arrow, a hyphen or a dot and
// parses both halves as dates. Month spans are tried first. Whitespace
// around the separator is irrelevant.
func ParseDateRange(text string) (from, to time.Time, ok bool) {
	if f, t, spanOK := ParseMonthSpan(text); spanOK {
		return f, t, true
	}

	s := repairOCR(text)

	// Word separators first: "to" and arrows are unambiguous.
	for _, parts := range [][]string{
		regexp.MustCompile(`(?i)\s+to\s+`).Split(s, 2),
		reArrow.Split(s, 2),
	} {
		if len(parts) == 2 {
			if f, okF := ParseDate(parts[0]); okF {
				if t, okT := ParseDate(parts[1]); okT {
					return f, t, true
				}
			}
		}
	}

	// Hyphen and dot also appear inside dates, so try every candidate
	// split position and take the first where both halves parse.
	compact := strings.ReplaceAll(s, " ", "")
	for _, sep := range []byte{'-', '.'} {
		for i := 0; i < len(compact); i++ {
			if compact[i] != sep {
				continue
			}
			f, okF := ParseDate(compact[:i])
			if !okF {
				continue
			}
			t, okT := ParseDate(compact[i+1:])
			if !okT {
				continue
			}
			return f, t, true
		}
	}

	return time.Time{}, time.Time{}, false
}

// AttachEndDate anchors a time-only end stamp to the start's date. A
// result before the start rolls forward 24h to cover spans crossing
// midnight.
func AttachEndDate(from time.Time, toHour, toMinute int) time.Time {
	to := time.Date(from.Year(), from.Month(), from.Day(), toHour, toMinute, 0, 0, time.UTC)
	if to.Before(from) {
		to = to.Add(24 * time.Hour)
	}
	return to
}

func validDay(d int) bool { return d >= 1 && d <= 31 }
