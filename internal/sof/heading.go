package sof

import (
	"regexp"
	"strings"
)

// headingKeywords is the closed list of section headers, signature blocks
// and boilerplate that never carry event data. Matching is ordered,
// case-insensitive substring on the trimmed line.
var headingKeywords = []string{
	"statement of facts",
	"statement of fact",
	"time sheet",
	"timesheet",
	"description of events",
	"details of events",
	"day / date / time",
	"date time event",
	"sr no",
	"sl no",
	"for and on behalf",
	"signature",
	"signed by",
	"master's signature",
	"agent's signature",
	"chief officer",
	"port agent",
	"ship's stamp",
	"continuation sheet",
	"cargo received in good condition",
	"cargo in apparent good order",
	"all lashings",
	"weather permitting",
	"page ",
	"annexure",
	"appendix",
}

var (
	reBareQuantity = regexp.MustCompile(`(?i)^[\d.,\s]+(?:mt|m\.?t\.?|tonnes?|tons?|t)?\s*$`)
	reRuleLine     = regexp.MustCompile(`^[\s_\-=*.]{3,}$`)
)

// isHeadingLine reports whether a line is a heading, signature block or
// boilerplate that never carries data of any kind.
func isHeadingLine(text string) bool {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return true
	}
	if reRuleLine.MatchString(s) {
		return true
	}
	for _, kw := range headingKeywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// isNoiseLine reports whether a line is a heading or a bare quantity cell
// that should never become an event. Bare quantity lines may still be
// claimed as the value of a pending header field.
func isNoiseLine(text string) bool {
	if isHeadingLine(text) {
		return true
	}
	s := strings.ToLower(strings.TrimSpace(text))
	// A line that is only digits, punctuation and an optional unit is a
	// stray quantity cell, not an event.
	if reBareQuantity.MatchString(s) && strings.ContainsAny(s, "0123456789") {
		// Keep lines a date or time parser can claim.
		if _, ok := ParseDate(text); ok {
			return false
		}
		if _, _, ok := ParseTime(text); ok {
			return false
		}
		return true
	}
	return false
}

// delayKeywords force duration classification even when no interval could
// be computed from the line itself.
var delayKeywords = []string{
	"delay", "weather", "rain", "suspension", "suspended", "stoppage",
	"stopped", "disruption", "shift", "survey", "inspection", "sampling",
}

func hasDelayKeyword(label string) bool {
	s := strings.ToLower(label)
	for _, kw := range delayKeywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
