package sof

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDate_Formats(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"hyphenated", "15-Feb-2025", day(2025, time.February, 15)},
		{"slashes", "15/Feb/2025", day(2025, time.February, 15)},
		{"full month name", "3 March 2024", day(2024, time.March, 3)},
		{"ordinal suffix", "3rd March 2024", day(2024, time.March, 3)},
		{"dotted numeric", "15.02.2025", day(2025, time.February, 15)},
		{"letter-spaced month", "15-J an-2025", day(2025, time.January, 15)},
		{"zero for capital O", "12-0ct-2024", day(2024, time.October, 12)},
		{"embedded in text", "NOR tendered 15/Feb/2025 at agents", day(2025, time.February, 15)},
		{"september long prefix", "5 Sept 2025", day(2025, time.September, 5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate_TwoDigitYearPivot(t *testing.T) {
	got, ok := ParseDate("15-Feb-20")
	require.True(t, ok)
	assert.Equal(t, 2020, got.Year())

	got, ok = ParseDate("15-Feb-85")
	require.True(t, ok)
	assert.Equal(t, 1985, got.Year())
}

func TestParseDate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"no date", "all fast alongside"},
		{"invalid day", "45-Feb-2025"},
		{"invalid month number", "15.13.2025"},
		{"unknown month token", "15-Xyz-2025"},
		{"empty", ""},
		// 5.02.25 reads equally well as a 5:02 AM-ish time; never guessed.
		{"ambiguous dotted two-digit year", "5.02.25"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ParseDate(tt.in)
			assert.False(t, ok)
		})
	}
}

func TestParseDate_DottedTwoDigitYearUnambiguous(t *testing.T) {
	// Day 28 cannot be an hour, so the date reading is safe.
	got, ok := ParseDate("28.02.25")
	require.True(t, ok)
	assert.Equal(t, day(2025, time.February, 28), got)
}

func TestParseDate_ReformatReparse(t *testing.T) {
	// Any date the lexer produces must survive a round trip through its
	// own canonical rendering.
	for _, d := range []time.Time{
		day(2025, time.February, 15),
		day(1999, time.December, 31),
		day(2024, time.January, 1),
	} {
		rendered := fmt.Sprintf("%d-%s-%d", d.Day(), d.Month().String()[:3], d.Year())
		got, ok := ParseDate(rendered)
		require.True(t, ok, rendered)
		assert.Equal(t, d, got)
	}
}

func TestParseTime(t *testing.T) {
	h, m, ok := ParseTime("14:30")
	require.True(t, ok)
	assert.Equal(t, 14, h)
	assert.Equal(t, 30, m)

	h, m, ok = ParseTime("arrived 9.05 hrs")
	require.True(t, ok)
	assert.Equal(t, 9, h)
	assert.Equal(t, 5, m)

	_, _, ok = ParseTime("25:30")
	assert.False(t, ok)

	_, _, ok = ParseTime("14:75")
	assert.False(t, ok)

	_, _, ok = ParseTime("no time here")
	assert.False(t, ok)
}

func TestParseMonthSpan(t *testing.T) {
	from, to, ok := ParseMonthSpan("10-12 Feb 2025")
	require.True(t, ok)
	assert.Equal(t, day(2025, time.February, 10), from)
	assert.Equal(t, day(2025, time.February, 12), to)

	from, to, ok = ParseMonthSpan("10 – 12 February 2025")
	require.True(t, ok)
	assert.Equal(t, day(2025, time.February, 10), from)
	assert.Equal(t, day(2025, time.February, 12), to)

	_, _, ok = ParseMonthSpan("10-45 Feb 2025")
	assert.False(t, ok)

	_, _, ok = ParseMonthSpan("just text")
	assert.False(t, ok)
}

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		name string
		in   string
		from time.Time
		to   time.Time
	}{
		{"word to", "10 Feb 2025 to 12 Feb 2025", day(2025, time.February, 10), day(2025, time.February, 12)},
		{"arrow", "10/Feb/2025 -> 12/Feb/2025", day(2025, time.February, 10), day(2025, time.February, 12)},
		{"month span", "10-12 Feb 2025", day(2025, time.February, 10), day(2025, time.February, 12)},
		{"hyphen between dotted dates", "15.02.2025 - 20.02.2025", day(2025, time.February, 15), day(2025, time.February, 20)},
		{"cross month", "28 Feb 2025 to 2 Mar 2025", day(2025, time.February, 28), day(2025, time.March, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, ok := ParseDateRange(tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.from, from)
			assert.Equal(t, tt.to, to)
		})
	}

	_, _, ok := ParseDateRange("no dates at all")
	assert.False(t, ok)
}

func TestAttachEndDate(t *testing.T) {
	from := time.Date(2025, time.February, 15, 10, 0, 0, 0, time.UTC)

	to := AttachEndDate(from, 14, 30)
	assert.Equal(t, time.Date(2025, time.February, 15, 14, 30, 0, 0, time.UTC), to)

	// End before start rolls past midnight.
	from = time.Date(2025, time.February, 15, 23, 0, 0, 0, time.UTC)
	to = AttachEndDate(from, 1, 0)
	assert.Equal(t, time.Date(2025, time.February, 16, 1, 0, 0, 0, time.UTC), to)
}
