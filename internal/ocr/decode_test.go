package ocr

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePayload_AliasUnion(t *testing.T) {
	body := []byte(`{
		"events": [
			{"event": "All fast alongside", "confidence": 0.9, "page": 1, "line": 4},
			{"deduction_name": "Rain stoppage", "from_datetime": "2025-02-15T10:00:00Z", "to_datetime": "2025-02-15T12:30:00Z"},
			{"notes": "Surveyor on board", "start": "2025-02-15 14:00:00"}
		]
	}`)

	items, err := DecodePayload(body)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "All fast alongside", items[0].Text)
	require.NotNil(t, items[0].Confidence)
	assert.Equal(t, 0.9, *items[0].Confidence)
	assert.Equal(t, 1, items[0].Page)
	assert.Equal(t, 4, items[0].Line)

	assert.Equal(t, "Rain stoppage", items[1].Text)
	require.NotNil(t, items[1].From)
	assert.Equal(t, time.Date(2025, time.February, 15, 10, 0, 0, 0, time.UTC), *items[1].From)
	require.NotNil(t, items[1].To)
	assert.Equal(t, time.Date(2025, time.February, 15, 12, 30, 0, 0, time.UTC), *items[1].To)

	assert.Equal(t, "Surveyor on board", items[2].Text)
	require.NotNil(t, items[2].From)
	assert.Equal(t, time.Date(2025, time.February, 15, 14, 0, 0, 0, time.UTC), *items[2].From)
}

func TestDecodePayload_EventFieldWinsOverAliases(t *testing.T) {
	body := []byte(`{"events": [{"event": "Primary", "deduction_name": "Secondary", "notes": "Tertiary"}]}`)
	items, err := DecodePayload(body)
	require.NoError(t, err)
	assert.Equal(t, "Primary", items[0].Text)
}

func TestDecodePayload_ExplicitFromWinsOverStart(t *testing.T) {
	body := []byte(`{"events": [{"event": "X", "from_datetime": "2025-02-15T10:00:00Z", "start": "2025-02-16T10:00:00Z"}]}`)
	items, err := DecodePayload(body)
	require.NoError(t, err)
	require.NotNil(t, items[0].From)
	assert.Equal(t, 15, items[0].From.Day())
}

func TestDecodePayload_UnrecognizedTimestampDegrades(t *testing.T) {
	body := []byte(`{"events": [{"event": "X", "from_datetime": "yesterday morning"}]}`)
	items, err := DecodePayload(body)
	require.NoError(t, err)
	assert.Nil(t, items[0].From)
	assert.Equal(t, "X", items[0].Text)
}

func TestDecodePayload_MissingEventsArray(t *testing.T) {
	_, err := DecodePayload([]byte(`{"summary": {}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no events array")
}

func TestDecodePayload_EmptyEventsArray(t *testing.T) {
	items, err := DecodePayload([]byte(`{"events": []}`))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDecodePayload_InvalidJSON(t *testing.T) {
	_, err := DecodePayload([]byte(`{not json`))
	assert.Error(t, err)
}

func TestParseTimestamp_Layouts(t *testing.T) {
	for _, s := range []string{
		"2025-02-15T10:30:00Z",
		"2025-02-15T10:30:00",
		"2025-02-15 10:30:00",
		"2025-02-15T10:30",
		"2025-02-15 10:30",
		"15/Feb/2025 10:30",
	} {
		got := parseTimestamp(s)
		require.NotNil(t, got, s)
		assert.Equal(t, time.Date(2025, time.February, 15, 10, 30, 0, 0, time.UTC), *got, s)
	}

	assert.Nil(t, parseTimestamp(""))
	assert.Nil(t, parseTimestamp("02-15-2025"))
}
