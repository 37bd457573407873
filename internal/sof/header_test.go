package sof

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderExtraction_Fields(t *testing.T) {
	_, summary := NormalizeEvents(lines(
		"STATEMENT OF FACTS",
		"Vessel: MV OCEAN PRIDE - Panama flag",
		"IMO No: 9876543",
		"Port of Discharge: ROTTERDAM",
		"Berth: Jetty No 4",
		"Cargo: Soybean meal 25,000 MT",
		"Operation: Discharge of cargo",
		"Laycan: 10-12 Feb 2025",
	))

	assert.Equal(t, "Mv Ocean Pride", summary.VesselName)
	assert.Equal(t, "9876543", summary.IMO)
	assert.Equal(t, "Rotterdam", summary.PortName)
	assert.Equal(t, "Jetty No 4", summary.Terminal)
	assert.Equal(t, "Soybean meal 25,000 MT", summary.CargoName)
	require.NotNil(t, summary.CargoQuantity)
	assert.Equal(t, 25000.0, *summary.CargoQuantity)
	assert.Equal(t, "discharging", summary.OperationType)
	require.NotNil(t, summary.LaycanStart)
	require.NotNil(t, summary.LaycanEnd)
	assert.Equal(t, time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC), *summary.LaycanStart)
	assert.Equal(t, time.Date(2025, time.February, 12, 0, 0, 0, 0, time.UTC), *summary.LaycanEnd)
}

func TestHeaderExtraction_FirstWriteWins(t *testing.T) {
	_, summary := NormalizeEvents(lines(
		"Vessel: MV FIRST",
		"Vessel: MV SECOND",
	))
	assert.Equal(t, "Mv First", summary.VesselName)
}

func TestHeaderExtraction_PendingKeyCapturesNextLine(t *testing.T) {
	_, summary := NormalizeEvents(lines(
		"Quantity: ",
		"30,000 MT",
	))
	require.NotNil(t, summary.CargoQuantity)
	assert.Equal(t, 30000.0, *summary.CargoQuantity)
}

func TestHeaderExtraction_HeadingClearsPendingKey(t *testing.T) {
	_, summary := NormalizeEvents(lines(
		"Quantity: ",
		"Master's signature",
		"30,000 MT",
	))
	assert.Nil(t, summary.CargoQuantity)
}

func TestHeaderExtraction_BareIMOOnlyBeforeTimeline(t *testing.T) {
	h := newHeaderScan()
	assert.True(t, h.observe("# 9876543", false))
	assert.Equal(t, "9876543", h.sum.IMO)

	h = newHeaderScan()
	assert.False(t, h.observe("# 9876543", true))
	assert.Empty(t, h.sum.IMO)
}

func TestHeaderExtraction_QuantityFallbackScan(t *testing.T) {
	_, summary := NormalizeEvents(lines(
		"15/Feb/2025",
		"10:00 Commenced discharging",
		"Final discharged figure 32,500 MT as per draft",
	))
	require.NotNil(t, summary.CargoQuantity)
	assert.Equal(t, 32500.0, *summary.CargoQuantity)
}

func TestCleanVesselName(t *testing.T) {
	assert.Equal(t, "Mv Ocean Pride", cleanVesselName("MV OCEAN PRIDE - Panama flag"))
	assert.Equal(t, "", cleanVesselName("name"))
	assert.Equal(t, "Atlantic Carrier", cleanVesselName("ATLANTIC CARRIER"))
}

func TestCleanTerminal(t *testing.T) {
	assert.Equal(t, "Jetty No 4", cleanTerminal("Jetty No 4"))
	assert.Equal(t, "", cleanTerminal("12"))
	assert.Equal(t, "", cleanTerminal("4 - 12"))
}

func TestParseQuantity(t *testing.T) {
	q, ok := parseQuantity("25,000 MT")
	require.True(t, ok)
	assert.Equal(t, 25000.0, q)

	q, ok = parseQuantity("1,234.5 tonnes")
	require.True(t, ok)
	assert.Equal(t, 1234.5, q)

	_, ok = parseQuantity("no quantity")
	assert.False(t, ok)
}

func TestNormalizeOperation(t *testing.T) {
	assert.Equal(t, "discharging", normalizeOperation("Discharge"))
	assert.Equal(t, "loading", normalizeOperation("LOADING OPERATION"))
	assert.Equal(t, "shifting", normalizeOperation("Shifting"))
}
