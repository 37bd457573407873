package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seaward-group/laytime-cli/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func sampleResult() model.NormalizeResult {
	from := time.Date(2025, time.February, 15, 14, 30, 0, 0, time.UTC)
	return model.NormalizeResult{
		Events: []model.NormalizedEvent{
			{Label: "All fast alongside", From: &from, Type: model.EventInstant, Canonical: "NAV_ALL_FAST"},
		},
		Summary: model.SofSummary{VesselName: "Mv Iron Duke"},
		Meta:    model.NormalizeMeta{ConfidenceFloor: 0.35},
	}
}

func TestSQLite_ExtractionRoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	rec, err := s.SaveExtraction(ctx, "voyage-12.pdf", 42, sampleResult())
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)

	got, err := s.GetExtraction(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "voyage-12.pdf", got.DocumentName)
	assert.Equal(t, 42, got.RawLineCount)
	require.Len(t, got.Result.Events, 1)
	assert.Equal(t, "NAV_ALL_FAST", got.Result.Events[0].Canonical)
	assert.Equal(t, "Mv Iron Duke", got.Result.Summary.VesselName)
}

func TestSQLite_GetExtractionNotFound(t *testing.T) {
	s := newTestSQLite(t)
	_, err := s.GetExtraction(context.Background(), "no-such-id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLite_ListExtractions(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		_, err := s.SaveExtraction(ctx, name, 1, sampleResult())
		require.NoError(t, err)
	}

	recs, err := s.ListExtractions(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	recs, err = s.ListExtractions(ctx, 0) // default limit
	require.NoError(t, err)
	assert.Len(t, recs, 3)
}

func TestSQLite_SnapshotRoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	snap := model.Snapshot{
		TotalAllowed:    40,
		TotalUsed:       48,
		TimeOver:        -8,
		OnceOnDemurrage: true,
		Demurrage:       decimal.NewFromInt(8000),
		Despatch:        decimal.Zero,
	}

	rec, err := s.SaveSnapshot(ctx, "PC-1", snap)
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)

	recs, err := s.ListSnapshots(ctx, "PC-1", 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "PC-1", recs[0].PortCallRef)
	assert.True(t, recs[0].Snapshot.OnceOnDemurrage)
	assert.True(t, recs[0].Snapshot.Demurrage.Equal(decimal.NewFromInt(8000)))

	recs, err = s.ListSnapshots(ctx, "PC-other", 10)
	require.NoError(t, err)
	assert.Empty(t, recs)
}
