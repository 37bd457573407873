package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seaward-group/laytime-cli/internal/config"
)

func TestNew_DriverSelection(t *testing.T) {
	ctx := context.Background()

	st, err := New(ctx, config.StoreConfig{Driver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, st)
	st.Close()

	// Empty driver defaults to sqlite.
	st, err = New(ctx, config.StoreConfig{SQLitePath: filepath.Join(t.TempDir(), "y.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, st)
	st.Close()

	_, err = New(ctx, config.StoreConfig{Driver: "oracle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}
