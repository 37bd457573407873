package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "laytime.db", cfg.Store.SQLitePath)
	assert.Equal(t, "local", cfg.OCR.Provider)
	assert.Equal(t, "pdftotext", cfg.OCR.PdfToTextPath)
	assert.Equal(t, 30, cfg.OCR.RequestsPerMinute)
	assert.Equal(t, 0.35, cfg.Normalize.ConfidenceFloor)
	assert.Empty(t, cfg.Canonical.RulesPath)
	assert.Equal(t, 4, cfg.Batch.MaxConcurrentDocuments)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LAYTIME_STORE_DRIVER", "postgres")
	t.Setenv("LAYTIME_OCR_PROVIDER", "remote")
	t.Setenv("LAYTIME_NORMALIZE_CONFIDENCE_FLOOR", "0.5")
	t.Setenv("LAYTIME_CANONICAL_RULES_PATH", "/etc/laytime/rules.yaml")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "remote", cfg.OCR.Provider)
	assert.Equal(t, 0.5, cfg.Normalize.ConfidenceFloor)
	assert.Equal(t, "/etc/laytime/rules.yaml", cfg.Canonical.RulesPath)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "json"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "console"}))

	err := InitLogger(LogConfig{Level: "shouting", Format: "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}
