package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seaward-group/laytime-cli/internal/config"
)

func TestNewExtractor(t *testing.T) {
	ex, err := NewExtractor(config.OCRConfig{Provider: "local"})
	require.NoError(t, err)
	assert.IsType(t, &PdfToText{}, ex)

	ex, err = NewExtractor(config.OCRConfig{})
	require.NoError(t, err)
	assert.IsType(t, &PdfToText{}, ex)

	ex, err = NewExtractor(config.OCRConfig{Provider: "remote", ServiceURL: "https://ocr.example.com/v1/extract"})
	require.NoError(t, err)
	assert.IsType(t, &Remote{}, ex)

	_, err = NewExtractor(config.OCRConfig{Provider: "remote"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service_url")

	_, err = NewExtractor(config.OCRConfig{Provider: "carrier-pigeon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}
