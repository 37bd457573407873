// Package ocr is the boundary to the external OCR pass: it turns a
// document into the ordered raw line items the normalization pipeline
// consumes. The recognition itself happens elsewhere.
package ocr

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/seaward-group/laytime-cli/internal/config"
	"github.com/seaward-group/laytime-cli/internal/model"
)

// Extractor produces raw SOF line items from a document file.
type Extractor interface {
	ExtractLines(ctx context.Context, path string) ([]model.RawLineItem, error)
}

// NewExtractor creates an Extractor based on config.
func NewExtractor(cfg config.OCRConfig) (Extractor, error) {
	switch cfg.Provider {
	case "local", "":
		return NewPdfToText(cfg.PdfToTextPath), nil
	case "remote":
		if cfg.ServiceURL == "" {
			return nil, eris.New("ocr: remote provider requires service_url")
		}
		return NewRemote(cfg.ServiceURL, cfg.APIKey, cfg.RequestsPerMinute), nil
	default:
		return nil, eris.Errorf("ocr: unknown provider %q", cfg.Provider)
	}
}
