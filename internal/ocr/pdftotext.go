package ocr

import (
	"bytes"
	"context"
	"strings"

	"os/exec"

	"github.com/rotisserie/eris"

	"github.com/seaward-group/laytime-cli/internal/model"
)

// PdfToText extracts line items from PDFs using the pdftotext CLI tool.
type PdfToText struct {
	binPath string
}

// NewPdfToText creates a PdfToText extractor. If binPath is empty,
// "pdftotext" is used.
func NewPdfToText(binPath string) *PdfToText {
	if binPath == "" {
		binPath = "pdftotext"
	}
	return &PdfToText{binPath: binPath}
}

// ExtractLines runs pdftotext -layout on the given PDF and splits stdout
// into ordered raw line items. Local extraction carries no per-line
// confidence scores.
func (p *PdfToText) ExtractLines(ctx context.Context, pdfPath string) ([]model.RawLineItem, error) {
	cmd := exec.CommandContext(ctx, p.binPath, "-layout", pdfPath, "-")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, eris.Wrapf(err, "ocr: pdftotext failed for %s: %s", pdfPath, stderr.String())
	}

	var items []model.RawLineItem
	page, lineNo := 1, 0
	for _, line := range strings.Split(stdout.String(), "\n") {
		if line == "\f" || strings.HasPrefix(line, "\f") {
			page++
			lineNo = 0
			line = strings.TrimPrefix(line, "\f")
		}
		lineNo++
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		items = append(items, model.RawLineItem{Text: trimmed, Page: page, Line: lineNo})
	}
	return items, nil
}
