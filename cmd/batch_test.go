package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seaward-group/laytime-cli/internal/model"
)

// stubExtractor serves canned lines per document and fails for paths
// listed in failPaths.
type stubExtractor struct {
	lines     []model.RawLineItem
	failPaths map[string]bool
}

func (e *stubExtractor) ExtractLines(ctx context.Context, path string) ([]model.RawLineItem, error) {
	if e.failPaths[filepath.Base(path)] {
		return nil, eris.Errorf("ocr: cannot read %s", path)
	}
	return e.lines, nil
}

func TestListDocuments(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.pdf", "b.TXT", "notes.md", "c.pdf"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.pdf"), 0o755))

	docs, err := listDocuments(dir)
	require.NoError(t, err)

	var names []string
	for _, d := range docs {
		names = append(names, filepath.Base(d))
	}
	assert.ElementsMatch(t, []string{"a.pdf", "b.TXT", "c.pdf"}, names)
}

func TestListDocuments_MissingDir(t *testing.T) {
	_, err := listDocuments(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read directory")
}

func TestProcessBatch(t *testing.T) {
	ex := &stubExtractor{
		lines: []model.RawLineItem{
			{Text: "15/Feb/2025", Page: 1, Line: 1},
			{Text: "14:30 All fast alongside", Page: 1, Line: 2},
		},
		failPaths: map[string]bool{"bad.pdf": true},
	}
	st := &stubStore{}

	docs := []string{"/tmp/one.pdf", "/tmp/bad.pdf", "/tmp/two.pdf"}
	err := processBatch(context.Background(), docs, 2, 0.35, ex, st)
	require.NoError(t, err)

	// The failing document is skipped, the rest are saved.
	require.Len(t, st.extractions, 2)
	var names []string
	for _, rec := range st.extractions {
		names = append(names, rec.DocumentName)
		assert.Len(t, rec.Result.Events, 1)
	}
	assert.ElementsMatch(t, []string{"one.pdf", "two.pdf"}, names)
}

func TestProcessBatch_ZeroConcurrency(t *testing.T) {
	ex := &stubExtractor{lines: []model.RawLineItem{{Text: "15/Feb/2025 06:00 Pilot on board"}}}
	st := &stubStore{}

	require.NoError(t, processBatch(context.Background(), []string{"/tmp/a.pdf"}, 0, 0.35, ex, st))
	assert.Len(t, st.extractions, 1)
}
