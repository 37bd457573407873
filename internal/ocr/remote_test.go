package ocr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sof.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o644))
	return path
}

func fastRemote(url, apiKey string) *Remote {
	r := NewRemote(url, apiKey, 0)
	r.retry.InitialBackoff = time.Millisecond
	r.retry.MaxBackoff = 5 * time.Millisecond
	return r
}

func TestRemote_ExtractLines(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "sof.pdf", header.Filename)

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"events": [{"event": "NOR tendered", "page": 1, "line": 1}]}`))
	}))
	defer srv.Close()

	r := fastRemote(srv.URL, "secret-key")
	items, err := r.ExtractLines(context.Background(), writeDoc(t))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "NOR tendered", items[0].Text)
	assert.Equal(t, "Bearer secret-key", gotAuth)
}

func TestRemote_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"events": []}`))
	}))
	defer srv.Close()

	r := fastRemote(srv.URL, "")
	_, err := r.ExtractLines(context.Background(), writeDoc(t))
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRemote_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "unsupported format"}`))
	}))
	defer srv.Close()

	r := fastRemote(srv.URL, "")
	_, err := r.ExtractLines(context.Background(), writeDoc(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Equal(t, int32(1), calls.Load())
}

func TestRemote_MissingDocument(t *testing.T) {
	r := fastRemote("http://localhost:1", "")
	_, err := r.ExtractLines(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read document")
}
