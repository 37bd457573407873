package ocr

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/seaward-group/laytime-cli/internal/model"
	"github.com/seaward-group/laytime-cli/internal/resilience"
)

// Remote extracts line items through the hosted SOF OCR service: a
// multipart file upload returning the events payload.
type Remote struct {
	serviceURL string
	apiKey     string
	client     *http.Client
	limiter    *rate.Limiter
	retry      resilience.RetryConfig
}

// NewRemote creates a Remote extractor. requestsPerMinute <= 0 disables
// client-side throttling.
func NewRemote(serviceURL, apiKey string, requestsPerMinute int) *Remote {
	var limiter *rate.Limiter
	if requestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60), 1)
	}
	cfg := resilience.DefaultRetryConfig()
	cfg.OnRetry = resilience.RetryLogger("ocr", "extract")
	return &Remote{
		serviceURL: serviceURL,
		apiKey:     apiKey,
		client:     &http.Client{},
		limiter:    limiter,
		retry:      cfg,
	}
}

// ExtractLines uploads the document and decodes the returned events into
// raw line items. Transient service failures are retried with backoff.
func (r *Remote) ExtractLines(ctx context.Context, path string) ([]model.RawLineItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ocr: read document %s", path)
	}

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "ocr: rate limit wait")
		}
	}

	return resilience.DoVal(ctx, r.retry, func(ctx context.Context) ([]model.RawLineItem, error) {
		return r.post(ctx, filepath.Base(path), data)
	})
}

func (r *Remote) post(ctx context.Context, filename string, data []byte) ([]model.RawLineItem, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, eris.Wrap(err, "ocr: create multipart part")
	}
	if _, err := part.Write(data); err != nil {
		return nil, eris.Wrap(err, "ocr: write multipart body")
	}
	if err := mw.Close(); err != nil {
		return nil, eris.Wrap(err, "ocr: close multipart writer")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.serviceURL, &body)
	if err != nil {
		return nil, eris.Wrap(err, "ocr: create service request")
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, resilience.Transient(eris.Wrap(err, "ocr: service call"))
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resilience.Transient(eris.Wrap(err, "ocr: read service response"))
	}

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return nil, resilience.Transient(eris.Errorf("ocr: service returned %d: %s", resp.StatusCode, string(respBody)))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("ocr: service returned %d: %s", resp.StatusCode, string(respBody))
	}

	return DecodePayload(respBody)
}
