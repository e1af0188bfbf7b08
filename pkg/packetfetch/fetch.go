// Package packetfetch downloads meeting packet and attachment PDFs over
// HTTP, enforcing the PDF hard cap. ContentHash fingerprints the bytes so
// a caller can compare them against the ProcessingCache row (CacheRepo)
// for the same URL; the package itself neither extracts nor summarizes.
package packetfetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/civicsync/ingest/pkg/apperrors"
	"github.com/civicsync/ingest/pkg/repo"
)

// pdfHardCap bounds a single download+extract pass, including any OCR
// fallback budget (spec §5).
const pdfHardCap = 10 * time.Minute

// CacheRepo is the narrow slice of pkg/repo.Repo that packetfetch needs
// for idempotence across syncs. Defined here, not in pkg/repo, per Go's
// consumer-side interface convention.
type CacheRepo interface {
	GetProcessingCache(ctx context.Context, packetURL string) (repo.CacheHit, error)
	RecordProcessingCache(ctx context.Context, packetURL, contentHash, method string, elapsedMS int) error
}

// Fetcher downloads packet bytes over plain HTTP.
type Fetcher struct {
	httpClient *http.Client
}

// New creates a Fetcher whose requests are bounded by the PDF hard cap.
func New() *Fetcher {
	return &Fetcher{httpClient: &http.Client{Timeout: pdfHardCap}}
}

// Download fetches the raw bytes at url. Any network or non-200 response
// is reported as an *apperrors.ExtractionError so the caller can skip the
// affected item/meeting without aborting its siblings.
func (f *Fetcher) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &apperrors.ExtractionError{URL: url, Err: err}
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &apperrors.ExtractionError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &apperrors.ExtractionError{
			URL: url,
			Err: fmt.Errorf("packet fetch returned HTTP %d", resp.StatusCode),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperrors.ExtractionError{URL: url, Err: err}
	}
	return data, nil
}

// ContentHash fingerprints a packet's bytes so a later sync can detect
// whether its content actually changed since the cached pass.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
