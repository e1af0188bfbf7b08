// Package extract is the PDF-text-extraction seam: turn a downloaded
// packet or attachment's bytes into plain text the LLM orchestrator can
// prompt over. It is a narrow interface on purpose — pkg/processor
// depends on Extractor, never on github.com/ledongthuc/pdf
// directly, so a future swap (OCR fallback, a different PDF library)
// touches one file.
package extract

import (
	"bytes"
	"context"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/civicsync/ingest/pkg/apperrors"
)

// Result is what a packet or attachment yields after extraction.
type Result struct {
	Text      string
	PageCount int
	// Success is false when extraction produced no usable text (an
	// image-only scan, an encrypted PDF, or a parse failure) — the
	// caller still has a Result to log, not just an error.
	Success bool
}

// Extractor turns raw document bytes into text. url is carried through
// only for error reporting; implementations never fetch it.
type Extractor interface {
	Extract(ctx context.Context, url string, data []byte) (Result, error)
}

// PDFExtractor extracts plain text from PDF bytes page by page.
type PDFExtractor struct{}

// NewPDFExtractor builds the default Extractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Extract implements Extractor. Per-page failures (a malformed content
// stream, a scanned image page with no text layer) are skipped rather
// than failing the whole document — a 40-page packet with one bad page
// still yields the other 39.
func (e *PDFExtractor) Extract(ctx context.Context, url string, data []byte) (Result, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, &apperrors.ExtractionError{URL: url, Err: err}
	}

	pageCount := reader.NumPage()
	var text strings.Builder
	fonts := make(map[string]*pdf.Font)

	for i := 1; i <= pageCount; i++ {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		default:
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(fonts)
		if err != nil {
			continue
		}
		text.WriteString(content)
		text.WriteString("\n")
	}

	extracted := text.String()
	return Result{
		Text:      extracted,
		PageCount: pageCount,
		Success:   strings.TrimSpace(extracted) != "",
	}, nil
}
