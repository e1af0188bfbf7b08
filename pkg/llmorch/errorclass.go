package llmorch

import (
	"errors"

	"github.com/civicsync/ingest/pkg/llmprovider"
)

// RecoveryAction determines how generateWithRetry handles a failed
// provider call, the same small-enum shape as pkg/mcp/recovery.go's
// ClassifyError/RecoveryAction in the teacher.
type RecoveryAction int

const (
	// NoRetry — the error is not recoverable (bad request, auth
	// failure, content filter, an exhausted retry budget).
	NoRetry RecoveryAction = iota
	// RetryWithDelay — a 429; retry after the classified delay.
	RetryWithDelay
)

// ClassifyError decides the recovery action for a provider error.
func ClassifyError(err error) RecoveryAction {
	if err == nil {
		return NoRetry
	}

	var rle *llmprovider.RateLimitError
	if errors.As(err, &rle) {
		return RetryWithDelay
	}

	return NoRetry
}
