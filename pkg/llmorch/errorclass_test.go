package llmorch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/civicsync/ingest/pkg/llmprovider"
)

func TestClassifyError_RateLimitRetriesWithDelay(t *testing.T) {
	err := &llmprovider.RateLimitError{HasDelay: true}
	assert.Equal(t, RetryWithDelay, ClassifyError(err))
}

func TestClassifyError_StatusErrorDoesNotRetry(t *testing.T) {
	err := &llmprovider.StatusError{StatusCode: 500}
	assert.Equal(t, NoRetry, ClassifyError(err))
}

func TestClassifyError_WrappedRateLimitStillClassifies(t *testing.T) {
	err := errors.Join(&llmprovider.RateLimitError{HasDelay: false})
	assert.Equal(t, RetryWithDelay, ClassifyError(err))
}

func TestClassifyError_NilIsNoRetry(t *testing.T) {
	assert.Equal(t, NoRetry, ClassifyError(nil))
}
