package llmorch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateCost_AppliesBatchDiscount(t *testing.T) {
	interactive := EstimateCost("gemini-2.5-flash", 1_000_000, 1_000_000, false)
	batch := EstimateCost("gemini-2.5-flash", 1_000_000, 1_000_000, true)
	assert.InDelta(t, interactive/2, batch, 1e-9)
}

func TestEstimateCost_UnknownModelFallsBackToPrimary(t *testing.T) {
	unknown := EstimateCost("some-future-model", 1000, 1000, false)
	primary := EstimateCost("gemini-2.5-flash", 1000, 1000, false)
	assert.Equal(t, primary, unknown)
}

func TestEstimateTokens_RoughlyCharsOverFour(t *testing.T) {
	assert.Equal(t, 25, EstimateTokens(strings.Repeat("x", 100)))
}
