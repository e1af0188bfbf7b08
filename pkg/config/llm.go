package config

import "time"

// LLMConfig controls model selection, timeouts, and the batch/retry
// schedules used by the LLM orchestrator (spec.md §4.6).
type LLMConfig struct {
	// APIKeyEnv names the environment variable holding the provider API key.
	APIKeyEnv string `yaml:"api_key_env"`

	// BaseURL is the provider endpoint; overridable for the fixture test
	// double.
	BaseURL string `yaml:"base_url"`

	// PrimaryModel is used by default (spec: Flash).
	PrimaryModel string `yaml:"primary_model"`

	// LiteModel is used when UseFlashLite gates to the cheaper model.
	LiteModel string `yaml:"lite_model"`

	// LargeModel is reserved for monolithic (whole-packet) calls and for
	// requests of 100 or more pages.
	LargeModel string `yaml:"large_model"`

	// UseFlashLite gates item-level requests to LiteModel when eligible.
	UseFlashLite bool `yaml:"use_flash_lite"`

	// CallTimeout bounds a single LLM call.
	CallTimeout time.Duration `yaml:"call_timeout"`

	// RetryBudget bounds cumulative time spent retrying one call across
	// the reactive 429 schedule.
	RetryBudget time.Duration `yaml:"retry_budget"`

	// RateLimitSchedule is the reactive per-attempt backoff applied after
	// a 429 when the provider supplies no usable retryDelay.
	RateLimitSchedule []time.Duration `yaml:"rate_limit_schedule"`

	// RateLimitCap is the ceiling applied to a provider-supplied
	// retryDelay, and the delay used when RateLimitSchedule is empty.
	// Schedule entries themselves are not capped.
	RateLimitCap time.Duration `yaml:"rate_limit_cap"`

	// ContextCacheTokenThreshold is the minimum estimated token count of a
	// meeting's shared packet context before batch mode creates a
	// provider-side context cache for it.
	ContextCacheTokenThreshold int `yaml:"context_cache_token_threshold"`

	// BatchChunkSize is how many item requests are grouped per batch
	// submission.
	BatchChunkSize int `yaml:"batch_chunk_size"`

	// BatchChunkDelay is the pause between successive batch chunks to let
	// provider quota refill.
	BatchChunkDelay time.Duration `yaml:"batch_chunk_delay"`

	// BatchRetrySchedule is the backoff schedule for a rate-limited batch
	// chunk.
	BatchRetrySchedule []time.Duration `yaml:"batch_retry_schedule"`
}

// DefaultLLMConfig returns the built-in LLM orchestration defaults.
func DefaultLLMConfig() *LLMConfig {
	return &LLMConfig{
		APIKeyEnv:                  "LLM_API_KEY",
		PrimaryModel:               "gemini-2.5-flash",
		LiteModel:                  "gemini-2.5-flash-lite",
		LargeModel:                 "gemini-2.5-pro",
		UseFlashLite:               false,
		CallTimeout:                5 * time.Minute,
		RetryBudget:                3 * time.Minute,
		RateLimitSchedule:          []time.Duration{30 * time.Second, 60 * time.Second, 90 * time.Second},
		RateLimitCap:               180 * time.Second,
		ContextCacheTokenThreshold: 1024,
		BatchChunkSize:             5,
		BatchChunkDelay:            120 * time.Second,
		BatchRetrySchedule:         []time.Duration{60 * time.Second, 120 * time.Second, 240 * time.Second},
	}
}
