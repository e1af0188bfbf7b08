package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Queue:     DefaultQueueConfig(),
		Retention: DefaultRetentionConfig(),
		LLM:       DefaultLLMConfig(),
		Scheduler: DefaultSchedulerConfig(),
	}
}

func TestValidateAll_DefaultsPass(t *testing.T) {
	assert.NoError(t, NewValidator(validConfig()).ValidateAll())
}

func TestValidateQueue_RejectsZeroConcurrency(t *testing.T) {
	cfg := validConfig()
	cfg.Queue.LLMConcurrency = 0
	assert.Error(t, NewValidator(cfg).ValidateAll())
}

func TestValidateQueue_RejectsBackoffMaxBelowBase(t *testing.T) {
	cfg := validConfig()
	cfg.Queue.BackoffMax = 1 * time.Second
	cfg.Queue.BackoffBase = 30 * time.Second
	assert.Error(t, NewValidator(cfg).ValidateAll())
}

func TestValidateLLM_RejectsEmptyPrimaryModel(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.PrimaryModel = ""
	assert.ErrorIs(t, NewValidator(cfg).ValidateAll(), ErrMissingRequiredField)
}

func TestValidateLLM_RejectsEmptyRateLimitSchedule(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.RateLimitSchedule = nil
	assert.Error(t, NewValidator(cfg).ValidateAll())
}

func TestValidateScheduler_RejectsZeroFetchConcurrency(t *testing.T) {
	cfg := validConfig()
	cfg.Scheduler.FetchConcurrency = 0
	assert.Error(t, NewValidator(cfg).ValidateAll())
}

func TestValidateRetention_RejectsNonPositiveCacheTTL(t *testing.T) {
	cfg := validConfig()
	cfg.Retention.CacheTTL = 0
	assert.Error(t, NewValidator(cfg).ValidateAll())
}
