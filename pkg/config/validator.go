package config

// Validator checks a loaded Config for internally consistent, usable
// values before it is handed to the scheduler.
type Validator struct {
	cfg *Config
}

// NewValidator creates a validator bound to cfg.
func NewValidator(cfg *Config) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateAll runs every section validator and returns the first failure.
func (v *Validator) ValidateAll() error {
	if err := v.validateQueue(); err != nil {
		return err
	}
	if err := v.validateRetention(); err != nil {
		return err
	}
	if err := v.validateLLM(); err != nil {
		return err
	}
	if err := v.validateScheduler(); err != nil {
		return err
	}
	return nil
}

func (v *Validator) validateQueue() error {
	q := v.cfg.Queue
	if q.LLMConcurrency < 1 {
		return NewValidationError("queue", "llm_concurrency", ErrInvalidValue)
	}
	if q.MaxRetries < 0 {
		return NewValidationError("queue", "max_retries", ErrInvalidValue)
	}
	if q.LeaseTTL <= 0 {
		return NewValidationError("queue", "lease_ttl", ErrInvalidValue)
	}
	if q.BackoffBase <= 0 || q.BackoffMax < q.BackoffBase {
		return NewValidationError("queue", "backoff_base/backoff_max", ErrInvalidValue)
	}
	return nil
}

func (v *Validator) validateRetention() error {
	r := v.cfg.Retention
	if r.JobRetentionDays < 0 {
		return NewValidationError("retention", "job_retention_days", ErrInvalidValue)
	}
	if r.CacheTTL <= 0 {
		return NewValidationError("retention", "cache_ttl", ErrInvalidValue)
	}
	if r.SweepInterval <= 0 {
		return NewValidationError("retention", "sweep_interval", ErrInvalidValue)
	}
	return nil
}

func (v *Validator) validateLLM() error {
	l := v.cfg.LLM
	if l.PrimaryModel == "" {
		return NewValidationError("llm", "primary_model", ErrMissingRequiredField)
	}
	if l.CallTimeout <= 0 {
		return NewValidationError("llm", "call_timeout", ErrInvalidValue)
	}
	if l.ContextCacheTokenThreshold < 0 {
		return NewValidationError("llm", "context_cache_token_threshold", ErrInvalidValue)
	}
	if l.BatchChunkSize < 1 {
		return NewValidationError("llm", "batch_chunk_size", ErrInvalidValue)
	}
	if len(l.RateLimitSchedule) == 0 {
		return NewValidationError("llm", "rate_limit_schedule", ErrMissingRequiredField)
	}
	if len(l.BatchRetrySchedule) == 0 {
		return NewValidationError("llm", "batch_retry_schedule", ErrMissingRequiredField)
	}
	return nil
}

func (v *Validator) validateScheduler() error {
	s := v.cfg.Scheduler
	if s.SyncInterval <= 0 {
		return NewValidationError("scheduler", "sync_interval", ErrInvalidValue)
	}
	if s.FetchConcurrency < 1 {
		return NewValidationError("scheduler", "fetch_concurrency", ErrInvalidValue)
	}
	if s.CitySyncMaxRetries < 0 {
		return NewValidationError("scheduler", "city_sync_max_retries", ErrInvalidValue)
	}
	if s.HistoricalCutoff <= 0 || s.FutureCutoff <= 0 {
		return NewValidationError("scheduler", "historical_cutoff/future_cutoff", ErrInvalidValue)
	}
	if s.ShutdownGrace <= 0 {
		return NewValidationError("scheduler", "shutdown_grace", ErrInvalidValue)
	}
	return nil
}
