package config

import "time"

// QueueConfig contains queue and worker pool configuration. These values
// control how QueueJob rows are polled, claimed, retried, and
// dead-lettered.
type QueueConfig struct {
	// ClaimInterval is the base interval between processing-loop poll
	// passes.
	ClaimInterval time.Duration `yaml:"claim_interval"`

	// LLMConcurrency is the number of jobs claimed and handed to the
	// processor in parallel per poll pass.
	LLMConcurrency int `yaml:"llm_concurrency"`

	// MaxRetries is the number of processing attempts before a job moves
	// to dead_letter.
	MaxRetries int `yaml:"max_retries"`

	// LeaseTTL is how long a job may sit in status=processing before it
	// is considered abandoned and reclaimable by another worker.
	LeaseTTL time.Duration `yaml:"lease_ttl"`

	// BackoffBase and BackoffMax bound the retry backoff schedule:
	// backoff = BackoffBase * 2^retry_count, capped at BackoffMax.
	BackoffBase time.Duration `yaml:"backoff_base"`
	BackoffMax  time.Duration `yaml:"backoff_max"`

	// GracefulShutdownTimeout is the max time to wait for in-flight jobs
	// to finish or be preempted during shutdown.
	GracefulShutdownTimeout time.Duration `yaml:"graceful_shutdown_timeout"`
}

// DefaultQueueConfig returns the built-in queue defaults.
func DefaultQueueConfig() *QueueConfig {
	return &QueueConfig{
		ClaimInterval:           5 * time.Second,
		LLMConcurrency:          3,
		MaxRetries:              3,
		LeaseTTL:                10 * time.Minute,
		BackoffBase:             30 * time.Second,
		BackoffMax:              5 * time.Minute,
		GracefulShutdownTimeout: 15 * time.Second,
	}
}
