package config

import "time"

// RetentionConfig controls the Retention/Maintenance Sweeper: terminal
// queue row cleanup, expired ProcessingCache eviction, and the
// reference-counted Matter pruning sweep.
type RetentionConfig struct {
	// JobRetentionDays is how many days to keep terminal (completed or
	// dead_letter) QueueJob rows before they are deleted.
	JobRetentionDays int `yaml:"job_retention_days"`

	// CacheTTL is the maximum age of a ProcessingCache row before the
	// sweep evicts it, independent of its hit counter.
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// SweepInterval is how often the maintenance sweep runs.
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// DefaultRetentionConfig returns the built-in retention defaults.
func DefaultRetentionConfig() *RetentionConfig {
	return &RetentionConfig{
		JobRetentionDays: 90,
		CacheTTL:         30 * 24 * time.Hour,
		SweepInterval:    12 * time.Hour,
	}
}
