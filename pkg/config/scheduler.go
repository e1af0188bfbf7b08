package config

import "time"

// SchedulerConfig controls the sync loop and its vendor/city fan-out
// (spec.md §4.1, §5).
type SchedulerConfig struct {
	// SyncInterval is how often the sync loop re-scans active cities.
	SyncInterval time.Duration `yaml:"sync_interval"`

	// FetchConcurrency bounds how many cities within one vendor group sync
	// concurrently.
	FetchConcurrency int `yaml:"fetch_concurrency"`

	// CitySyncMaxRetries bounds per-city sync retries within one cycle.
	CitySyncMaxRetries int `yaml:"city_sync_max_retries"`

	// HistoricalCutoff and FutureCutoff bound the enqueue eligibility
	// window around a meeting's date.
	HistoricalCutoff time.Duration `yaml:"historical_cutoff"`
	FutureCutoff     time.Duration `yaml:"future_cutoff"`

	// ShutdownGrace bounds how long a worker is given to abandon its
	// current suspension point during graceful shutdown.
	ShutdownGrace time.Duration `yaml:"shutdown_grace"`

	// PDFExtractTimeout bounds a single PDF download + extraction.
	PDFExtractTimeout time.Duration `yaml:"pdf_extract_timeout"`

	// VendorHTTPTimeout and VendorHTTPConnectTimeout bound per-request
	// and per-connect phases of vendor adapter HTTP calls.
	VendorHTTPTimeout        time.Duration `yaml:"vendor_http_timeout"`
	VendorHTTPConnectTimeout time.Duration `yaml:"vendor_http_connect_timeout"`
}

// DefaultSchedulerConfig returns the built-in scheduler defaults.
func DefaultSchedulerConfig() *SchedulerConfig {
	return &SchedulerConfig{
		SyncInterval:             72 * time.Hour,
		FetchConcurrency:         1,
		CitySyncMaxRetries:       3,
		HistoricalCutoff:         180 * 24 * time.Hour,
		FutureCutoff:             60 * 24 * time.Hour,
		ShutdownGrace:            15 * time.Second,
		PDFExtractTimeout:        10 * time.Minute,
		VendorHTTPTimeout:        30 * time.Second,
		VendorHTTPConnectTimeout: 10 * time.Second,
	}
}
