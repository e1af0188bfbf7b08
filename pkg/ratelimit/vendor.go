// Package ratelimit implements the in-process, mutex-guarded vendor
// politeness delay described in the concurrency model: a single delay is
// applied before the first request to a vendor's endpoint on each city
// sync, distinct per vendor.
package ratelimit

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"
)

// Default per-vendor delays. Unlisted vendors use Default.
var vendorDelays = map[string]time.Duration{
	"primegov":   3 * time.Second,
	"granicus":   4 * time.Second,
	"civicplus":  8 * time.Second, // + 0-2s jitter, applied separately
	"civicclerk": 5 * time.Second,
	"legistar":   5 * time.Second,
	"novusagenda": 5 * time.Second,
	"escribe":    5 * time.Second,
	"iqm2":       5 * time.Second,
	"municode":   5 * time.Second,
	"boarddocs":  5 * time.Second,
	"swagit":     5 * time.Second,
}

// Default is the delay applied to any vendor tag not explicitly listed.
const Default = 5 * time.Second

// civicplusJitterMax bounds the random jitter added to civicplus's delay.
const civicplusJitterMax = 2 * time.Second

// VendorLimiter enforces a politeness delay per vendor tag. State is
// in-process and guarded by a mutex; it is not shared across replicas.
type VendorLimiter struct {
	mu   sync.Mutex
	last map[string]time.Time
}

// NewVendorLimiter creates an empty limiter.
func NewVendorLimiter() *VendorLimiter {
	return &VendorLimiter{last: make(map[string]time.Time)}
}

// Delay returns the configured politeness delay for a vendor tag,
// including the civicplus-specific jitter.
func Delay(vendor string) time.Duration {
	d, ok := vendorDelays[vendor]
	if !ok {
		d = Default
	}
	if vendor == "civicplus" {
		d += time.Duration(rand.Int64N(int64(civicplusJitterMax)))
	}
	return d
}

// Wait blocks until the vendor's politeness delay has elapsed since its
// last request, or the context is cancelled first.
func (l *VendorLimiter) Wait(ctx context.Context, vendor string) error {
	l.mu.Lock()
	last, ok := l.last[vendor]
	delay := Delay(vendor)
	l.mu.Unlock()

	if ok {
		elapsed := time.Since(last)
		if remaining := delay - elapsed; remaining > 0 {
			select {
			case <-time.After(remaining):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	l.mu.Lock()
	l.last[vendor] = time.Now()
	l.mu.Unlock()
	return nil
}
