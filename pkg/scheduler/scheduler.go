// Package scheduler drives the two concurrent top-level activities
// named in spec.md §4.1: a periodic sync loop over active cities,
// grouped by vendor and bounded-concurrency within a group, and a
// continuous processing loop that owns the queue worker pool.
package scheduler

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/civicsync/ingest/pkg/config"
	"github.com/civicsync/ingest/pkg/fetcher"
	"github.com/civicsync/ingest/pkg/queue"
)

// CityRepo lists the active cities to sync. Satisfied by
// *repo.Repo.ActiveCities.
type CityRepo interface {
	ActiveCities(ctx context.Context) ([]fetcher.City, error)
}

// CitySyncer runs one city's full sync pass. Satisfied by
// *fetcher.Fetcher.SyncCity.
type CitySyncer interface {
	SyncCity(ctx context.Context, city fetcher.City) error
}

// Scheduler owns the sync loop, its per-vendor fan-out, and the
// processing worker pool.
type Scheduler struct {
	cities CityRepo
	syncer CitySyncer
	pool   *queue.WorkerPool
	config *config.SchedulerConfig
	logger *slog.Logger

	mu         sync.Mutex
	cityErrors map[string]int
	stopCh     chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
}

// New builds a Scheduler. pool is started/stopped alongside the
// Scheduler's own lifecycle.
func New(cities CityRepo, syncer CitySyncer, pool *queue.WorkerPool, cfg *config.SchedulerConfig) *Scheduler {
	return &Scheduler{
		cities:     cities,
		syncer:     syncer,
		pool:       pool,
		config:     cfg,
		logger:     slog.Default(),
		cityErrors: make(map[string]int),
		stopCh:     make(chan struct{}),
	}
}

// Start launches the sync loop goroutine and the processing worker pool.
// Both are cancellable via ctx and Stop.
func (s *Scheduler) Start(ctx context.Context) {
	s.pool.Start(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runSyncLoop(ctx)
	}()
}

// Stop signals the sync loop to end after its current city and stops
// the worker pool once in-flight jobs finish (spec.md §5 SHUTDOWN_GRACE).
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()
	s.pool.Stop()
}

// SyncOnce runs a single full sync pass immediately, outside the ticker
// cadence — used by the operator CLI's sync-cities command.
func (s *Scheduler) SyncOnce(ctx context.Context) error {
	cities, err := s.cities.ActiveCities(ctx)
	if err != nil {
		return err
	}
	s.syncCities(ctx, cities)
	return nil
}

func (s *Scheduler) runSyncLoop(ctx context.Context) {
	if err := s.SyncOnce(ctx); err != nil {
		s.logger.Error("initial sync pass failed", "error", err)
	}

	ticker := time.NewTicker(s.config.SyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.SyncOnce(ctx); err != nil {
				s.logger.Error("sync pass failed", "error", err)
			}
		}
	}
}

// syncCities groups cities by vendor and syncs each vendor group
// concurrently; within a group, up to config.FetchConcurrency cities
// sync at once (spec.md §4.1: "across vendors ... parallel", "within a
// vendor ... bounded concurrency").
func (s *Scheduler) syncCities(ctx context.Context, cities []fetcher.City) {
	groups := make(map[string][]fetcher.City)
	for _, c := range cities {
		key := string(c.VendorTag)
		groups[key] = append(groups[key], c)
	}

	var wg sync.WaitGroup
	for vendor, group := range groups {
		wg.Add(1)
		go func(vendor string, group []fetcher.City) {
			defer wg.Done()
			s.syncVendorGroup(ctx, group)
		}(vendor, group)
	}
	wg.Wait()
}

func (s *Scheduler) syncVendorGroup(ctx context.Context, cities []fetcher.City) {
	concurrency := s.config.FetchConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for _, city := range cities {
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		default:
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(city fetcher.City) {
			defer wg.Done()
			defer func() { <-sem }()
			s.syncCityWithRetry(ctx, city)
		}(city)
	}
	wg.Wait()
}

// syncCityWithRetry retries a city's sync up to CitySyncMaxRetries times
// with jittered exponential backoff, recording a per-city error count
// without ever aborting the broader loop (spec.md §4.1 "Failure
// policy").
func (s *Scheduler) syncCityWithRetry(ctx context.Context, city fetcher.City) {
	maxRetries := s.config.CitySyncMaxRetries
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(citySyncBackoff(attempt)):
			case <-s.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}

		lastErr = s.syncer.SyncCity(ctx, city)
		if lastErr == nil {
			return
		}
		s.logger.Warn("city sync attempt failed", "city", city.ID, "attempt", attempt, "error", lastErr)
	}

	s.mu.Lock()
	s.cityErrors[city.ID]++
	s.mu.Unlock()
	s.logger.Error("city sync exhausted retries", "city", city.ID, "error", lastErr)
}

// CityErrorCount reports how many sync cycles city has failed to
// complete after exhausting its retries, counted over the Scheduler's
// lifetime; a later successful sync does not reset it.
func (s *Scheduler) CityErrorCount(cityID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cityErrors[cityID]
}

// citySyncBackoff is a jittered 2s*2^attempt backoff capped at 30s,
// bounded well under SYNC_INTERVAL so 3 retries never bleed into the
// next cycle.
func citySyncBackoff(attempt int) time.Duration {
	base := 2 * time.Second
	d := base * time.Duration(uint64(1)<<uint(attempt))
	const maxBackoff = 30 * time.Second
	if d <= 0 || d > maxBackoff {
		d = maxBackoff
	}
	jitter := time.Duration(rand.Int64N(int64(d) / 4))
	return d - jitter
}
