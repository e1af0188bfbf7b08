// Package cleanup implements the Retention/Maintenance Sweeper
// (SPEC_FULL.md §2 (ADDED)): a periodic background loop that keeps
// operational tables from growing without bound.
package cleanup

import (
	"context"
	"log/slog"
	"time"

	"github.com/civicsync/ingest/pkg/config"
)

// Repo is the narrow slice of pkg/repo the sweeper needs.
type Repo interface {
	DeleteOldTerminalJobs(ctx context.Context, cutoff time.Time) (int, error)
	EvictExpiredCache(ctx context.Context, cutoff time.Time) (int, error)
	PruneEmptyMatters(ctx context.Context) (int, error)
}

// Service periodically enforces retention policy:
//   - deletes terminal (completed/dead_letter) QueueJob rows past
//     JobRetentionDays
//   - evicts ProcessingCache rows untouched since CacheTTL
//   - prunes Matter rows whose appearance_count has dropped to zero
//     (spec.md §9 "reference-counted Matter pruning")
//
// All three operations are idempotent and safe to run from multiple
// replicas concurrently.
type Service struct {
	config *config.RetentionConfig
	repo   Repo
	logger *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewService creates a new Retention/Maintenance Sweeper.
func NewService(cfg *config.RetentionConfig, repo Repo, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{config: cfg, repo: repo, logger: logger}
}

// Start launches the background sweep loop.
func (s *Service) Start(ctx context.Context) {
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.run(ctx)

	s.logger.Info("retention sweeper started",
		"job_retention_days", s.config.JobRetentionDays,
		"cache_ttl", s.config.CacheTTL,
		"sweep_interval", s.config.SweepInterval)
}

// Stop signals the sweep loop to exit and waits for it to finish.
func (s *Service) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.logger.Info("retention sweeper stopped")
}

func (s *Service) run(ctx context.Context) {
	defer close(s.done)

	s.runAll(ctx)

	ticker := time.NewTicker(s.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runAll(ctx)
		}
	}
}

func (s *Service) runAll(ctx context.Context) {
	s.deleteOldJobs(ctx)
	s.evictExpiredCache(ctx)
	s.pruneEmptyMatters(ctx)
}

func (s *Service) deleteOldJobs(ctx context.Context) {
	cutoff := time.Now().AddDate(0, 0, -s.config.JobRetentionDays)
	n, err := s.repo.DeleteOldTerminalJobs(ctx, cutoff)
	if err != nil {
		s.logger.Error("sweep: delete old terminal jobs failed", "error", err)
		return
	}
	if n > 0 {
		s.logger.Info("sweep: deleted old terminal jobs", "count", n)
	}
}

func (s *Service) evictExpiredCache(ctx context.Context) {
	cutoff := time.Now().Add(-s.config.CacheTTL)
	n, err := s.repo.EvictExpiredCache(ctx, cutoff)
	if err != nil {
		s.logger.Error("sweep: evict expired processing cache failed", "error", err)
		return
	}
	if n > 0 {
		s.logger.Info("sweep: evicted expired processing cache rows", "count", n)
	}
}

func (s *Service) pruneEmptyMatters(ctx context.Context) {
	n, err := s.repo.PruneEmptyMatters(ctx)
	if err != nil {
		s.logger.Error("sweep: prune empty matters failed", "error", err)
		return
	}
	if n > 0 {
		s.logger.Info("sweep: pruned matters with zero appearances", "count", n)
	}
}
