package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/civicsync/ingest/ent"
	"github.com/civicsync/ingest/pkg/config"
)

// WorkerPool owns a fixed set of Workers plus the lease-expiry reclaim
// loop. Structural adaptation of pkg/queue/pool.go's WorkerPool,
// generalized from a fixed AlertSession worker count to
// config.QueueConfig.LLMConcurrency.
type WorkerPool struct {
	client     *ent.Client
	config     *config.QueueConfig
	handler    JobHandler
	workers    []*Worker
	instanceID string

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	mu       sync.Mutex
	started  bool

	orphans orphanState
}

// NewWorkerPool builds a pool with config.QueueConfig.LLMConcurrency
// workers, unstarted. Each worker's claimed_by id is namespaced with a
// random instance id so two scheduler processes pointed at the same
// database never mint colliding worker names.
func NewWorkerPool(client *ent.Client, cfg *config.QueueConfig, handler JobHandler) *WorkerPool {
	return &WorkerPool{
		client:     client,
		config:     cfg,
		handler:    handler,
		workers:    make([]*Worker, 0, cfg.LLMConcurrency),
		instanceID: uuid.NewString()[:8],
		stopCh:     make(chan struct{}),
	}
}

// Start spawns the worker goroutines and the lease-expiry reclaim loop.
// Safe to call once; subsequent calls are no-ops.
func (p *WorkerPool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		slog.Warn("worker pool already started, ignoring duplicate Start call")
		return
	}
	p.started = true

	slog.Info("starting queue worker pool", "worker_count", p.config.LLMConcurrency)
	for i := 0; i < p.config.LLMConcurrency; i++ {
		w := NewWorker(fmt.Sprintf("%s-worker-%d", p.instanceID, i), p.client, p.config, p.handler)
		p.workers = append(p.workers, w)
		w.Start(ctx)
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.runOrphanDetection(ctx)
	}()
}

// Stop signals all workers and the reclaim loop to stop, and waits for
// in-flight jobs to finish — each worker completes its current job
// before exiting (graceful shutdown, spec.md §5 SHUTDOWN_GRACE).
func (p *WorkerPool) Stop() {
	slog.Info("stopping queue worker pool")
	for _, w := range p.workers {
		w.Stop()
	}
	p.stopOnce.Do(func() { close(p.stopCh) })
	p.wg.Wait()
	slog.Info("queue worker pool stopped")
}

// Health reports aggregate pool state.
func (p *WorkerPool) Health() *PoolHealth {
	ctx := context.Background()

	depth, err := queueDepth(ctx, p.client)
	if err != nil {
		slog.Error("failed to query queue depth for health check", "error", err)
	}

	stats := make([]WorkerHealth, len(p.workers))
	active := 0
	for i, w := range p.workers {
		h := w.Health()
		stats[i] = h
		if h.Status == string(WorkerStatusWorking) {
			active++
		}
	}

	p.orphans.mu.Lock()
	lastScan := p.orphans.lastScan
	recovered := p.orphans.recovered
	p.orphans.mu.Unlock()

	dbHealthy := err == nil
	var dbErr string
	if !dbHealthy {
		dbErr = err.Error()
	}

	return &PoolHealth{
		IsHealthy:        len(p.workers) > 0 && dbHealthy,
		DBReachable:      dbHealthy,
		DBError:          dbErr,
		ActiveWorkers:    active,
		TotalWorkers:     len(p.workers),
		QueueDepth:       depth,
		WorkerStats:      stats,
		LastOrphanScan:   lastScan,
		OrphansRecovered: recovered,
	}
}
