package queue

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/civicsync/ingest/ent"
	"github.com/civicsync/ingest/pkg/apperrors"
	"github.com/civicsync/ingest/pkg/config"
)

// Worker claims one QueueJob at a time and hands it to a JobHandler.
// Structural adaptation of pkg/queue/worker.go's Worker: the same
// stopCh/sync.Once/sync.WaitGroup start/stop shape and poll loop,
// generalized from session claiming to job claiming.
type Worker struct {
	id      string
	client  *ent.Client
	config  *config.QueueConfig
	handler JobHandler

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	mu            sync.RWMutex
	status        Status
	currentJobID  int
	jobsProcessed int
	lastActivity  time.Time
}

// NewWorker builds a Worker. handler must not be nil.
func NewWorker(id string, client *ent.Client, cfg *config.QueueConfig, handler JobHandler) *Worker {
	return &Worker{
		id:           id,
		client:       client,
		config:       cfg,
		handler:      handler,
		stopCh:       make(chan struct{}),
		status:       WorkerStatusIdle,
		lastActivity: time.Now(),
	}
}

// Start runs the worker's poll loop in a background goroutine.
func (w *Worker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()
}

// Stop signals the worker to stop after its current job and waits for it
// to exit.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	w.wg.Wait()
}

func (w *Worker) run(ctx context.Context) {
	for {
		select {
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		default:
		}

		err := w.pollAndProcess(ctx)
		switch {
		case err == nil:
			continue
		case errors.Is(err, ErrNoJobsAvailable):
			w.sleep(ctx, w.pollInterval())
		default:
			slog.Error("worker poll failed", "worker_id", w.id, "error", err)
			w.sleep(ctx, time.Second)
		}
	}
}

func (w *Worker) sleep(ctx context.Context, d time.Duration) {
	select {
	case <-time.After(d):
	case <-w.stopCh:
	case <-ctx.Done():
	}
}

func (w *Worker) pollAndProcess(ctx context.Context) error {
	job, err := claimNextJob(ctx, w.client, w.id)
	if err != nil {
		return err
	}

	w.setWorking(job.ID)
	defer w.setIdle()

	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	handleErr := w.handler.Handle(jobCtx, job)
	if handleErr == nil {
		if err := completeJob(ctx, w.client, job.ID, w.id); err != nil {
			w.logLeaseOutcome("complete", job.ID, err)
		}
	} else {
		if err := failJob(ctx, w.client, job.ID, w.id, handleErr.Error(), w.config); err != nil {
			w.logLeaseOutcome("fail", job.ID, err)
		}
	}

	w.mu.Lock()
	w.jobsProcessed++
	w.lastActivity = time.Now()
	w.mu.Unlock()

	return nil
}

func (w *Worker) logLeaseOutcome(verb string, jobID int, err error) {
	var lost *apperrors.QueueLeaseLost
	if errors.As(err, &lost) {
		slog.Warn("lease reclaimed before "+verb, "worker_id", w.id, "job_id", jobID)
		return
	}
	slog.Error("failed to "+verb+" job", "worker_id", w.id, "job_id", jobID, "error", err)
}

// pollInterval returns the base claim interval with up to ±25% jitter,
// spreading worker poll passes so they don't all hit the DB in lockstep.
func (w *Worker) pollInterval() time.Duration {
	base := w.config.ClaimInterval
	jitter := base / 4
	if jitter <= 0 {
		return base
	}
	offset := time.Duration(rand.Int64N(int64(2*jitter))) - jitter
	d := base + offset
	if d < 0 {
		return 0
	}
	return d
}

func (w *Worker) setWorking(jobID int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.status = WorkerStatusWorking
	w.currentJobID = jobID
}

func (w *Worker) setIdle() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.status = WorkerStatusIdle
	w.currentJobID = 0
}

// Health reports the worker's current state.
func (w *Worker) Health() WorkerHealth {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return WorkerHealth{
		ID:            w.id,
		Status:        string(w.status),
		CurrentJobID:  w.currentJobID,
		JobsProcessed: w.jobsProcessed,
		LastActivity:  w.lastActivity,
	}
}
