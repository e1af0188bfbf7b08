// Package queue implements the durable priority-FIFO QueueJob queue: a
// claim transaction built on SELECT ... FOR UPDATE SKIP LOCKED, and a
// worker pool that dequeues and dispatches jobs to a JobHandler.
package queue

import (
	"context"
	"errors"
	"time"

	"github.com/civicsync/ingest/ent"
)

// Sentinel errors for queue operations.
var (
	// ErrNoJobsAvailable indicates no claimable pending job exists right now.
	ErrNoJobsAvailable = errors.New("no jobs available")

	// ErrAtCapacity indicates the worker pool has no free slot.
	ErrAtCapacity = errors.New("at capacity")
)

// JobHandler processes a single claimed QueueJob. It dispatches on
// job.JobType internally (item_level vs. monolithic, spec.md §4.5); the
// queue package itself is job-type agnostic. A returned error marks the
// job failed (scheduled for retry or dead-lettered); a nil error
// completes it.
type JobHandler interface {
	Handle(ctx context.Context, job *ent.QueueJob) error
}

// PoolHealth reports aggregate worker pool state.
type PoolHealth struct {
	IsHealthy        bool           `json:"is_healthy"`
	DBReachable      bool           `json:"db_reachable"`
	DBError          string         `json:"db_error,omitempty"`
	ActiveWorkers    int            `json:"active_workers"`
	TotalWorkers     int            `json:"total_workers"`
	QueueDepth       int            `json:"queue_depth"`
	WorkerStats      []WorkerHealth `json:"worker_stats"`
	LastOrphanScan   time.Time      `json:"last_orphan_scan"`
	OrphansRecovered int            `json:"orphans_recovered"`
}

// WorkerHealth reports a single worker's state.
type WorkerHealth struct {
	ID              string    `json:"id"`
	Status          string    `json:"status"` // idle | working
	CurrentJobID    int       `json:"current_job_id,omitempty"`
	JobsProcessed   int       `json:"jobs_processed"`
	LastActivity    time.Time `json:"last_activity"`
}

// Status is a worker's current activity, distinct from a QueueJob's
// persisted status.
type Status string

const (
	WorkerStatusIdle    Status = "idle"
	WorkerStatusWorking Status = "working"
)
