package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/civicsync/ingest/ent"
	"github.com/civicsync/ingest/ent/queuejob"
)

// orphanScanInterval is how often the pool scans for expired leases.
// Not config-driven: spec.md names only LEASE_TTL itself, not a scan
// cadence, so a fixed cadence well below any realistic LEASE_TTL is
// used instead of adding a new tunable.
const orphanScanInterval = time.Minute

// orphanState tracks lease-reclaim metrics (thread-safe).
type orphanState struct {
	mu        sync.Mutex
	lastScan  time.Time
	recovered int
}

// runOrphanDetection periodically reclaims jobs whose lease has expired.
// Structural adaptation of pkg/queue/orphan.go's runOrphanDetection; all
// pods run this independently since reclaim is idempotent (a job already
// reclaimed by another scan simply doesn't match the query anymore).
func (p *WorkerPool) runOrphanDetection(ctx context.Context) {
	ticker := time.NewTicker(orphanScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopCh:
			return
		case <-ticker.C:
			if err := p.reclaimExpiredLeases(ctx); err != nil {
				slog.Error("lease reclaim scan failed", "error", err)
			}
		}
	}
}

// reclaimExpiredLeases finds processing jobs whose lease (started_at +
// LeaseTTL) has passed and returns them to pending so any worker can
// claim them again (spec.md §4.4 "Lease expiry"). The surrendering
// worker's later complete/fail call becomes a no-op once claimed_by no
// longer matches.
func (p *WorkerPool) reclaimExpiredLeases(ctx context.Context) error {
	threshold := time.Now().Add(-p.config.LeaseTTL)

	expired, err := p.client.QueueJob.Query().
		Where(
			queuejob.StatusEQ(queuejob.StatusProcessing),
			queuejob.StartedAtNotNil(),
			queuejob.StartedAtLT(threshold),
		).
		All(ctx)
	if err != nil {
		return fmt.Errorf("query expired leases: %w", err)
	}

	if len(expired) == 0 {
		p.orphans.mu.Lock()
		p.orphans.lastScan = time.Now()
		p.orphans.mu.Unlock()
		return nil
	}

	slog.Warn("reclaiming expired queue job leases", "count", len(expired))

	recovered := 0
	for _, job := range expired {
		if err := p.reclaimJob(ctx, job); err != nil {
			slog.Error("failed to reclaim job", "job_id", job.ID, "error", err)
			continue
		}
		recovered++
	}

	p.orphans.mu.Lock()
	p.orphans.lastScan = time.Now()
	p.orphans.recovered += recovered
	p.orphans.mu.Unlock()
	return nil
}

func (p *WorkerPool) reclaimJob(ctx context.Context, job *ent.QueueJob) error {
	previousOwner := "unknown"
	if job.ClaimedBy != nil {
		previousOwner = *job.ClaimedBy
	}

	err := job.Update().
		SetStatus(queuejob.StatusPending).
		ClearClaimedBy().
		ClearStartedAt().
		Save(ctx)
	if err != nil {
		return fmt.Errorf("reclaim job %d: %w", job.ID, err)
	}

	slog.Warn("queue job lease expired, returned to pending", "job_id", job.ID, "previous_owner", previousOwner)
	return nil
}

// ReclaimStartupOrphans resets every job currently in processing back to
// pending (crash recovery), whatever its claimed_by, mirroring
// pkg/queue/orphan.go's CleanupStartupOrphans. WorkerPool does not call
// it; jobs another live process holds are reset too.
func ReclaimStartupOrphans(ctx context.Context, client *ent.Client) error {
	stuck, err := client.QueueJob.Query().
		Where(queuejob.StatusEQ(queuejob.StatusProcessing)).
		All(ctx)
	if err != nil {
		return fmt.Errorf("query startup orphans: %w", err)
	}
	if len(stuck) == 0 {
		return nil
	}

	slog.Warn("found queue jobs left processing from a previous run", "count", len(stuck))
	for _, job := range stuck {
		if err := job.Update().
			SetStatus(queuejob.StatusPending).
			ClearClaimedBy().
			ClearStartedAt().
			Exec(ctx); err != nil {
			slog.Error("failed to reset startup orphan", "job_id", job.ID, "error", err)
			continue
		}
		slog.Info("startup orphan reset to pending", "job_id", job.ID)
	}
	return nil
}
