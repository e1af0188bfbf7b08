package repo

import (
	"context"
	"time"

	"github.com/civicsync/ingest/ent/matter"
	"github.com/civicsync/ingest/ent/processingcache"
	"github.com/civicsync/ingest/ent/queuejob"
	"github.com/civicsync/ingest/pkg/apperrors"
)

// DeleteOldTerminalJobs removes completed/dead_letter QueueJob rows whose
// terminal timestamp is older than cutoff. Rows past JobRetentionDays
// carry no operational value (spec.md queue semantics only ever read
// pending/processing/failed rows) and are the Retention/Maintenance
// Sweeper's first duty.
func (r *Repo) DeleteOldTerminalJobs(ctx context.Context, cutoff time.Time) (int, error) {
	n, err := r.client.QueueJob.Delete().
		Where(
			queuejob.Or(
				queuejob.And(queuejob.StatusEQ(queuejob.StatusCompleted), queuejob.CompletedAtLT(cutoff)),
				queuejob.And(queuejob.StatusEQ(queuejob.StatusDeadLetter), queuejob.FailedAtLT(cutoff)),
			),
		).
		Exec(ctx)
	if err != nil {
		return 0, &apperrors.DatabaseError{Op: "delete old terminal jobs", Err: err}
	}
	return n, nil
}

// EvictExpiredCache removes ProcessingCache rows that have not been
// touched since cutoff, independent of hit_count, bounding the table's
// growth against packet URLs that stop being revisited.
func (r *Repo) EvictExpiredCache(ctx context.Context, cutoff time.Time) (int, error) {
	n, err := r.client.ProcessingCache.Delete().
		Where(processingcache.LastAccessedAtLT(cutoff)).
		Exec(ctx)
	if err != nil {
		return 0, &apperrors.DatabaseError{Op: "evict expired processing cache", Err: err}
	}
	return n, nil
}

// PruneEmptyMatters deletes Matter rows whose appearance_count is zero.
// appearance_count is only ever incremented (upsertMatter); nothing
// decrements it when AgendaItems or MatterAppearances are deleted, so a
// Matter once credited with an appearance is not removed by this sweep.
func (r *Repo) PruneEmptyMatters(ctx context.Context) (int, error) {
	n, err := r.client.Matter.Delete().
		Where(matter.AppearanceCountEQ(0)).
		Exec(ctx)
	if err != nil {
		return 0, &apperrors.DatabaseError{Op: "prune empty matters", Err: err}
	}
	return n, nil
}
