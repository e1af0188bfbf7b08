package queue

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect/sql"

	"github.com/civicsync/ingest/ent"
	"github.com/civicsync/ingest/ent/queuejob"
	"github.com/civicsync/ingest/pkg/apperrors"
	"github.com/civicsync/ingest/pkg/config"
)

// Enqueue inserts a new job keyed by source_url, or — if a row already
// exists in a terminal state (completed, failed, dead_letter) —
// resurrects it to pending with retry_count left unchanged and a fresh
// priority (spec.md §4.4 "Enqueue"). A row still pending or processing
// is left alone; the second enqueue is a no-op.
func Enqueue(ctx context.Context, client *ent.Client, sourceURL, meetingID, banana, jobType string, payload map[string]interface{}, priority int) (*ent.QueueJob, error) {
	existing, err := client.QueueJob.Query().
		Where(queuejob.SourceURLEQ(sourceURL)).
		Only(ctx)
	if err != nil {
		if !ent.IsNotFound(err) {
			return nil, fmt.Errorf("query existing job for %s: %w", sourceURL, err)
		}
		create := client.QueueJob.Create().
			SetSourceURL(sourceURL).
			SetJobType(jobType).
			SetPriority(priority)
		if meetingID != "" {
			create = create.SetMeetingID(meetingID)
		}
		if banana != "" {
			create = create.SetBanana(banana)
		}
		if payload != nil {
			create = create.SetPayload(payload)
		}
		job, err := create.Save(ctx)
		if err != nil {
			return nil, fmt.Errorf("create job for %s: %w", sourceURL, err)
		}
		return job, nil
	}

	switch existing.Status {
	case queuejob.StatusCompleted, queuejob.StatusFailed, queuejob.StatusDeadLetter:
		job, err := existing.Update().
			SetStatus(queuejob.StatusPending).
			SetPriority(priority).
			ClearErrorMessage().
			ClearNextAttemptAt().
			ClearCompletedAt().
			ClearFailedAt().
			ClearClaimedBy().
			Save(ctx)
		if err != nil {
			return nil, fmt.Errorf("resurrect job %d: %w", existing.ID, err)
		}
		return job, nil
	default:
		return existing, nil
	}
}

// claimNextJob atomically picks the highest-priority pending job whose
// next_attempt_at has elapsed (FIFO within priority), marks it
// processing, and records the claiming worker. Structural adaptation of
// pkg/queue/worker.go's claimNextSession: the same
// ForUpdate(sql.WithLockAction(sql.SkipLocked)).First(ctx) pattern inside
// a transaction, generalized from a single AlertSession table to the
// typed QueueJob entity.
func claimNextJob(ctx context.Context, client *ent.Client, workerID string) (*ent.QueueJob, error) {
	tx, err := client.Tx(ctx)
	if err != nil {
		return nil, fmt.Errorf("start transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now()
	job, err := tx.QueueJob.Query().
		Where(
			queuejob.StatusEQ(queuejob.StatusPending),
			queuejob.Or(
				queuejob.NextAttemptAtIsNil(),
				queuejob.NextAttemptAtLTE(now),
			),
		).
		Order(ent.Desc(queuejob.FieldPriority), ent.Asc(queuejob.FieldCreatedAt)).
		Limit(1).
		ForUpdate(sql.WithLockAction(sql.SkipLocked)).
		First(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNoJobsAvailable
		}
		return nil, fmt.Errorf("query pending job: %w", err)
	}

	job, err = job.Update().
		SetStatus(queuejob.StatusProcessing).
		SetStartedAt(now).
		SetClaimedBy(workerID).
		Save(ctx)
	if err != nil {
		return nil, fmt.Errorf("claim job %d: %w", job.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit claim: %w", err)
	}
	return job, nil
}

// completeJob marks a job completed, but only if workerID still holds
// its lease. If the lease was reclaimed (spec.md §4.4 "Lease expiry")
// this is a no-op, signalled via apperrors.QueueLeaseLost so the caller
// can log it without treating it as a processing failure.
func completeJob(ctx context.Context, client *ent.Client, jobID int, workerID string) error {
	tx, err := client.Tx(ctx)
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	current, err := tx.QueueJob.Get(ctx, jobID)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("reload job %d: %w", jobID, err)
	}
	if current.ClaimedBy == nil || *current.ClaimedBy != workerID {
		return &apperrors.QueueLeaseLost{JobID: jobID}
	}

	if err := current.Update().
		SetStatus(queuejob.StatusCompleted).
		SetCompletedAt(time.Now()).
		Exec(ctx); err != nil {
		return fmt.Errorf("complete job %d: %w", jobID, err)
	}
	return tx.Commit()
}

// failJob records a processing failure. Below cfg.MaxRetries the job
// goes back to pending with priority decremented by one and
// next_attempt_at set to now+backoff; at or beyond MaxRetries it moves
// to dead_letter. Like completeJob, a lost lease is a no-op.
func failJob(ctx context.Context, client *ent.Client, jobID int, workerID, errMsg string, cfg *config.QueueConfig) error {
	tx, err := client.Tx(ctx)
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	current, err := tx.QueueJob.Get(ctx, jobID)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("reload job %d: %w", jobID, err)
	}
	if current.ClaimedBy == nil || *current.ClaimedBy != workerID {
		return &apperrors.QueueLeaseLost{JobID: jobID}
	}

	retryCount := current.RetryCount + 1
	upd := current.Update().
		SetErrorMessage(errMsg).
		SetFailedAt(time.Now()).
		SetRetryCount(retryCount)

	if retryCount >= cfg.MaxRetries {
		upd = upd.SetStatus(queuejob.StatusDeadLetter)
	} else {
		upd = upd.
			SetStatus(queuejob.StatusPending).
			SetPriority(current.Priority - 1).
			SetNextAttemptAt(time.Now().Add(backoffFor(retryCount, cfg.BackoffBase, cfg.BackoffMax)))
	}

	if err := upd.Exec(ctx); err != nil {
		return fmt.Errorf("update failed job %d: %w", jobID, err)
	}
	return tx.Commit()
}

// backoffFor computes 30s*2^retryCount capped at max (spec.md §4.4).
func backoffFor(retryCount int, base, max time.Duration) time.Duration {
	if retryCount < 0 {
		retryCount = 0
	}
	d := base * time.Duration(uint64(1)<<uint(retryCount))
	if d <= 0 || d > max {
		return max
	}
	return d
}

// queueDepth counts pending jobs, used for health reporting.
func queueDepth(ctx context.Context, client *ent.Client) (int, error) {
	return client.QueueJob.Query().Where(queuejob.StatusEQ(queuejob.StatusPending)).Count(ctx)
}

// PreviewPending lists the next pending jobs in claim order (priority
// desc, then created_at asc — the same ordering claimNextJob uses),
// without claiming them. Backs the operator CLI's preview-queue command.
func PreviewPending(ctx context.Context, client *ent.Client, limit int) ([]*ent.QueueJob, error) {
	return client.QueueJob.Query().
		Where(queuejob.StatusEQ(queuejob.StatusPending)).
		Order(ent.Desc(queuejob.FieldPriority), ent.Asc(queuejob.FieldCreatedAt)).
		Limit(limit).
		All(ctx)
}
