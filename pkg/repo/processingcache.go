package repo

import (
	"context"
	"time"

	"github.com/civicsync/ingest/ent"
	"github.com/civicsync/ingest/pkg/apperrors"
)

// CacheHit is what the processing cache reports for a previously-seen
// packet URL, used for idempotence across syncs (spec.md §3
// "ProcessingCache").
type CacheHit struct {
	Found       bool
	ContentHash string
	Method      string
}

// GetProcessingCache looks up a packet URL's last-known content hash
// and processing method, bumping its hit counter and last-accessed
// timestamp on every lookup whether or not the caller ends up reusing
// the cached result.
func (r *Repo) GetProcessingCache(ctx context.Context, packetURL string) (CacheHit, error) {
	row, err := r.client.ProcessingCache.Get(ctx, packetURL)
	if err != nil {
		if ent.IsNotFound(err) {
			return CacheHit{}, nil
		}
		return CacheHit{}, &apperrors.DatabaseError{Op: "get processing cache", Err: err}
	}

	if _, err := row.Update().
		SetHitCount(row.HitCount + 1).
		SetLastAccessedAt(time.Now()).
		Save(ctx); err != nil {
		return CacheHit{}, &apperrors.DatabaseError{Op: "bump processing cache hit count", Err: err}
	}

	return CacheHit{Found: true, ContentHash: row.ContentHash, Method: row.Method}, nil
}

// RecordProcessingCache upserts the cache row for a packet URL after a
// fresh extraction/processing pass.
func (r *Repo) RecordProcessingCache(ctx context.Context, packetURL, contentHash, method string, elapsedMS int) error {
	existing, err := r.client.ProcessingCache.Get(ctx, packetURL)
	if err != nil && !ent.IsNotFound(err) {
		return &apperrors.DatabaseError{Op: "get processing cache", Err: err}
	}

	if existing == nil {
		_, err := r.client.ProcessingCache.Create().
			SetID(packetURL).
			SetContentHash(contentHash).
			SetMethod(method).
			SetElapsedMs(elapsedMS).
			Save(ctx)
		if err != nil {
			return &apperrors.DatabaseError{Op: "create processing cache", Err: err}
		}
		return nil
	}

	if _, err := existing.Update().
		SetContentHash(contentHash).
		SetMethod(method).
		SetElapsedMs(elapsedMS).
		SetLastAccessedAt(time.Now()).
		Save(ctx); err != nil {
		return &apperrors.DatabaseError{Op: "update processing cache", Err: err}
	}
	return nil
}
