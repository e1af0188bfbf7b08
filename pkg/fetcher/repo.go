package fetcher

import (
	"context"

	"github.com/civicsync/ingest/pkg/adapter"
	"github.com/civicsync/ingest/pkg/models"
)

// City is the Fetcher's view of a row in the City repository: just
// enough to drive one sync pass, independent of storage internals.
type City struct {
	ID           string
	Banana       string // slug + state (e.g. paloaltoCA), incorporated into every canonical id
	VendorTag    adapter.Tag
	VendorSiteID string
}

// UpsertResult is what the repository layer reports back after
// persisting one fetched meeting, including what it already knew about
// the meeting's prior processing state.
type UpsertResult struct {
	MeetingID string
	Prior     PriorProcessingState
}

// Repo is the narrow persistence seam the Fetcher depends on. The
// concrete implementation (pkg/repo) performs the meeting/item/matter
// upserts and appearance linking described in spec.md §4.2 atomically.
type Repo interface {
	// UpsertMeeting persists a validated meeting (and its items/matters,
	// if present) under banana, returning the canonical meeting id and
	// what was already known about its processing history.
	UpsertMeeting(ctx context.Context, banana string, meeting models.Meeting) (UpsertResult, error)

	// EnqueueJob enqueues (or resurrects, per spec.md §4.4) a processing
	// job for meetingID at the given priority.
	EnqueueJob(ctx context.Context, meetingID string, sourceURL string, priority int) error
}
