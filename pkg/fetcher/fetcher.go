package fetcher

import (
	"context"
	"log/slog"
	"time"

	"github.com/civicsync/ingest/pkg/adapter"
	"github.com/civicsync/ingest/pkg/apperrors"
	"github.com/civicsync/ingest/pkg/metrics"
	"github.com/civicsync/ingest/pkg/ratelimit"
)

// Fetcher drives one city's sync pass: apply the vendor politeness
// delay, invoke the adapter, validate and persist what comes back, and
// decide what to enqueue.
type Fetcher struct {
	adapters *adapter.Registry
	limiter  *ratelimit.VendorLimiter
	repo     Repo
	sink     metrics.Sink

	historicalCutoff time.Duration
	futureCutoff     time.Duration
}

// New builds a Fetcher. sink may be metrics.NoOp{}.
func New(adapters *adapter.Registry, limiter *ratelimit.VendorLimiter, repo Repo, sink metrics.Sink, historicalCutoff, futureCutoff time.Duration) *Fetcher {
	return &Fetcher{
		adapters:         adapters,
		limiter:          limiter,
		repo:             repo,
		sink:             sink,
		historicalCutoff: historicalCutoff,
		futureCutoff:     futureCutoff,
	}
}

// SyncCity runs one full sync pass for city: rate-limit delay, adapter
// fetch, per-meeting validate/upsert/enqueue, and a final metrics
// emission. On adapter failure it returns a *apperrors.VendorError; the
// caller (the scheduler) is responsible for the per-city retry policy.
func (f *Fetcher) SyncCity(ctx context.Context, city City) error {
	start := time.Now()
	log := slog.With("city", city.ID, "vendor", city.VendorTag)

	a, err := f.adapters.Get(city.VendorTag)
	if err != nil {
		f.sink.RecordSync(string(city.VendorTag), city.ID, false, time.Since(start))
		return &apperrors.VendorError{Vendor: string(city.VendorTag), Banana: city.Banana, Err: err}
	}

	if err := f.limiter.Wait(ctx, string(city.VendorTag)); err != nil {
		f.sink.RecordSync(string(city.VendorTag), city.ID, false, time.Since(start))
		return &apperrors.VendorError{Vendor: string(city.VendorTag), Banana: city.Banana, Err: err}
	}

	result, err := a.Fetch(ctx, city.VendorSiteID)
	if err != nil {
		f.sink.RecordSync(string(city.VendorTag), city.ID, false, time.Since(start))
		return &apperrors.VendorError{Vendor: string(city.VendorTag), Banana: city.Banana, Err: err}
	}
	if !result.Success {
		f.sink.RecordSync(string(city.VendorTag), city.ID, false, time.Since(start))
		return &apperrors.VendorError{Vendor: string(city.VendorTag), Banana: city.Banana, Err: vendorFailure(result.Error, result.ErrorType)}
	}

	now := time.Now()
	for _, meeting := range result.Meetings {
		if err := validateMeeting(meeting); err != nil {
			log.Warn("dropping meeting failing minimum schema", "error", err)
			continue
		}

		upserted, err := f.repo.UpsertMeeting(ctx, city.Banana, meeting)
		if err != nil {
			log.Error("failed to upsert meeting", "vendor_id", meeting.VendorID, "error", err)
			continue
		}

		eligible := EnqueueDecider(
			hasPacketOrItems(meeting),
			meeting.Start,
			now,
			f.historicalCutoff,
			f.futureCutoff,
			upserted.Prior,
		)
		if !eligible {
			continue
		}

		priority := Priority(meeting.Start, now)
		if err := f.repo.EnqueueJob(ctx, upserted.MeetingID, sourceURL(meeting), priority); err != nil {
			log.Error("failed to enqueue meeting", "meeting_id", upserted.MeetingID, "error", err)
		}
	}

	f.sink.RecordSync(string(city.VendorTag), city.ID, true, time.Since(start))
	return nil
}

func vendorFailure(msg, kind string) error {
	if msg == "" {
		msg = "adapter reported failure"
	}
	if kind != "" {
		return &adapterFailure{msg: msg, kind: kind}
	}
	return &adapterFailure{msg: msg}
}

// adapterFailure wraps the free-form error/error_type an adapter
// reports in its FetchResult when Success is false.
type adapterFailure struct {
	msg  string
	kind string
}

func (e *adapterFailure) Error() string {
	if e.kind != "" {
		return e.kind + ": " + e.msg
	}
	return e.msg
}
