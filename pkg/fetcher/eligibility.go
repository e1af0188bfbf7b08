package fetcher

import "time"

// PriorProcessingState summarizes what the repositories already know
// about a meeting, supplied by the caller so EnqueueDecider stays a pure
// function of its inputs.
type PriorProcessingState struct {
	// HasCompletedJob is true if a queue job for this meeting previously
	// reached status=completed.
	HasCompletedJob bool

	// AnyItemMissingSummary is true if at least one of the meeting's
	// items has no stored summary.
	AnyItemMissingSummary bool

	// AttachmentFingerprintChanged is true if any item's current
	// attachment hash differs from what was stored at last processing.
	AttachmentFingerprintChanged bool
}

// EnqueueDecider decides whether a fetched meeting should be enqueued for
// processing (spec.md §4.2's "Eligibility to enqueue"). A meeting is
// enqueued iff it carries a packet or items, falls inside the
// [now-historicalCutoff, now+futureCutoff] window, and either has never
// completed processing, has an item missing a summary, or its attachment
// fingerprint changed since last processing.
func EnqueueDecider(
	hasPacketOrItems bool,
	start time.Time,
	now time.Time,
	historicalCutoff time.Duration,
	futureCutoff time.Duration,
	prior PriorProcessingState,
) bool {
	if !hasPacketOrItems {
		return false
	}

	earliest := now.Add(-historicalCutoff)
	latest := now.Add(futureCutoff)
	if start.Before(earliest) || start.After(latest) {
		return false
	}

	if !prior.HasCompletedJob {
		return true
	}
	return prior.AnyItemMissingSummary || prior.AttachmentFingerprintChanged
}
