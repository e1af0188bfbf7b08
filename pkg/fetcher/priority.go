// Package fetcher drives the per-city sync algorithm: apply the vendor
// rate-limit delay, invoke the adapter, validate and persist what comes
// back, and decide what to enqueue.
package fetcher

import (
	"math"
	"time"
)

// pastMeetingPriority is the small positive priority given to a meeting
// whose start has already passed but which still falls inside the
// historical cutoff window (spec.md §4.2).
const pastMeetingPriority = 1

// Priority computes a queue row's priority from a meeting's start time:
// max(0, 100 - days_until_meeting) for future meetings; past meetings
// within the eligibility window retain a small positive priority rather
// than growing without bound as they recede further into the past.
func Priority(start, now time.Time) int {
	if !start.After(now) {
		return pastMeetingPriority
	}
	daysUntil := int(math.Ceil(start.Sub(now).Hours() / 24))
	p := 100 - daysUntil
	if p < 0 {
		return 0
	}
	return p
}
