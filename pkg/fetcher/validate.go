package fetcher

import (
	"github.com/civicsync/ingest/pkg/apperrors"
	"github.com/civicsync/ingest/pkg/models"
)

// validateMeeting checks the minimum schema a meeting must satisfy to be
// persisted: vendor_id, title, and at least one of agenda_url/packet_url
// (spec.md §4.2). A failure here drops only this meeting; siblings in
// the same fetch are unaffected.
//
// A missing or unparseable start (HasStart false) is NOT a validation
// failure: spec.md's boundary cases require such a meeting to still be
// stored, just never enqueued, since EnqueueDecider's date-eligibility
// window check fails closed on the zero-value start time.
func validateMeeting(m models.Meeting) error {
	if m.VendorID == "" {
		return &apperrors.ValidationError{Field: "vendor_id", Reason: "empty"}
	}
	if m.Title == "" {
		return &apperrors.ValidationError{Field: "title", Reason: "empty"}
	}
	if m.AgendaURL == "" && m.PacketURL == "" {
		return &apperrors.ValidationError{Field: "agenda_url/packet_url", Reason: "neither present"}
	}
	return nil
}

// hasPacketOrItems reports whether the meeting carries enough content to
// be worth enqueuing: a packet to extract, or already-parsed items.
func hasPacketOrItems(m models.Meeting) bool {
	return m.PacketURL != "" || len(m.Items) > 0
}

// sourceURL is the canonical idempotency key for a meeting's queue job
// (spec.md §3's QueueJob.source_url unique constraint), preferring the
// packet over the agenda since the packet is what the Processor reads.
func sourceURL(m models.Meeting) string {
	if m.PacketURL != "" {
		return m.PacketURL
	}
	return m.AgendaURL
}
