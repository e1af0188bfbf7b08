package repo

import (
	"context"
	"fmt"

	"github.com/civicsync/ingest/ent"
	"github.com/civicsync/ingest/ent/agendaitem"
	"github.com/civicsync/ingest/ent/meeting"
	"github.com/civicsync/ingest/pkg/apperrors"
	"github.com/civicsync/ingest/pkg/fetcher"
	"github.com/civicsync/ingest/pkg/hashing"
	"github.com/civicsync/ingest/pkg/models"
	"github.com/civicsync/ingest/pkg/queue"
)

// UpsertMeeting implements fetcher.Repo. It persists the meeting, its
// items, and any linked matters/appearances in one pass (spec.md §4.2
// step 3: "upsert meeting and (if present) items and matters; link
// matter appearances"), and reports the prior-processing state the
// Fetcher needs for its EnqueueDecider check.
func (r *Repo) UpsertMeeting(ctx context.Context, banana string, m models.Meeting) (fetcher.UpsertResult, error) {
	meetingID := hashing.MeetingID(banana, m.VendorID)

	existing, err := r.client.Meeting.Get(ctx, meetingID)
	if err != nil && !ent.IsNotFound(err) {
		return fetcher.UpsertResult{}, &apperrors.DatabaseError{Op: "get meeting", Err: err}
	}

	var prior fetcher.PriorProcessingState
	if existing != nil {
		prior.HasCompletedJob = existing.ProcessingStatus == meeting.ProcessingStatusCompleted
	}

	if existing == nil {
		create := r.client.Meeting.Create().
			SetID(meetingID).
			SetBanana(banana).
			SetVendorID(m.VendorID).
			SetTitle(m.Title)
		applyMeetingOptionalFields(create, m)
		if _, err := create.Save(ctx); err != nil {
			return fetcher.UpsertResult{}, &apperrors.DatabaseError{Op: "create meeting", Err: err}
		}
	} else {
		update := existing.Update().SetTitle(m.Title)
		applyMeetingOptionalFieldsUpdate(update, m)
		if _, err := update.Save(ctx); err != nil {
			return fetcher.UpsertResult{}, &apperrors.DatabaseError{Op: "update meeting", Err: err}
		}
	}

	for _, item := range m.Items {
		changed, missingSummary, err := r.upsertItemAndMatter(ctx, banana, meetingID, item)
		if err != nil {
			return fetcher.UpsertResult{}, err
		}
		if changed {
			prior.AttachmentFingerprintChanged = true
		}
		if missingSummary {
			prior.AnyItemMissingSummary = true
		}
	}

	return fetcher.UpsertResult{MeetingID: meetingID, Prior: prior}, nil
}

// EnqueueJob implements fetcher.Repo by delegating to the queue
// package's idempotent-by-source_url Enqueue.
func (r *Repo) EnqueueJob(ctx context.Context, meetingID, sourceURL string, priority int) error {
	jobType := "item_level"
	itemCount, err := r.client.AgendaItem.Query().Where(agendaitem.MeetingIDEQ(meetingID)).Count(ctx)
	if err != nil {
		return fmt.Errorf("count items for meeting %s: %w", meetingID, err)
	}
	if itemCount == 0 {
		if m, err := r.client.Meeting.Get(ctx, meetingID); err == nil && m.PacketURL != nil && *m.PacketURL != "" {
			jobType = "monolithic"
		}
	}

	payload := map[string]interface{}{"meeting_id": meetingID}
	if _, err := queue.Enqueue(ctx, r.client, sourceURL, meetingID, "", jobType, payload, priority); err != nil {
		return fmt.Errorf("enqueue meeting %s: %w", meetingID, err)
	}
	return nil
}

func applyMeetingOptionalFields(create *ent.MeetingCreate, m models.Meeting) *ent.MeetingCreate {
	if m.HasStart {
		create = create.SetMeetingDate(m.Start)
	}
	if m.AgendaURL != "" {
		create = create.SetAgendaURL(m.AgendaURL)
	}
	if m.PacketURL != "" {
		create = create.SetPacketURL(m.PacketURL)
	}
	if m.VendorBodyID != "" {
		create = create.SetCommitteeID(m.VendorBodyID)
	}
	if status, ok := parseMeetingStatus(m.MeetingStatus); ok {
		create = create.SetMeetingStatus(status)
	}
	if m.Participation != nil {
		create = create.SetParticipation(participationToMap(m.Participation))
	}
	if m.Metadata != nil {
		create = create.SetMetadata(m.Metadata)
	}
	return create
}

func applyMeetingOptionalFieldsUpdate(update *ent.MeetingUpdateOne, m models.Meeting) *ent.MeetingUpdateOne {
	if m.HasStart {
		update = update.SetMeetingDate(m.Start)
	}
	if m.AgendaURL != "" {
		update = update.SetAgendaURL(m.AgendaURL)
	}
	if m.PacketURL != "" {
		update = update.SetPacketURL(m.PacketURL)
	}
	if status, ok := parseMeetingStatus(m.MeetingStatus); ok {
		update = update.SetMeetingStatus(status)
	}
	if m.Participation != nil {
		update = update.SetParticipation(participationToMap(m.Participation))
	}
	if m.Metadata != nil {
		update = update.SetMetadata(m.Metadata)
	}
	return update
}

func parseMeetingStatus(s string) (meeting.MeetingStatus, bool) {
	switch meeting.MeetingStatus(s) {
	case meeting.MeetingStatusCancelled, meeting.MeetingStatusPostponed, meeting.MeetingStatusDeferred,
		meeting.MeetingStatusRevised, meeting.MeetingStatusRescheduled:
		return meeting.MeetingStatus(s), true
	default:
		return "", false
	}
}

func participationToMap(p *models.Participation) map[string]interface{} {
	out := map[string]interface{}{
		"is_hybrid":       p.IsHybrid,
		"is_virtual_only": p.IsVirtualOnly,
	}
	if p.Email != "" {
		out["email"] = p.Email
	}
	if p.Phone != "" {
		out["phone"] = p.Phone
	}
	if p.VirtualURL != "" {
		out["virtual_url"] = p.VirtualURL
	}
	if p.MeetingID != "" {
		out["meeting_id"] = p.MeetingID
	}
	return out
}
