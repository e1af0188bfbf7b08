package repo

import (
	"context"
	"fmt"
	"sort"

	"github.com/civicsync/ingest/ent"
	"github.com/civicsync/ingest/ent/agendaitem"
	"github.com/civicsync/ingest/ent/meeting"
	"github.com/civicsync/ingest/pkg/apperrors"
)

// MeetingView is the slice of Meeting state the Processor needs to pick
// a path and to fall back to the monolithic packet (spec.md §4.5).
type MeetingView struct {
	ID        string
	PacketURL string
	ItemCount int
}

// ItemView is the slice of AgendaItem state the Processor needs to
// decide matter-cache-hit vs. fresh extraction (spec.md §4.5 steps 1-3).
type ItemView struct {
	ID             string
	Title          string
	AttachmentURLs []string
	AttachmentHash string
	MatterID       string
	HasSummary     bool
}

// MeetingForProcessing loads the view the Processor needs to dispatch on
// job_type, including whether the meeting has any persisted items (zero
// items plus a packet_url routes to the monolithic path per
// Repo.EnqueueJob's own item-count check).
func (r *Repo) MeetingForProcessing(ctx context.Context, meetingID string) (MeetingView, error) {
	m, err := r.client.Meeting.Get(ctx, meetingID)
	if err != nil {
		return MeetingView{}, &apperrors.DatabaseError{Op: "get meeting for processing", Err: err}
	}
	count, err := r.client.AgendaItem.Query().Where(agendaitem.MeetingIDEQ(meetingID)).Count(ctx)
	if err != nil {
		return MeetingView{}, &apperrors.DatabaseError{Op: "count items for processing", Err: err}
	}
	view := MeetingView{ID: m.ID, ItemCount: count}
	if m.PacketURL != nil {
		view.PacketURL = *m.PacketURL
	}
	return view, nil
}

// ItemsNeedingSummary lists the meeting's items that do not yet carry a
// completed summary (spec.md §4.5 "for each item ... that lacks a
// completed summary").
func (r *Repo) ItemsNeedingSummary(ctx context.Context, meetingID string) ([]ItemView, error) {
	rows, err := r.client.AgendaItem.Query().Where(agendaitem.MeetingIDEQ(meetingID)).All(ctx)
	if err != nil {
		return nil, &apperrors.DatabaseError{Op: "list items for processing", Err: err}
	}

	var views []ItemView
	for _, row := range rows {
		if row.Summary != nil && *row.Summary != "" {
			continue
		}
		view := ItemView{ID: row.ID, Title: row.Title, HasSummary: false}
		if row.AttachmentHash != nil {
			view.AttachmentHash = *row.AttachmentHash
		}
		if row.MatterID != nil {
			view.MatterID = *row.MatterID
		}
		for _, a := range row.Attachments {
			if url, ok := a["url"].(string); ok && url != "" {
				view.AttachmentURLs = append(view.AttachmentURLs, url)
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// MatterCacheHit reports whether matterID's canonical summary can be
// reused for an item whose own attachment hash is itemAttachmentHash
// (spec.md §4.5 step 2: canonical summary exists AND stored attachment
// hash equals the item's hash).
type MatterCacheHit struct {
	Found   bool
	Summary string
	Topics  []string
}

func (r *Repo) MatterCacheHit(ctx context.Context, matterID, itemAttachmentHash string) (MatterCacheHit, error) {
	if matterID == "" {
		return MatterCacheHit{}, nil
	}
	m, err := r.client.Matter.Get(ctx, matterID)
	if err != nil {
		if ent.IsNotFound(err) {
			return MatterCacheHit{}, nil
		}
		return MatterCacheHit{}, &apperrors.DatabaseError{Op: "get matter for cache check", Err: err}
	}
	if m.CanonicalSummary == nil || *m.CanonicalSummary == "" {
		return MatterCacheHit{}, nil
	}
	if m.AttachmentHash == nil || *m.AttachmentHash != itemAttachmentHash {
		return MatterCacheHit{}, nil
	}
	return MatterCacheHit{Found: true, Summary: *m.CanonicalSummary, Topics: m.CanonicalTopics}, nil
}

// ApplyMatterCacheHit copies a Matter's canonical summary/topics onto an
// item without calling the LLM (spec.md §4.5 step 2).
func (r *Repo) ApplyMatterCacheHit(ctx context.Context, itemID, summary string, topics []string) error {
	if err := r.client.AgendaItem.UpdateOneID(itemID).
		SetSummary(summary).
		SetTopics(topics).
		SetProcessingMethod("matter_cache_hit").
		ClearErrorMessage().
		Exec(ctx); err != nil {
		return &apperrors.DatabaseError{Op: "apply matter cache hit", Err: err}
	}
	return nil
}

// MarkItemNoAttachments records that an item had no attachments to
// extract from, so the LLM was never called (spec.md §4.5 step 3).
func (r *Repo) MarkItemNoAttachments(ctx context.Context, itemID string) error {
	if err := r.client.AgendaItem.UpdateOneID(itemID).
		SetProcessingMethod("no_attachments").
		ClearErrorMessage().
		Exec(ctx); err != nil {
		return &apperrors.DatabaseError{Op: "mark item no_attachments", Err: err}
	}
	return nil
}

// SaveItemSummary writes a freshly-generated summary/topics onto an item
// and propagates the canonical copy onto its linked Matter, if any
// (spec.md §4.5 step 4: "update the Matter's canonical summary,
// canonical_topics, attachment_hash, last_seen, appearance_count").
// appearance_count itself only advances on a genuinely new appearance
// (pkg/repo/matter.go's upsertMatter); this only refreshes last_seen via
// the Matter's UpdateDefault(time.Now) on save.
func (r *Repo) SaveItemSummary(ctx context.Context, itemID, matterID, attachmentHash, summary string, topics []string) error {
	if err := r.client.AgendaItem.UpdateOneID(itemID).
		SetSummary(summary).
		SetTopics(topics).
		SetProcessingMethod("llm_item").
		ClearErrorMessage().
		Exec(ctx); err != nil {
		return &apperrors.DatabaseError{Op: "save item summary", Err: err}
	}

	if matterID == "" {
		return nil
	}
	if err := r.client.Matter.UpdateOneID(matterID).
		SetCanonicalSummary(summary).
		SetCanonicalTopics(topics).
		SetAttachmentHash(attachmentHash).
		Exec(ctx); err != nil {
		return &apperrors.DatabaseError{Op: "propagate canonical summary to matter", Err: err}
	}
	return nil
}

// MarkItemFailed records an ExtractionError/LLMError against a single
// item without touching its siblings (spec.md §4.5 "Failure semantics").
func (r *Repo) MarkItemFailed(ctx context.Context, itemID, errMsg string) error {
	if err := r.client.AgendaItem.UpdateOneID(itemID).
		SetErrorMessage(errMsg).
		Exec(ctx); err != nil {
		return &apperrors.DatabaseError{Op: "mark item failed", Err: err}
	}
	return nil
}

// FinalizeItemLevelMeeting recomputes the meeting's aggregated topics as
// the sorted set-union of its items' topics, sets
// processing_method=item_level_{N}, and marks the meeting completed
// unless every one of its items actually failed (recorded an
// error_message via MarkItemFailed), in which case it is marked failed
// instead (spec.md §4.5 steps 5 and "All items failed"). An item
// resolved via matter_cache_hit or no_attachments carries no
// error_message and counts as succeeded even without its own Summary.
func (r *Repo) FinalizeItemLevelMeeting(ctx context.Context, meetingID string, elapsedMS int) error {
	rows, err := r.client.AgendaItem.Query().Where(agendaitem.MeetingIDEQ(meetingID)).All(ctx)
	if err != nil {
		return &apperrors.DatabaseError{Op: "list items for meeting finalization", Err: err}
	}

	topicSet := make(map[string]struct{})
	anySucceeded := false
	for _, row := range rows {
		if row.ErrorMessage == nil || *row.ErrorMessage == "" {
			anySucceeded = true
			for _, t := range row.Topics {
				topicSet[t] = struct{}{}
			}
		}
	}
	topics := make([]string, 0, len(topicSet))
	for t := range topicSet {
		topics = append(topics, t)
	}
	sort.Strings(topics)

	status := meeting.ProcessingStatusCompleted
	if !anySucceeded && len(rows) > 0 {
		status = meeting.ProcessingStatusFailed
	}

	method := fmt.Sprintf("item_level_%d", len(rows))
	if err := r.client.Meeting.UpdateOneID(meetingID).
		SetTopics(topics).
		SetProcessingMethod(method).
		SetProcessingStatus(status).
		SetProcessingTimeMs(elapsedMS).
		Exec(ctx); err != nil {
		return &apperrors.DatabaseError{Op: "finalize item-level meeting", Err: err}
	}
	return nil
}

// FinalizeMonolithicMeeting stores the whole-packet summary and marks
// the meeting completed without touching any items (spec.md §4.5
// "Monolithic path").
func (r *Repo) FinalizeMonolithicMeeting(ctx context.Context, meetingID, summary string, elapsedMS int) error {
	if err := r.client.Meeting.UpdateOneID(meetingID).
		SetSummary(summary).
		SetProcessingMethod("monolithic").
		SetProcessingStatus(meeting.ProcessingStatusCompleted).
		SetProcessingTimeMs(elapsedMS).
		Exec(ctx); err != nil {
		return &apperrors.DatabaseError{Op: "finalize monolithic meeting", Err: err}
	}
	return nil
}

// MarkMeetingFailed marks a meeting failed outright — used when the
// monolithic path's own packet extraction fails, since there are no
// sibling items to fall back on.
func (r *Repo) MarkMeetingFailed(ctx context.Context, meetingID string) error {
	if err := r.client.Meeting.UpdateOneID(meetingID).
		SetProcessingStatus(meeting.ProcessingStatusFailed).
		Exec(ctx); err != nil {
		return &apperrors.DatabaseError{Op: "mark meeting failed", Err: err}
	}
	return nil
}

// MarkMeetingProcessing flips a meeting to processing at the start of a
// job run, so API reads mid-pass see an honest in-progress state.
func (r *Repo) MarkMeetingProcessing(ctx context.Context, meetingID string) error {
	if err := r.client.Meeting.UpdateOneID(meetingID).
		SetProcessingStatus(meeting.ProcessingStatusProcessing).
		Exec(ctx); err != nil {
		return &apperrors.DatabaseError{Op: "mark meeting processing", Err: err}
	}
	return nil
}
