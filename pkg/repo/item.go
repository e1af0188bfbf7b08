package repo

import (
	"context"

	"github.com/civicsync/ingest/ent"
	"github.com/civicsync/ingest/pkg/adapter"
	"github.com/civicsync/ingest/pkg/apperrors"
	"github.com/civicsync/ingest/pkg/hashing"
	"github.com/civicsync/ingest/pkg/models"
)

// upsertItemAndMatter persists a single agenda item and, if it carries a
// matter reference, upserts the linked Matter and records a
// MatterAppearance. It returns whether the item's attachment fingerprint
// changed since the last sync and whether the item still lacks a
// summary — both feed the Fetcher's EnqueueDecider (spec.md §4.2).
//
// Procedural items (call to order, roll call, adjournment, ...) are
// dropped here per spec.md §4.3's "applied during adapter normalization"
// checkpoint; they are never persisted as AgendaItem rows.
func (r *Repo) upsertItemAndMatter(ctx context.Context, banana, meetingID string, item models.AgendaItem) (changed bool, missingSummary bool, err error) {
	if adapter.IsProcedural(item.Title) {
		return false, false, nil
	}

	itemID := hashing.AgendaItemID(meetingID, item.Sequence, item.Title)
	attachmentHash := hashing.AttachmentHash(attachmentURLs(item.Attachments))

	existing, err := r.client.AgendaItem.Get(ctx, itemID)
	if err != nil && !ent.IsNotFound(err) {
		return false, false, &apperrors.DatabaseError{Op: "get agenda item", Err: err}
	}

	if existing != nil {
		changed = existing.AttachmentHash == nil || *existing.AttachmentHash != attachmentHash
		missingSummary = existing.Summary == nil || *existing.Summary == ""
	} else {
		changed = true
		missingSummary = true
	}

	var matterID string
	if item.MatterFile != "" || item.MatterID != "" || item.Title != "" {
		matterID, err = r.upsertMatter(ctx, banana, meetingID, itemID, item)
		if err != nil {
			return changed, missingSummary, err
		}
		if err := r.upsertVotesAndSponsors(ctx, banana, meetingID, matterID, item); err != nil {
			return changed, missingSummary, err
		}
	}

	attachmentsJSON := attachmentsToJSON(item.Attachments)

	if existing == nil {
		create := r.client.AgendaItem.Create().
			SetID(itemID).
			SetMeetingID(meetingID).
			SetTitle(item.Title).
			SetSequence(item.Sequence).
			SetAttachments(attachmentsJSON).
			SetAttachmentHash(attachmentHash)
		if matterID != "" {
			create = create.SetMatterID(matterID)
		}
		if item.MatterFile != "" {
			create = create.SetMatterFile(item.MatterFile)
		}
		if item.MatterType != "" {
			create = create.SetMatterType(item.MatterType)
		}
		if item.AgendaNumber != "" {
			create = create.SetAgendaNumber(item.AgendaNumber)
		}
		if len(item.Sponsors) > 0 {
			create = create.SetSponsors(item.Sponsors)
		}
		if _, err := create.Save(ctx); err != nil {
			return changed, missingSummary, &apperrors.DatabaseError{Op: "create agenda item", Err: err}
		}
		return changed, missingSummary, nil
	}

	update := existing.Update().
		SetTitle(item.Title).
		SetSequence(item.Sequence).
		SetAttachments(attachmentsJSON).
		SetAttachmentHash(attachmentHash)
	if matterID != "" {
		update = update.SetMatterID(matterID)
	}
	if len(item.Sponsors) > 0 {
		update = update.SetSponsors(item.Sponsors)
	}
	if _, err := update.Save(ctx); err != nil {
		return changed, missingSummary, &apperrors.DatabaseError{Op: "update agenda item", Err: err}
	}
	return changed, missingSummary, nil
}

func attachmentURLs(attachments []models.Attachment) []string {
	urls := make([]string, 0, len(attachments))
	for _, a := range attachments {
		urls = append(urls, a.URL)
	}
	return urls
}

func attachmentsToJSON(attachments []models.Attachment) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(attachments))
	for _, a := range attachments {
		entry := map[string]interface{}{"name": a.Name, "url": a.URL, "type": a.Type}
		if a.HistoryID != "" {
			entry["history_id"] = a.HistoryID
		}
		out = append(out, entry)
	}
	return out
}

