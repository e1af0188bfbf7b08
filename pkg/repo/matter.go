package repo

import (
	"context"

	"github.com/civicsync/ingest/ent"
	"github.com/civicsync/ingest/pkg/apperrors"
	"github.com/civicsync/ingest/pkg/hashing"
	"github.com/civicsync/ingest/pkg/models"
)

// upsertMatter implements the insert-then-merge Matter upsert (spec.md §5
// "Locking discipline"): denormalized fields (title, sponsors, attachment
// snapshot) are always refreshed, but canonical_summary/canonical_topics/
// attachment_hash are left untouched here — those are Processor-owned
// (spec.md §4.5 step 4). appearance_count and last_seen only advance when
// this (matter, meeting, item) triple has not been recorded before, so
// reprocessing an unchanged meeting does not inflate the count.
func (r *Repo) upsertMatter(ctx context.Context, banana, meetingID, itemID string, item models.AgendaItem) (string, error) {
	preferredKey := hashing.MatterPreferredKey(item.MatterFile, item.MatterID, item.Title)
	matterID := hashing.MatterID(banana, preferredKey)
	appearanceID := hashing.AppearanceID(matterID, meetingID, itemID)

	isNewAppearance := false
	if _, err := r.client.MatterAppearance.Get(ctx, appearanceID); err != nil {
		if !ent.IsNotFound(err) {
			return "", &apperrors.DatabaseError{Op: "get matter appearance", Err: err}
		}
		isNewAppearance = true
	}

	existing, err := r.client.Matter.Get(ctx, matterID)
	if err != nil && !ent.IsNotFound(err) {
		return "", &apperrors.DatabaseError{Op: "get matter", Err: err}
	}

	attachmentsJSON := attachmentsToJSON(item.Attachments)

	if existing == nil {
		create := r.client.Matter.Create().
			SetID(matterID).
			SetBanana(banana).
			SetTitle(item.Title).
			SetAttachments(attachmentsJSON)
		if item.MatterFile != "" {
			create = create.SetMatterFile(item.MatterFile)
		}
		if item.MatterType != "" {
			create = create.SetMatterType(item.MatterType)
		}
		if len(item.Sponsors) > 0 {
			create = create.SetSponsors(item.Sponsors)
		}
		if isNewAppearance {
			create = create.SetAppearanceCount(1)
		}
		if _, err := create.Save(ctx); err != nil {
			return "", &apperrors.DatabaseError{Op: "create matter", Err: err}
		}
	} else {
		update := existing.Update().
			SetTitle(item.Title).
			SetAttachments(attachmentsJSON)
		if len(item.Sponsors) > 0 {
			update = update.SetSponsors(item.Sponsors)
		}
		if isNewAppearance {
			update = update.SetAppearanceCount(existing.AppearanceCount + 1)
		}
		if _, err := update.Save(ctx); err != nil {
			return "", &apperrors.DatabaseError{Op: "update matter", Err: err}
		}
	}

	if isNewAppearance {
		create := r.client.MatterAppearance.Create().
			SetID(appearanceID).
			SetMatterID(matterID).
			SetMeetingID(meetingID).
			SetSequence(item.Sequence)
		if itemID != "" {
			create = create.SetItemID(itemID)
		}
		if _, err := create.Save(ctx); err != nil {
			return "", &apperrors.DatabaseError{Op: "create matter appearance", Err: err}
		}
	}

	return matterID, nil
}
