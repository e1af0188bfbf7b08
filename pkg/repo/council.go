package repo

import (
	"context"
	"time"

	"github.com/civicsync/ingest/ent"
	"github.com/civicsync/ingest/pkg/apperrors"
	"github.com/civicsync/ingest/pkg/hashing"
	"github.com/civicsync/ingest/pkg/models"
)

// upsertVotesAndSponsors resolves every sponsor and vote-caster on an
// item to a CouncilMember row (creating it on first sighting), bumps
// their denormalized sponsorship_count/vote_count, and records each
// VoteRecord as a persisted Vote keyed by the (member, matter, meeting)
// triple (spec.md §3 "CouncilMember"/"Vote"). A no-op when the item
// carries no matter (votes/sponsorships are always attributed to a
// Matter, never a bare item).
func (r *Repo) upsertVotesAndSponsors(ctx context.Context, banana, meetingID, matterID string, item models.AgendaItem) error {
	if matterID == "" {
		return nil
	}

	for _, sponsor := range item.Sponsors {
		if _, err := r.touchCouncilMember(ctx, banana, sponsor, true, false); err != nil {
			return err
		}
	}

	for _, vr := range item.Votes {
		memberID, err := r.touchCouncilMember(ctx, banana, vr.MemberName, false, true)
		if err != nil {
			return err
		}
		if err := r.recordVote(ctx, memberID, matterID, meetingID, vr.Value); err != nil {
			return err
		}
	}

	return nil
}

// touchCouncilMember gets-or-creates a CouncilMember by normalized name
// and conditionally bumps its sponsorship/vote counters, returning its
// id.
func (r *Repo) touchCouncilMember(ctx context.Context, banana, displayName string, isSponsor, isVoter bool) (string, error) {
	if displayName == "" {
		return "", nil
	}
	normalized := hashing.NormalizeTitle(displayName)
	memberID := hashing.CouncilMemberID(banana, normalized)

	existing, err := r.client.CouncilMember.Get(ctx, memberID)
	if err != nil && !ent.IsNotFound(err) {
		return "", &apperrors.DatabaseError{Op: "get council member", Err: err}
	}

	if existing == nil {
		create := r.client.CouncilMember.Create().
			SetID(memberID).
			SetBanana(banana).
			SetDisplayName(displayName).
			SetNormalizedName(normalized)
		if isSponsor {
			create = create.SetSponsorshipCount(1)
		}
		if isVoter {
			create = create.SetVoteCount(1)
		}
		if _, err := create.Save(ctx); err != nil {
			return "", &apperrors.DatabaseError{Op: "create council member", Err: err}
		}
		return memberID, nil
	}

	update := existing.Update()
	if isSponsor {
		update = update.SetSponsorshipCount(existing.SponsorshipCount + 1)
	}
	if isVoter {
		update = update.SetVoteCount(existing.VoteCount + 1)
	}
	if _, err := update.Save(ctx); err != nil {
		return "", &apperrors.DatabaseError{Op: "update council member", Err: err}
	}
	return memberID, nil
}

// recordVote creates the Vote row for a (member, matter, meeting) triple
// if it has not already been recorded; re-observing the same triple on a
// later sync is a no-op rather than a duplicate insert.
func (r *Repo) recordVote(ctx context.Context, memberID, matterID, meetingID, value string) error {
	if memberID == "" {
		return nil
	}
	voteID := hashing.VoteID(memberID, matterID, meetingID)
	if _, err := r.client.Vote.Get(ctx, voteID); err == nil {
		return nil
	} else if !ent.IsNotFound(err) {
		return &apperrors.DatabaseError{Op: "get vote", Err: err}
	}

	if _, err := r.client.Vote.Create().
		SetID(voteID).
		SetMemberID(memberID).
		SetMatterID(matterID).
		SetMeetingID(meetingID).
		SetValue(parseVoteValue(value)).
		Save(ctx); err != nil {
		return &apperrors.DatabaseError{Op: "create vote", Err: err}
	}
	return nil
}

func parseVoteValue(v string) string {
	switch v {
	case "yes", "no", "abstain", "absent", "present", "recused", "not_voting":
		return v
	default:
		return "not_voting"
	}
}

// UpsertCommittee gets-or-creates a Committee by its normalized name,
// returning its id.
func (r *Repo) UpsertCommittee(ctx context.Context, banana, name string) (string, error) {
	normalized := hashing.NormalizeTitle(name)
	committeeID := hashing.CommitteeID(banana, normalized)

	if _, err := r.client.Committee.Get(ctx, committeeID); err == nil {
		return committeeID, nil
	} else if !ent.IsNotFound(err) {
		return "", &apperrors.DatabaseError{Op: "get committee", Err: err}
	}

	if _, err := r.client.Committee.Create().
		SetID(committeeID).
		SetBanana(banana).
		SetName(name).
		SetNormalizedName(normalized).
		Save(ctx); err != nil {
		return "", &apperrors.DatabaseError{Op: "create committee", Err: err}
	}
	return committeeID, nil
}

// AddCommitteeMembership records a member joining a committee, or is a
// no-op if that exact (committee, member, joined_at) membership already
// exists.
func (r *Repo) AddCommitteeMembership(ctx context.Context, committeeID, memberID string, joinedAt time.Time) error {
	membershipID := hashing.CommitteeMembershipID(committeeID, memberID, joinedAt)
	if _, err := r.client.CommitteeMembership.Get(ctx, membershipID); err == nil {
		return nil
	} else if !ent.IsNotFound(err) {
		return &apperrors.DatabaseError{Op: "get committee membership", Err: err}
	}

	if _, err := r.client.CommitteeMembership.Create().
		SetID(membershipID).
		SetCommitteeID(committeeID).
		SetMemberID(memberID).
		SetJoinedAt(joinedAt).
		Save(ctx); err != nil {
		return &apperrors.DatabaseError{Op: "create committee membership", Err: err}
	}
	return nil
}

// EndCommitteeMembership sets left_at on an active membership, marking
// it no longer current.
func (r *Repo) EndCommitteeMembership(ctx context.Context, membershipID string, leftAt time.Time) error {
	if err := r.client.CommitteeMembership.UpdateOneID(membershipID).
		SetLeftAt(leftAt).
		Exec(ctx); err != nil {
		return &apperrors.DatabaseError{Op: "end committee membership", Err: err}
	}
	return nil
}
