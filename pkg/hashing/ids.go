// Package hashing derives the canonical ids and fingerprints described in
// the data model: every canonical id includes the city banana in its hash
// preimage so vendor-local identifiers, which are not globally unique, can
// never collide across cities.
package hashing

import (
	"crypto/md5" //nolint:gosec // used only for a stable short digest, not for security
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeTitle lowercases, trims, and collapses a title to a stable
// comparison key (used as the last-resort Matter preference key, and as
// an input to the vendor-id fallback digest).
func NormalizeTitle(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	t = nonAlnum.ReplaceAllString(t, "_")
	return strings.Trim(t, "_")
}

// MeetingID derives the canonical meeting id: banana + '_' + md5(vendor_id)[0:8].
func MeetingID(banana, vendorID string) string {
	sum := md5.Sum([]byte(vendorID)) //nolint:gosec
	return fmt.Sprintf("%s_%s", banana, hex.EncodeToString(sum[:])[:8])
}

// ShortHash returns an 8-hex-char digest of the input, used for
// AgendaItem and Committee ids.
func ShortHash(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])[:8]
}

// AgendaItemID derives the canonical item id: meeting_id + '_' + short_hash(sequence+title).
func AgendaItemID(meetingID string, sequence int, title string) string {
	preimage := fmt.Sprintf("%d%s", sequence, title)
	return fmt.Sprintf("%s_%s", meetingID, ShortHash(preimage))
}

// CommitteeID derives the canonical committee id: banana + '_comm_' + short_hash(normalized_name).
func CommitteeID(banana, normalizedName string) string {
	return fmt.Sprintf("%s_comm_%s", banana, ShortHash(normalizedName))
}

// AppearanceID derives a deterministic MatterAppearance id from its
// unique (matter, meeting, item) triple, so upserting an appearance is a
// get-or-create on a known id rather than a separate uniqueness query.
func AppearanceID(matterID, meetingID, itemID string) string {
	return fmt.Sprintf("%s_%s", matterID, ShortHash(meetingID+"_"+itemID))
}

// CouncilMemberID derives id = hash(banana + normalized_name).
func CouncilMemberID(banana, normalizedName string) string {
	return ShortHash(banana + normalizedName)
}

// VoteID derives a deterministic Vote id from its unique (member, matter,
// meeting) triple, mirroring AppearanceID's get-or-create-by-id shape.
func VoteID(memberID, matterID, meetingID string) string {
	return fmt.Sprintf("%s_%s", memberID, ShortHash(matterID+"_"+meetingID))
}

// CommitteeMembershipID derives a deterministic membership id from its
// (committee, member, joined_at) triple so re-observing the same
// membership on a later sync is a get-or-create, not a duplicate insert.
func CommitteeMembershipID(committeeID, memberID string, joinedAt time.Time) string {
	return fmt.Sprintf("%s_%s_%s", committeeID, memberID, ShortHash(joinedAt.Format(time.RFC3339)))
}

// MatterID derives a Matter id from the banana and its preferred key.
// Callers resolve the preferred key themselves via MatterPreferredKey.
func MatterID(banana, preferredKey string) string {
	return fmt.Sprintf("%s_matter_%s", banana, ShortHash(preferredKey))
}

// MatterPreferredKey resolves the matter-key preference order documented
// in the spec's Open Questions: matter_file -> vendor matter_id ->
// normalized title. Reimplementers should treat the fallback to
// normalized title as a known limitation: if a vendor alternates which
// field is populated across a matter's appearances, this can produce
// distinct Matter rows for what is logically one matter.
func MatterPreferredKey(matterFile, vendorMatterID, title string) string {
	if matterFile != "" {
		return "file:" + matterFile
	}
	if vendorMatterID != "" {
		return "vid:" + vendorMatterID
	}
	return "title:" + NormalizeTitle(title)
}

// VendorIDFallback derives a stable per-vendor identifier when the vendor
// has no native id: a 12-hex truncation of sha256(normalize(title)+date+url_path).
func VendorIDFallback(title, isoDate, urlPath string) string {
	preimage := NormalizeTitle(title) + isoDate + urlPath
	sum := sha256.Sum256([]byte(preimage))
	return hex.EncodeToString(sum[:])[:12]
}

// AttachmentHash computes the stable fingerprint of an item's attachment
// URL set. It is stable under input URL reordering: URLs are sorted
// before hashing.
func AttachmentHash(urls []string) string {
	sorted := make([]string, len(urls))
	copy(sorted, urls)
	sort.Strings(sorted)
	joined := strings.Join(sorted, "\n")
	sum := sha256.Sum256([]byte(joined))
	return hex.EncodeToString(sum[:])
}
