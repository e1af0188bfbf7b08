package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/civicsync/ingest/pkg/models"
)

func TestAttachmentsToJSON_CarriesOptionalHistoryID(t *testing.T) {
	out := attachmentsToJSON([]models.Attachment{
		{Name: "Staff Report", URL: "https://x/a.pdf", Type: "pdf"},
		{Name: "Staff Report v2", URL: "https://x/b.pdf", Type: "pdf", HistoryID: "42"},
	})

	assert.Len(t, out, 2)
	assert.NotContains(t, out[0], "history_id")
	assert.Equal(t, "42", out[1]["history_id"])
}

func TestAttachmentURLs_ExtractsURLsInOrder(t *testing.T) {
	urls := attachmentURLs([]models.Attachment{{URL: "b"}, {URL: "a"}})
	assert.Equal(t, []string{"b", "a"}, urls)
}

func TestParticipationToMap_OmitsEmptyFields(t *testing.T) {
	out := participationToMap(&models.Participation{IsHybrid: true, Email: "clerk@city.gov"})

	assert.Equal(t, true, out["is_hybrid"])
	assert.Equal(t, "clerk@city.gov", out["email"])
	assert.NotContains(t, out, "phone")
	assert.NotContains(t, out, "virtual_url")
}

func TestParseMeetingStatus_RejectsUnknownValue(t *testing.T) {
	_, ok := parseMeetingStatus("not_a_real_status")
	assert.False(t, ok)
}

func TestParseMeetingStatus_AcceptsKnownValue(t *testing.T) {
	status, ok := parseMeetingStatus("cancelled")
	assert.True(t, ok)
	assert.Equal(t, "cancelled", string(status))
}

func TestParseVoteValue_AcceptsKnownValues(t *testing.T) {
	for _, v := range []string{"yes", "no", "abstain", "absent", "present", "recused", "not_voting"} {
		assert.Equal(t, v, parseVoteValue(v))
	}
}

func TestParseVoteValue_UnknownFallsBackToNotVoting(t *testing.T) {
	assert.Equal(t, "not_voting", parseVoteValue("maybe"))
}
