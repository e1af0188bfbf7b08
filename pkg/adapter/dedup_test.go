package adapter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/civicsync/ingest/pkg/adapter"
	"github.com/civicsync/ingest/pkg/models"
)

func TestDeduplicateAttachmentVersions_KeepsHighestLegVer(t *testing.T) {
	in := []models.Attachment{
		{Name: "Staff Report Leg Ver 1.pdf", URL: "v1"},
		{Name: "Staff Report Leg Ver 3.pdf", URL: "v3"},
		{Name: "Staff Report Leg Ver 2.pdf", URL: "v2"},
	}

	out := adapter.DeduplicateAttachmentVersions(in)

	assert.Len(t, out, 1)
	assert.Equal(t, "v3", out[0].URL)
}

func TestDeduplicateAttachmentVersions_PassesThroughUnversioned(t *testing.T) {
	in := []models.Attachment{
		{Name: "Staff Report.pdf", URL: "a"},
		{Name: "Presentation.pdf", URL: "b"},
	}

	out := adapter.DeduplicateAttachmentVersions(in)

	assert.Len(t, out, 2)
}

func TestDeduplicateAttachmentVersions_PreservesFirstSeenOrder(t *testing.T) {
	in := []models.Attachment{
		{Name: "B.pdf", URL: "b"},
		{Name: "A.pdf", URL: "a"},
	}

	out := adapter.DeduplicateAttachmentVersions(in)

	assert.Equal(t, []string{"b", "a"}, []string{out[0].URL, out[1].URL})
}
