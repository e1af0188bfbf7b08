package vendors_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicsync/ingest/pkg/adapter"
	"github.com/civicsync/ingest/pkg/adapter/vendors"
)

func TestNewAll_CoversEveryVendorTag(t *testing.T) {
	reg := adapter.NewRegistry(vendors.NewAll()...)

	assert.Equal(t, len(adapter.AllTags), reg.Len())
	for _, tag := range adapter.AllTags {
		assert.True(t, reg.Has(tag), "missing adapter for %s", tag)
	}
}

func TestGranicusAdapter_DeduplicatesLegVer(t *testing.T) {
	result, err := vendors.NewGranicus().Fetch(context.Background(), "irrelevant")
	require.NoError(t, err)
	require.Len(t, result.Meetings, 1)
	require.Len(t, result.Meetings[0].Items, 1)
	assert.Len(t, result.Meetings[0].Items[0].Attachments, 1)
	assert.Contains(t, result.Meetings[0].Items[0].Attachments[0].URL, "v2.pdf")
}

func TestCivicClerkAdapter_DerivesFallbackVendorID(t *testing.T) {
	result, err := vendors.NewCivicClerk().Fetch(context.Background(), "irrelevant")
	require.NoError(t, err)
	require.Len(t, result.Meetings, 1)
	assert.Len(t, result.Meetings[0].VendorID, 12)
}

func TestSwagitAdapter_ReportsZeroMeetingsSuccessfully(t *testing.T) {
	result, err := vendors.NewSwagit().Fetch(context.Background(), "irrelevant")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, result.Meetings)
}
