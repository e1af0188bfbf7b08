package vendors

import (
	"github.com/civicsync/ingest/pkg/adapter"
	"github.com/civicsync/ingest/pkg/models"
)

// NewSwagit returns the fixture-backed Swagit adapter. Swagit's fixture
// reports a clean zero-meetings cycle (Success=true, no Meetings), the
// other half of the FetchResult contract besides a populated result.
func NewSwagit() *FixtureAdapter {
	return NewFixtureAdapter(adapter.TagSwagit, models.FetchResult{
		Success:  true,
		Meetings: nil,
	})
}
