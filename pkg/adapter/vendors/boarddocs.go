package vendors

import (
	"time"

	"github.com/civicsync/ingest/pkg/adapter"
	"github.com/civicsync/ingest/pkg/models"
)

// NewBoardDocs returns the fixture-backed BoardDocs adapter.
func NewBoardDocs() *FixtureAdapter {
	return NewFixtureAdapter(adapter.TagBoardDocs, models.FetchResult{
		Success: true,
		Meetings: []models.Meeting{
			{
				VendorID: "boarddocs-9931",
				Title:    "School Board Meeting",
				Start:    time.Date(2025, 11, 17, 18, 0, 0, 0, time.UTC),
				HasStart: true,
				Items: []models.AgendaItem{
					{
						VendorItemID: "9.1",
						Title:        "Adoption of 2026-27 Academic Calendar",
						Sequence:     1,
					},
				},
			},
		},
	})
}
