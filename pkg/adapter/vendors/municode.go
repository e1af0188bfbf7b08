package vendors

import (
	"time"

	"github.com/civicsync/ingest/pkg/adapter"
	"github.com/civicsync/ingest/pkg/models"
)

// NewMunicode returns the fixture-backed Municode Meetings adapter.
func NewMunicode() *FixtureAdapter {
	return NewFixtureAdapter(adapter.TagMunicode, models.FetchResult{
		Success: true,
		Meetings: []models.Meeting{
			{
				VendorID: "municode-61004",
				Title:    "City Commission Regular Session",
				Start:    time.Date(2025, 11, 25, 18, 0, 0, 0, time.UTC),
				HasStart: true,
				Items: []models.AgendaItem{
					{
						VendorItemID: "1",
						Title:        "Solid Waste Franchise Agreement Renewal",
						Sequence:     1,
						MatterFile:   "2025-CC-112",
					},
				},
			},
		},
	})
}
