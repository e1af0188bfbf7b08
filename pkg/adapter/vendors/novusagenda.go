package vendors

import (
	"time"

	"github.com/civicsync/ingest/pkg/adapter"
	"github.com/civicsync/ingest/pkg/models"
)

// NewNovusAgenda returns the fixture-backed NovusAGENDA adapter.
func NewNovusAgenda() *FixtureAdapter {
	return NewFixtureAdapter(adapter.TagNovusAgenda, models.FetchResult{
		Success: true,
		Meetings: []models.Meeting{
			{
				VendorID: "novus-77210",
				Title:    "City Council Work Session",
				Start:    time.Date(2025, 11, 20, 17, 0, 0, 0, time.UTC),
				HasStart: true,
				Items: []models.AgendaItem{
					{VendorItemID: "1", Title: "Public Comment", Sequence: 1},
					{
						VendorItemID: "2",
						Title:        "Parks Master Plan Presentation",
						Sequence:     2,
					},
				},
			},
		},
	})
}
