package vendors

import (
	"time"

	"github.com/civicsync/ingest/pkg/adapter"
	"github.com/civicsync/ingest/pkg/models"
)

// NewLegistar returns the fixture-backed Legistar adapter.
func NewLegistar() *FixtureAdapter {
	return NewFixtureAdapter(adapter.TagLegistar, models.FetchResult{
		Success: true,
		Meetings: []models.Meeting{
			{
				VendorID: "legistar-556621",
				Title:    "Board of Supervisors",
				Start:    time.Date(2025, 11, 18, 13, 0, 0, 0, time.UTC),
				HasStart: true,
				Items: []models.AgendaItem{
					{
						VendorItemID: "21-0884",
						Title:        "Ordinance Amending the Housing Element",
						Sequence:     1,
						MatterID:     "21-0884",
						MatterType:   "Ordinance",
						Sponsors:     []string{"Supervisor Ramirez"},
					},
				},
			},
		},
	})
}
