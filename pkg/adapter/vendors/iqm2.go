package vendors

import (
	"time"

	"github.com/civicsync/ingest/pkg/adapter"
	"github.com/civicsync/ingest/pkg/models"
)

// NewIQM2 returns the fixture-backed IQM2 adapter.
func NewIQM2() *FixtureAdapter {
	return NewFixtureAdapter(adapter.TagIQM2, models.FetchResult{
		Success: true,
		Meetings: []models.Meeting{
			{
				VendorID: "iqm2-30981",
				Title:    "Zoning Board of Appeals",
				Start:    time.Date(2025, 11, 24, 19, 0, 0, 0, time.UTC),
				HasStart: true,
				Items: []models.AgendaItem{
					{
						VendorItemID: "zba-2025-19",
						Title:        "Variance Request — 418 Oak Street",
						Sequence:     1,
						MatterFile:   "ZBA-2025-19",
					},
				},
			},
		},
	})
}
