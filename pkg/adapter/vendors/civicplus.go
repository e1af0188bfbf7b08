package vendors

import (
	"time"

	"github.com/civicsync/ingest/pkg/adapter"
	"github.com/civicsync/ingest/pkg/models"
)

// NewCivicPlus returns the fixture-backed CivicPlus adapter.
func NewCivicPlus() *FixtureAdapter {
	return NewFixtureAdapter(adapter.TagCivicPlus, models.FetchResult{
		Success: true,
		Meetings: []models.Meeting{
			{
				VendorID: "cp-2025-1109",
				Title:    "Town Board Meeting",
				Start:    time.Date(2025, 11, 9, 18, 0, 0, 0, time.UTC),
				HasStart: true,
				Items: []models.AgendaItem{
					{VendorItemID: "1", Title: "Roll Call", Sequence: 1},
					{
						VendorItemID: "2",
						Title:        "Water Utility Rate Adjustment",
						Sequence:     2,
						MatterFile:   "RES-2025-41",
						Attachments: []models.Attachment{
							{Name: "Rate Study.pdf", URL: "https://civicplus.example/doc/rate-study.pdf", Type: "pdf"},
						},
					},
				},
			},
		},
	})
}
