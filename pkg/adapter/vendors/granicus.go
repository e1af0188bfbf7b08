package vendors

import (
	"time"

	"github.com/civicsync/ingest/pkg/adapter"
	"github.com/civicsync/ingest/pkg/models"
)

// NewGranicus returns the fixture-backed Granicus adapter. Its packet
// carries two amendment versions of the same staff report; the fixture
// exercises DeduplicateAttachmentVersions picking the higher Leg Ver.
func NewGranicus() *FixtureAdapter {
	return NewFixtureAdapter(adapter.TagGranicus, models.FetchResult{
		Success: true,
		Meetings: []models.Meeting{
			{
				VendorID: "granicus-98213",
				Title:    "Planning Commission",
				Start:    time.Date(2025, 11, 12, 19, 30, 0, 0, time.UTC),
				HasStart: true,
				Items: []models.AgendaItem{
					{
						VendorItemID: "2",
						Title:        "Rezoning Application 2025-014",
						Sequence:     1,
						MatterFile:   "2025-014",
						Attachments: []models.Attachment{
							{Name: "Staff Report Leg Ver 1.pdf", URL: "https://granicus.example/doc/v1.pdf", Type: "pdf"},
							{Name: "Staff Report Leg Ver 2.pdf", URL: "https://granicus.example/doc/v2.pdf", Type: "pdf"},
						},
					},
				},
			},
		},
	})
}
