package vendors

import (
	"time"

	"github.com/civicsync/ingest/pkg/adapter"
	"github.com/civicsync/ingest/pkg/models"
)

// NewPrimeGov returns the fixture-backed PrimeGov adapter. PrimeGov
// supplies a native numeric meeting id, so VendorID needs no fallback.
func NewPrimeGov() *FixtureAdapter {
	return NewFixtureAdapter(adapter.TagPrimeGov, models.FetchResult{
		Success: true,
		Meetings: []models.Meeting{
			{
				VendorID:  "12345",
				Title:     "City Council Regular Meeting",
				Start:     time.Date(2025, 11, 10, 18, 0, 0, 0, time.UTC),
				HasStart:  true,
				AgendaURL: "https://paloaltoca.primegov.com/meeting/12345/agenda",
				PacketURL: "https://paloaltoca.primegov.com/meeting/12345/packet.pdf",
				Items: []models.AgendaItem{
					{VendorItemID: "1", Title: "Call to Order", Sequence: 1},
					{
						VendorItemID: "2",
						Title:        "Approval of Downtown Parking Garage Contract",
						Sequence:     2,
						MatterFile:   "25-1044",
						Attachments: []models.Attachment{
							{Name: "Staff Report.pdf", URL: "https://paloaltoca.primegov.com/doc/staff-report.pdf", Type: "pdf"},
						},
					},
					{
						VendorItemID: "3",
						Title:        "Adjournment",
						Sequence:     3,
					},
				},
			},
		},
	})
}
