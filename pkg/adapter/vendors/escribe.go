package vendors

import (
	"time"

	"github.com/civicsync/ingest/pkg/adapter"
	"github.com/civicsync/ingest/pkg/models"
)

// NewEscribe returns the fixture-backed eSCRIBE adapter.
func NewEscribe() *FixtureAdapter {
	return NewFixtureAdapter(adapter.TagEscribe, models.FetchResult{
		Success: true,
		Meetings: []models.Meeting{
			{
				VendorID: "escribe-44109",
				Title:    "Committee of the Whole",
				Start:    time.Date(2025, 11, 21, 18, 30, 0, 0, time.UTC),
				HasStart: true,
				Items: []models.AgendaItem{
					{
						VendorItemID: "cw-3",
						Title:        "Transit Fare Policy Review",
						Sequence:     1,
					},
				},
			},
		},
	})
}
