package vendors

import (
	"time"

	"github.com/civicsync/ingest/pkg/adapter"
	"github.com/civicsync/ingest/pkg/hashing"
	"github.com/civicsync/ingest/pkg/models"
)

// NewCivicClerk returns the fixture-backed CivicClerk adapter. CivicClerk
// exposes no stable native meeting id in this fixture, so VendorID is
// derived via hashing.VendorIDFallback, mirroring what a real adapter
// must do per spec.md §4.3.
func NewCivicClerk() *FixtureAdapter {
	title := "Board of Supervisors Study Session"
	isoDate := "2025-11-14"
	urlPath := "/meetings/study-session"

	return NewFixtureAdapter(adapter.TagCivicClerk, models.FetchResult{
		Success: true,
		Meetings: []models.Meeting{
			{
				VendorID: hashing.VendorIDFallback(title, isoDate, urlPath),
				Title:    title,
				Start:    time.Date(2025, 11, 14, 9, 0, 0, 0, time.UTC),
				HasStart: true,
				Items: []models.AgendaItem{
					{
						VendorItemID: "",
						Title:        "Broadband Infrastructure Grant Update",
						Sequence:     1,
					},
				},
			},
		},
	})
}
