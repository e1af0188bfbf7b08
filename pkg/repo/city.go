package repo

import (
	"context"

	"github.com/civicsync/ingest/ent/city"
	"github.com/civicsync/ingest/pkg/adapter"
	"github.com/civicsync/ingest/pkg/apperrors"
	"github.com/civicsync/ingest/pkg/fetcher"
)

// ActiveCities returns every city with status=active (spec.md §4.1 sync
// loop: "select all cities with status = active"), as the City value the
// Fetcher and Scheduler operate on.
func (r *Repo) ActiveCities(ctx context.Context) ([]fetcher.City, error) {
	rows, err := r.client.City.Query().Where(city.StatusEQ(city.StatusActive)).All(ctx)
	if err != nil {
		return nil, &apperrors.DatabaseError{Op: "query active cities", Err: err}
	}

	out := make([]fetcher.City, 0, len(rows))
	for _, c := range rows {
		out = append(out, fetcher.City{
			ID:           c.ID,
			Banana:       c.ID,
			VendorTag:    adapter.Tag(c.Vendor),
			VendorSiteID: c.VendorSlug,
		})
	}
	return out, nil
}
