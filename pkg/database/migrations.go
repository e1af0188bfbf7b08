package database

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect/sql"
)

// CreateGINIndexes creates full-text search GIN indexes for PostgreSQL.
// These back SearchRepo's read path (spec.md §6): a cached, read-only
// lookup over already-summarized content, not a general-purpose search
// engine (explicit non-goal, spec.md §1).
func CreateGINIndexes(ctx context.Context, driver *sql.Driver) error {
	db := driver.DB()

	_, err := db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_agenda_items_summary_gin
		ON agenda_items USING gin(to_tsvector('english', COALESCE(summary, '')))`)
	if err != nil {
		return fmt.Errorf("failed to create agenda item summary GIN index: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_matters_canonical_summary_gin
		ON matters USING gin(to_tsvector('english', COALESCE(canonical_summary, '')))`)
	if err != nil {
		return fmt.Errorf("failed to create matter summary GIN index: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_meetings_summary_gin
		ON meetings USING gin(to_tsvector('english', COALESCE(summary, '')))`)
	if err != nil {
		return fmt.Errorf("failed to create meeting summary GIN index: %w", err)
	}

	return nil
}
