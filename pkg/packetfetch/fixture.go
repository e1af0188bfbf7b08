package packetfetch

import (
	"context"

	"github.com/civicsync/ingest/pkg/repo"
)

// FixtureCacheRepo is an in-memory CacheRepo test double.
type FixtureCacheRepo struct {
	Rows     map[string]repo.CacheHit
	Recorded []string
}

// NewFixtureCacheRepo returns an empty FixtureCacheRepo.
func NewFixtureCacheRepo() *FixtureCacheRepo {
	return &FixtureCacheRepo{Rows: make(map[string]repo.CacheHit)}
}

func (f *FixtureCacheRepo) GetProcessingCache(_ context.Context, packetURL string) (repo.CacheHit, error) {
	hit, ok := f.Rows[packetURL]
	if !ok {
		return repo.CacheHit{}, nil
	}
	return hit, nil
}

func (f *FixtureCacheRepo) RecordProcessingCache(_ context.Context, packetURL, contentHash, method string, _ int) error {
	f.Rows[packetURL] = repo.CacheHit{Found: true, ContentHash: contentHash, Method: method}
	f.Recorded = append(f.Recorded, packetURL)
	return nil
}
