package cleanup

import (
	"context"
	"time"
)

// FixtureRepo is an in-memory Repo double for unit tests.
type FixtureRepo struct {
	DeletedJobsCutoff   time.Time
	DeletedJobsCount    int
	DeletedJobsErr      error
	EvictedCacheCutoff  time.Time
	EvictedCacheCount   int
	EvictedCacheErr     error
	PrunedMattersCount  int
	PrunedMattersErr    error
	PrunedMattersCalled bool
}

func NewFixtureRepo() *FixtureRepo {
	return &FixtureRepo{}
}

func (f *FixtureRepo) DeleteOldTerminalJobs(_ context.Context, cutoff time.Time) (int, error) {
	f.DeletedJobsCutoff = cutoff
	if f.DeletedJobsErr != nil {
		return 0, f.DeletedJobsErr
	}
	return f.DeletedJobsCount, nil
}

func (f *FixtureRepo) EvictExpiredCache(_ context.Context, cutoff time.Time) (int, error) {
	f.EvictedCacheCutoff = cutoff
	if f.EvictedCacheErr != nil {
		return 0, f.EvictedCacheErr
	}
	return f.EvictedCacheCount, nil
}

func (f *FixtureRepo) PruneEmptyMatters(_ context.Context) (int, error) {
	f.PrunedMattersCalled = true
	if f.PrunedMattersErr != nil {
		return 0, f.PrunedMattersErr
	}
	return f.PrunedMattersCount, nil
}
