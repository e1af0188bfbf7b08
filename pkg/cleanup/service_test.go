package cleanup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicsync/ingest/pkg/config"
)

func testConfig() *config.RetentionConfig {
	return &config.RetentionConfig{
		JobRetentionDays: 90,
		CacheTTL:         30 * 24 * time.Hour,
		SweepInterval:    time.Hour,
	}
}

func TestRunAll_DeletesOldJobsWithCorrectCutoff(t *testing.T) {
	repo := NewFixtureRepo()
	repo.DeletedJobsCount = 3
	svc := NewService(testConfig(), repo, nil)

	before := time.Now().AddDate(0, 0, -90)
	svc.runAll(context.Background())
	after := time.Now().AddDate(0, 0, -90)

	require.False(t, repo.DeletedJobsCutoff.IsZero())
	assert.True(t, !repo.DeletedJobsCutoff.Before(before.Add(-time.Second)) && !repo.DeletedJobsCutoff.After(after.Add(time.Second)))
}

func TestRunAll_EvictsExpiredCacheWithCorrectCutoff(t *testing.T) {
	repo := NewFixtureRepo()
	repo.EvictedCacheCount = 5
	svc := NewService(testConfig(), repo, nil)

	svc.runAll(context.Background())

	expected := time.Now().Add(-30 * 24 * time.Hour)
	assert.WithinDuration(t, expected, repo.EvictedCacheCutoff, 2*time.Second)
}

func TestRunAll_PrunesEmptyMatters(t *testing.T) {
	repo := NewFixtureRepo()
	svc := NewService(testConfig(), repo, nil)

	svc.runAll(context.Background())

	assert.True(t, repo.PrunedMattersCalled)
}

func TestRunAll_ContinuesAfterOneOperationFails(t *testing.T) {
	repo := NewFixtureRepo()
	repo.DeletedJobsErr = assert.AnError
	svc := NewService(testConfig(), repo, nil)

	svc.runAll(context.Background())

	assert.True(t, repo.PrunedMattersCalled, "a failed job-deletion sweep must not block the matter-pruning sweep")
}

func TestStartStop_RunsInitialSweepThenStopsCleanly(t *testing.T) {
	repo := NewFixtureRepo()
	repo.PrunedMattersCount = 1
	cfg := testConfig()
	cfg.SweepInterval = time.Hour
	svc := NewService(cfg, repo, nil)

	svc.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	svc.Stop()

	assert.True(t, repo.PrunedMattersCalled)
}
