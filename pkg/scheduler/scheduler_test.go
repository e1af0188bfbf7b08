package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicsync/ingest/pkg/adapter"
	"github.com/civicsync/ingest/pkg/config"
	"github.com/civicsync/ingest/pkg/fetcher"
)

type fixtureCityRepo struct {
	cities []fetcher.City
}

func (f *fixtureCityRepo) ActiveCities(context.Context) ([]fetcher.City, error) {
	return f.cities, nil
}

type fixtureSyncer struct {
	mu       sync.Mutex
	calls    []string
	failN    map[string]int // number of times to fail before succeeding
	attempts map[string]int
}

func newFixtureSyncer() *fixtureSyncer {
	return &fixtureSyncer{failN: make(map[string]int), attempts: make(map[string]int)}
}

func (f *fixtureSyncer) SyncCity(_ context.Context, city fetcher.City) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, city.ID)
	f.attempts[city.ID]++
	if f.attempts[city.ID] <= f.failN[city.ID] {
		return assertErr("simulated vendor error")
	}
	return nil
}

type assertErr string

func (e assertErr) Error() string { return string(e) }

func testSchedulerConfig() *config.SchedulerConfig {
	cfg := config.DefaultSchedulerConfig()
	cfg.SyncInterval = time.Hour
	cfg.FetchConcurrency = 2
	cfg.CitySyncMaxRetries = 3
	return cfg
}

func TestSyncOnce_SyncsAllActiveCities(t *testing.T) {
	cities := &fixtureCityRepo{cities: []fetcher.City{
		{ID: "city_a", VendorTag: adapter.Tag("legistar")},
		{ID: "city_b", VendorTag: adapter.Tag("civicclerk")},
	}}
	syncer := newFixtureSyncer()
	s := New(cities, syncer, nil, testSchedulerConfig())

	err := s.SyncOnce(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"city_a", "city_b"}, syncer.calls)
}

func TestSyncCityWithRetry_SucceedsAfterTransientFailures(t *testing.T) {
	cities := &fixtureCityRepo{cities: []fetcher.City{{ID: "city_a", VendorTag: adapter.Tag("legistar")}}}
	syncer := newFixtureSyncer()
	syncer.failN["city_a"] = 2

	cfg := testSchedulerConfig()
	s := New(cities, syncer, nil, cfg)

	err := s.SyncOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, s.CityErrorCount("city_a"))
	assert.Equal(t, 3, syncer.attempts["city_a"])
}

func TestSyncCityWithRetry_ExhaustsRetriesIncrementsErrorCount(t *testing.T) {
	cities := &fixtureCityRepo{cities: []fetcher.City{{ID: "city_a", VendorTag: adapter.Tag("legistar")}}}
	syncer := newFixtureSyncer()
	syncer.failN["city_a"] = 100

	cfg := testSchedulerConfig()
	s := New(cities, syncer, nil, cfg)

	err := s.SyncOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, s.CityErrorCount("city_a"))
}

// One city's total failure never blocks its vendor-mates or other
// vendor groups (spec.md §4.1 "Failure policy").
func TestSyncCities_OneCityFailureDoesNotBlockOthers(t *testing.T) {
	cities := &fixtureCityRepo{cities: []fetcher.City{
		{ID: "bad_city", VendorTag: adapter.Tag("legistar")},
		{ID: "good_city", VendorTag: adapter.Tag("legistar")},
	}}
	syncer := newFixtureSyncer()
	syncer.failN["bad_city"] = 100

	cfg := testSchedulerConfig()
	s := New(cities, syncer, nil, cfg)

	err := s.SyncOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, s.CityErrorCount("bad_city"))
	assert.Equal(t, 0, s.CityErrorCount("good_city"))
	assert.GreaterOrEqual(t, syncer.attempts["good_city"], 1)
}

func TestSyncVendorGroup_BoundsConcurrencyWithinVendor(t *testing.T) {
	var concurrent int32
	var maxConcurrent int32
	var mu sync.Mutex
	slowSyncer := &concurrencyTrackingSyncer{
		onSync: func() {
			n := atomic.AddInt32(&concurrent, 1)
			mu.Lock()
			if n > maxConcurrent {
				maxConcurrent = n
			}
			mu.Unlock()
			time.Sleep(20 * time.Millisecond)
			atomic.AddInt32(&concurrent, -1)
		},
	}

	cities := make([]fetcher.City, 6)
	for i := range cities {
		cities[i] = fetcher.City{ID: string(rune('a' + i)), VendorTag: adapter.Tag("legistar")}
	}

	cfg := testSchedulerConfig()
	cfg.FetchConcurrency = 2
	s := New(&fixtureCityRepo{cities: cities}, slowSyncer, nil, cfg)

	s.syncVendorGroup(context.Background(), cities)
	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, int(maxConcurrent), 2)
}

type concurrencyTrackingSyncer struct {
	onSync func()
}

func (c *concurrencyTrackingSyncer) SyncCity(context.Context, fetcher.City) error {
	c.onSync()
	return nil
}
