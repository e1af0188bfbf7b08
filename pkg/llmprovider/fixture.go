package llmprovider

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ScriptEntry is a single scripted Generate() outcome.
type ScriptEntry struct {
	Response Response
	Err      error
}

// FixtureProvider is a test double for Provider: a scripted sequence of
// responses/errors consumed in call order, the same "scripted client,
// consumed sequentially" shape as the teacher's ScriptedLLMClient for
// test/e2e.
type FixtureProvider struct {
	mu       sync.Mutex
	script   []ScriptEntry
	index    int
	Requests []Request
	Caches   []string
	Deleted  []string
}

// NewFixtureProvider builds an empty FixtureProvider.
func NewFixtureProvider() *FixtureProvider {
	return &FixtureProvider{}
}

// AddResponse appends a successful scripted response.
func (f *FixtureProvider) AddResponse(r Response) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.script = append(f.script, ScriptEntry{Response: r})
}

// AddError appends a scripted error, e.g. a *RateLimitError or
// *StatusError for reactive-backoff tests.
func (f *FixtureProvider) AddError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.script = append(f.script, ScriptEntry{Err: err})
}

// Generate implements Provider.
func (f *FixtureProvider) Generate(ctx context.Context, req Request) (Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Requests = append(f.Requests, req)
	if f.index >= len(f.script) {
		return Response{}, fmt.Errorf("fixture provider: no scripted entry for call %d", f.index)
	}
	entry := f.script[f.index]
	f.index++
	if entry.Err != nil {
		return Response{}, entry.Err
	}
	return entry.Response, nil
}

// CreateContextCache implements Provider with a deterministic fake
// handle; tests assert against Caches rather than handle contents.
func (f *FixtureProvider) CreateContextCache(ctx context.Context, model, content string, ttl time.Duration) (ContextCacheHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Caches = append(f.Caches, content)
	return ContextCacheHandle{ID: fmt.Sprintf("fixture-cache-%d", len(f.Caches))}, nil
}

// DeleteContextCache implements Provider by recording the deletion so
// tests can assert every created cache was also released.
func (f *FixtureProvider) DeleteContextCache(ctx context.Context, handle ContextCacheHandle) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Deleted = append(f.Deleted, handle.ID)
	return nil
}
