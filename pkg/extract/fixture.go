package extract

import "context"

// FixtureExtractor is a test double for Extractor: it returns
// canned results keyed by URL instead of parsing real PDF bytes, so
// pkg/processor and test/integration tests don't need real packet
// fixtures on disk.
type FixtureExtractor struct {
	Results map[string]Result
	Err     map[string]error
	Calls   []string
}

// NewFixtureExtractor builds an empty FixtureExtractor.
func NewFixtureExtractor() *FixtureExtractor {
	return &FixtureExtractor{
		Results: make(map[string]Result),
		Err:     make(map[string]error),
	}
}

// Extract implements Extractor.
func (f *FixtureExtractor) Extract(ctx context.Context, url string, data []byte) (Result, error) {
	f.Calls = append(f.Calls, url)
	if err, ok := f.Err[url]; ok {
		return Result{}, err
	}
	if result, ok := f.Results[url]; ok {
		return result, nil
	}
	return Result{Success: false}, nil
}
