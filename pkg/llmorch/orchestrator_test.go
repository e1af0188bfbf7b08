package llmorch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicsync/ingest/pkg/llmprovider"
	"github.com/civicsync/ingest/pkg/metrics"
	"github.com/civicsync/ingest/pkg/topics"
)

func newTestOrchestrator(t *testing.T, provider llmprovider.Provider) *Orchestrator {
	t.Helper()
	cfg := testLLMConfig()
	cfg.RateLimitSchedule = []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 30 * time.Millisecond}
	cfg.RateLimitCap = 50 * time.Millisecond
	cfg.RetryBudget = time.Second
	normalizer := topics.New("")
	return New(provider, cfg, normalizer, metrics.NoOp{})
}

// Matches spec scenario 3: a 429 with a retryDelay succeeds on the
// second attempt, with no job-level failure recorded.
func TestSummarizeItem_RetriesOnceAfterRateLimitThenSucceeds(t *testing.T) {
	provider := llmprovider.NewFixtureProvider()
	provider.AddError(&llmprovider.RateLimitError{HasDelay: true, RetryDelay: 10 * time.Millisecond})
	provider.AddResponse(llmprovider.Response{
		Text: `{"summary_markdown":"Approved the contract.","topics":["contracts"],"confidence":"high"}`,
	})

	o := newTestOrchestrator(t, provider)
	summary, err := o.SummarizeItem(context.Background(), ItemRequest{Title: "Item 1", Text: "some packet text"})
	require.NoError(t, err)
	assert.Equal(t, "Approved the contract.", summary.SummaryMarkdown)
	assert.Equal(t, []string{"contracts"}, summary.Topics)
	assert.Len(t, provider.Requests, 2)
}

func TestSummarizeItem_NonRateLimitErrorRaisesImmediately(t *testing.T) {
	provider := llmprovider.NewFixtureProvider()
	provider.AddError(&llmprovider.StatusError{StatusCode: 500, Body: "boom"})

	o := newTestOrchestrator(t, provider)
	_, err := o.SummarizeItem(context.Background(), ItemRequest{Title: "Item 1", Text: "text"})
	require.Error(t, err)
	assert.Len(t, provider.Requests, 1)
}

func TestSummarizeItem_ExhaustsRetryBudget(t *testing.T) {
	provider := llmprovider.NewFixtureProvider()
	for i := 0; i < 10; i++ {
		provider.AddError(&llmprovider.RateLimitError{HasDelay: true, RetryDelay: 400 * time.Millisecond})
	}

	o := newTestOrchestrator(t, provider)
	o.config.RetryBudget = 500 * time.Millisecond
	o.config.RateLimitCap = time.Second

	_, err := o.SummarizeItem(context.Background(), ItemRequest{Title: "Item 1", Text: "text"})
	require.Error(t, err)
}

func TestSummarizeItem_UnrecognizedTopicsFallBackToOther(t *testing.T) {
	provider := llmprovider.NewFixtureProvider()
	provider.AddResponse(llmprovider.Response{
		Text: `{"summary_markdown":"Something happened.","topics":["gibberish nonsense"],"confidence":"medium"}`,
	})

	o := newTestOrchestrator(t, provider)
	summary, err := o.SummarizeItem(context.Background(), ItemRequest{Title: "Item 1", Text: "text"})
	require.NoError(t, err)
	assert.Equal(t, []string{"other"}, summary.Topics)
}

func TestSummarizeMonolithic_PicksShortPromptForSmallPacket(t *testing.T) {
	provider := llmprovider.NewFixtureProvider()
	provider.AddResponse(llmprovider.Response{Text: "## Meeting summary\n..."})

	o := newTestOrchestrator(t, provider)
	text, err := o.SummarizeMonolithic(context.Background(), "packet text", 12)
	require.NoError(t, err)
	assert.Contains(t, text, "Meeting summary")
}

func TestRunBatch_CreatesAndDestroysContextCacheAboveThreshold(t *testing.T) {
	provider := llmprovider.NewFixtureProvider()
	for i := 0; i < 6; i++ {
		provider.AddResponse(llmprovider.Response{Text: `{"summary_markdown":"ok","topics":["budget"],"confidence":"high"}`})
	}

	o := newTestOrchestrator(t, provider)
	o.config.BatchChunkSize = 5
	o.config.BatchChunkDelay = time.Millisecond
	o.config.ContextCacheTokenThreshold = 10

	sharedContext := ""
	for i := 0; i < 100; i++ {
		sharedContext += "shared packet context "
	}

	requests := make([]ItemRequest, 6)
	for i := range requests {
		requests[i] = ItemRequest{Title: "item", Text: "text"}
	}

	var chunks []BatchChunkResult
	for result := range o.RunBatch(context.Background(), "gemini-2.5-flash", sharedContext, requests) {
		chunks = append(chunks, result)
	}

	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0].Items, 5)
	assert.Len(t, chunks[1].Items, 1)
	assert.Len(t, provider.Caches, 1)
	assert.Len(t, provider.Deleted, 1)
}
