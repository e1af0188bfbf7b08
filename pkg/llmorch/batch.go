package llmorch

import (
	"context"
	"errors"
	"time"

	"github.com/civicsync/ingest/pkg/apperrors"
	"github.com/civicsync/ingest/pkg/llmprovider"
)

// BatchChunkResult is one chunk's outcome, yielded as soon as it
// arrives so callers can persist incrementally (spec.md §4.6 batch
// step 5) rather than waiting for the whole meeting's batch to finish.
// Count is the number of requests the chunk covered and is set whether
// or not the chunk succeeded, so callers can walk their own request
// list in lockstep with the channel without needing Items on failure.
type BatchChunkResult struct {
	Items []ItemSummary
	Count int
	Err   error
}

// SummarizeItemsBatch runs a meeting's outstanding item requests through
// batch mode (spec.md §4.5 step 4 / §4.6): one shared model/context cache
// for the whole batch, chosen from the requests' combined shape (the
// largest single request decides it, so one oversized item in the
// meeting doesn't get clipped to a small model just because its
// siblings are short).
func (o *Orchestrator) SummarizeItemsBatch(ctx context.Context, sharedContext string, requests []ItemRequest) <-chan BatchChunkResult {
	model := SelectModel(o.config, batchShape(requests))
	return o.RunBatch(ctx, model, sharedContext, requests)
}

func batchShape(requests []ItemRequest) RequestShape {
	var shape RequestShape
	for _, r := range requests {
		if r.PageCount > shape.PageCount {
			shape.PageCount = r.PageCount
		}
		if len(r.Text) > shape.TextLength {
			shape.TextLength = len(r.Text)
		}
	}
	return shape
}

// RunBatch processes item requests for a single meeting in batch mode:
// an optional shared context cache, BatchChunkSize-sized chunks, a
// BATCH_CHUNK_DELAY pause between chunks for quota refill, and a 429
// fallback schedule of 60s/120s/240s once a provider's own retryDelay is
// unavailable (the interactive call in generateWithRetry falls back to
// 30s/60s/90s instead; both honor retryDelay first).
//
// sharedContext is the meeting's shared packet text (e.g. the full
// packet PDF text items' attachments are drawn from); when its estimated
// token count clears ContextCacheTokenThreshold a cache is created once
// and reused across chunks, then destroyed on return.
func (o *Orchestrator) RunBatch(ctx context.Context, model, sharedContext string, requests []ItemRequest) <-chan BatchChunkResult {
	out := make(chan BatchChunkResult)

	go func() {
		defer close(out)

		var cacheHandle string
		if EstimateTokens(sharedContext) >= o.config.ContextCacheTokenThreshold {
			handle, err := o.provider.CreateContextCache(ctx, model, sharedContext, 10*time.Minute)
			if err == nil {
				cacheHandle = handle.ID
				defer o.destroyContextCache(handle)
			} else {
				o.logger.Warn("context cache creation failed, continuing without it", "error", err)
			}
		}

		chunkSize := o.config.BatchChunkSize
		if chunkSize <= 0 {
			chunkSize = 1
		}

		for start := 0; start < len(requests); start += chunkSize {
			end := start + chunkSize
			if end > len(requests) {
				end = len(requests)
			}
			chunk := requests[start:end]

			result := o.runBatchChunk(ctx, model, cacheHandle, chunk)
			select {
			case out <- result:
			case <-ctx.Done():
				return
			}
			if result.Err != nil {
				continue
			}

			if end < len(requests) {
				select {
				case <-time.After(o.config.BatchChunkDelay):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

func (o *Orchestrator) runBatchChunk(ctx context.Context, model, cacheHandle string, chunk []ItemRequest) BatchChunkResult {
	summaries := make([]ItemSummary, 0, len(chunk))
	for _, req := range chunk {
		resp, err := o.generateBatchItemWithRetry(ctx, model, cacheHandle, req)
		if err != nil {
			return BatchChunkResult{Count: len(chunk), Err: err}
		}
		summary, err := ParseItemResponse(resp.Text, resp.Truncated)
		if err != nil {
			return BatchChunkResult{Count: len(chunk), Err: err}
		}
		summary.Topics = NormalizeTopics(o.normalizer, summary.Topics)
		summaries = append(summaries, summary)
	}
	return BatchChunkResult{Items: summaries, Count: len(chunk)}
}

// generateBatchItemWithRetry honors a provider's retryDelay first, same
// as the interactive call, and falls back to the batch-mode 60s/120s/240s
// schedule (vs. the interactive call's 30s/60s/90s) only when absent.
func (o *Orchestrator) generateBatchItemWithRetry(ctx context.Context, model, cacheHandle string, req ItemRequest) (llmprovider.Response, error) {
	shape := RequestShape{PageCount: req.PageCount, TextLength: len(req.Text)}
	providerReq := llmprovider.Request{
		Model:               model,
		Messages:            BuildItemMessages(req),
		ThinkingBudget:      thinkingBudgetValue(SelectThinkingBudget(shape)),
		MaxOutputTokens:     4096,
		CachedContextHandle: cacheHandle,
	}

	start := time.Now()
	var waited time.Duration
	attempt := 0

	for {
		resp, err := o.provider.Generate(ctx, providerReq)
		if err == nil {
			duration := time.Since(start)
			o.sink.RecordLLMCall(model, "batch_item", duration, resp.Usage.InputTokens, resp.Usage.OutputTokens,
				EstimateCost(model, resp.Usage.InputTokens, resp.Usage.OutputTokens, true), true)
			return resp, nil
		}

		if ClassifyError(err) != RetryWithDelay {
			o.sink.RecordLLMCall(model, "batch_item", time.Since(start), 0, 0, 0, false)
			return llmprovider.Response{}, &apperrors.LLMError{Reason: "batch provider error", Err: err}
		}

		delay := o.batchRateLimitDelay(err, attempt)
		if waited+delay > o.config.RetryBudget {
			o.sink.RecordLLMCall(model, "batch_item", time.Since(start), 0, 0, 0, false)
			return llmprovider.Response{}, &apperrors.LLMError{Reason: "batch rate limit retry budget exhausted"}
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return llmprovider.Response{}, ctx.Err()
		}
		waited += delay
		attempt++
	}
}

// batchRateLimitDelay mirrors the orchestrator's reactive-429 philosophy
// (spec.md §4.6 "the orchestrator trusts the provider's 429 signal"): a
// provider-supplied retryDelay wins, capped at RateLimitCap, same as the
// interactive path; only absent a usable retryDelay does it fall back to
// the batch-specific 60s/120s/240s schedule.
func (o *Orchestrator) batchRateLimitDelay(err error, attempt int) time.Duration {
	var rle *llmprovider.RateLimitError
	if errors.As(err, &rle) && rle.HasDelay {
		if rle.RetryDelay > o.config.RateLimitCap {
			return o.config.RateLimitCap
		}
		return rle.RetryDelay
	}
	return batchRetryDelay(o.config.BatchRetrySchedule, attempt)
}

func batchRetryDelay(schedule []time.Duration, attempt int) time.Duration {
	if len(schedule) == 0 {
		return 60 * time.Second
	}
	if attempt >= len(schedule) {
		return schedule[len(schedule)-1]
	}
	return schedule[attempt]
}

// destroyContextCache releases a batch context cache in a guaranteed
// cleanup step (spec.md §5 shared-resource policy: "destroyed in a
// guaranteed-release scope"). Deletion failure is logged, not
// propagated — the batch run already has its results; a leaked cache
// expires on its own TTL regardless.
func (o *Orchestrator) destroyContextCache(handle llmprovider.ContextCacheHandle) {
	if err := o.provider.DeleteContextCache(context.Background(), handle); err != nil {
		o.logger.Warn("failed to release llm context cache", "handle", handle.ID, "error", err)
	}
}
