package llmorch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/civicsync/ingest/pkg/apperrors"
	"github.com/civicsync/ingest/pkg/config"
	"github.com/civicsync/ingest/pkg/llmprovider"
	"github.com/civicsync/ingest/pkg/metrics"
	"github.com/civicsync/ingest/pkg/topics"
)

// Orchestrator drives model/prompt/thinking-budget selection, reactive
// 429 handling, truncation salvage, and cost accounting over a
// llmprovider.Provider. It holds no per-call state — safe for
// concurrent use by every worker in the pool.
type Orchestrator struct {
	provider   llmprovider.Provider
	config     *config.LLMConfig
	normalizer *topics.Normalizer
	sink       metrics.Sink
	logger     *slog.Logger
}

// New builds an Orchestrator.
func New(provider llmprovider.Provider, cfg *config.LLMConfig, normalizer *topics.Normalizer, sink metrics.Sink) *Orchestrator {
	if sink == nil {
		sink = metrics.NoOp{}
	}
	return &Orchestrator{
		provider:   provider,
		config:     cfg,
		normalizer: normalizer,
		sink:       sink,
		logger:     slog.Default(),
	}
}

// SummarizeItem runs the unified item prompt through model selection,
// reactive rate limiting, and truncation salvage, returning a topic-
// normalized summary.
func (o *Orchestrator) SummarizeItem(ctx context.Context, req ItemRequest) (ItemSummary, error) {
	shape := RequestShape{PageCount: req.PageCount, TextLength: len(req.Text)}
	model := SelectModel(o.config, shape)

	resp, err := o.generateWithRetry(ctx, llmprovider.Request{
		Model:           model,
		Messages:        BuildItemMessages(req),
		ThinkingBudget:  thinkingBudgetValue(SelectThinkingBudget(shape)),
		MaxOutputTokens: 4096,
	}, "item")
	if err != nil {
		return ItemSummary{}, err
	}

	summary, err := ParseItemResponse(resp.Text, resp.Truncated)
	if err != nil {
		return ItemSummary{}, err
	}
	summary.Topics = NormalizeTopics(o.normalizer, summary.Topics)
	return summary, nil
}

// SummarizeMonolithic runs one of the two page-count-keyed monolithic
// prompts over a whole packet's extracted text.
func (o *Orchestrator) SummarizeMonolithic(ctx context.Context, packetText string, pageCount int) (string, error) {
	shape := RequestShape{PageCount: pageCount, TextLength: len(packetText), Monolithic: true}
	model := SelectModel(o.config, shape)
	promptType := SelectPrompt(shape)

	resp, err := o.generateWithRetry(ctx, llmprovider.Request{
		Model:           model,
		Messages:        BuildMonolithicMessages(promptType, packetText),
		ThinkingBudget:  thinkingBudgetValue(SelectThinkingBudget(shape)),
		MaxOutputTokens: 8192,
	}, string(promptType))
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// generateWithRetry implements the reactive-429 schedule: trust the
// provider's signal rather than counting tokens proactively. Any
// non-429 error raises immediately; a 429 backs off per
// config.RateLimitSchedule (or the provider's own retryDelay, capped at
// config.RateLimitCap) until config.RetryBudget is exhausted.
func (o *Orchestrator) generateWithRetry(ctx context.Context, req llmprovider.Request, promptType string) (llmprovider.Response, error) {
	start := time.Now()
	var waited time.Duration
	attempt := 0

	for {
		resp, err := o.provider.Generate(ctx, req)
		if err == nil {
			duration := time.Since(start)
			o.sink.RecordLLMCall(req.Model, promptType, duration, resp.Usage.InputTokens, resp.Usage.OutputTokens,
				EstimateCost(req.Model, resp.Usage.InputTokens, resp.Usage.OutputTokens, false), true)
			return resp, nil
		}

		if ClassifyError(err) != RetryWithDelay {
			o.sink.RecordLLMCall(req.Model, promptType, time.Since(start), 0, 0, 0, false)
			return llmprovider.Response{}, &apperrors.LLMError{Reason: "provider error", Err: err}
		}

		delay := o.rateLimitDelay(err, attempt)
		if waited+delay > o.config.RetryBudget {
			o.sink.RecordLLMCall(req.Model, promptType, time.Since(start), 0, 0, 0, false)
			return llmprovider.Response{}, &apperrors.LLMError{
				Reason: "rate limit retry budget exhausted",
				Err:    &apperrors.RateLimitExhausted{WaitedSeconds: int(waited.Seconds()), CapSeconds: int(o.config.RetryBudget.Seconds())},
			}
		}

		o.logger.Warn("llm rate limited, backing off", "model", req.Model, "attempt", attempt, "delay", delay)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return llmprovider.Response{}, ctx.Err()
		}
		waited += delay
		attempt++
	}
}

// rateLimitDelay picks the provider-supplied retryDelay if present
// (capped at config.RateLimitCap), otherwise the next entry in the
// fixed schedule, repeating the last entry once the schedule is
// exhausted.
func (o *Orchestrator) rateLimitDelay(err error, attempt int) time.Duration {
	var rle *llmprovider.RateLimitError
	if errors.As(err, &rle) && rle.HasDelay {
		if rle.RetryDelay > o.config.RateLimitCap {
			return o.config.RateLimitCap
		}
		return rle.RetryDelay
	}

	schedule := o.config.RateLimitSchedule
	if len(schedule) == 0 {
		return o.config.RateLimitCap
	}
	if attempt >= len(schedule) {
		return schedule[len(schedule)-1]
	}
	return schedule[attempt]
}

// thinkingBudgetValue translates a tier into the pointer llmprovider.Request
// expects: nil lets the model default apply, 0 disables reasoning, -1
// requests unbounded reasoning.
func thinkingBudgetValue(tier ThinkingTier) *int {
	switch tier {
	case ThinkingDisabled:
		v := 0
		return &v
	case ThinkingUnbounded:
		v := -1
		return &v
	default:
		return nil
	}
}
