// Package metrics defines the narrow telemetry protocol consumed by the
// scheduler, fetcher, processor, and LLM orchestrator, plus a required
// no-op implementation so the core can run without a telemetry system.
package metrics

import "time"

// Sink records point-in-time and duration measurements from the
// ingestion core. Implementations must be safe for concurrent use.
type Sink interface {
	// RecordSync records the outcome of one city's vendor sync.
	RecordSync(vendor, city string, ok bool, duration time.Duration)

	// RecordLLMCall records one LLM provider call.
	RecordLLMCall(model, promptType string, duration time.Duration, inTokens, outTokens int, cost float64, ok bool)

	// RecordQueueDepth records the current number of QueueJob rows in a
	// given status.
	RecordQueueDepth(status string, n int)

	// RecordExtraction records the outcome of one PDF text extraction.
	RecordExtraction(ok bool, pages int)
}

// NoOp is a Sink that discards every measurement. It is the default
// when no telemetry backend is configured.
type NoOp struct{}

func (NoOp) RecordSync(string, string, bool, time.Duration)                       {}
func (NoOp) RecordLLMCall(string, string, time.Duration, int, int, float64, bool) {}
func (NoOp) RecordQueueDepth(string, int)                                         {}
func (NoOp) RecordExtraction(bool, int)                                           {}

var _ Sink = NoOp{}
