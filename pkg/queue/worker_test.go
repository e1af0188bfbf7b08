package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/civicsync/ingest/pkg/config"
)

func testQueueConfig() *config.QueueConfig {
	cfg := config.DefaultQueueConfig()
	cfg.ClaimInterval = 1 * time.Second
	return cfg
}

func TestWorker_PollIntervalWithinJitterBand(t *testing.T) {
	w := NewWorker("worker-0", nil, testQueueConfig(), nil)

	for i := 0; i < 200; i++ {
		d := w.pollInterval()
		assert.GreaterOrEqual(t, d, 750*time.Millisecond)
		assert.LessOrEqual(t, d, 1250*time.Millisecond)
	}
}

func TestWorker_PollIntervalZeroBaseHasNoJitter(t *testing.T) {
	cfg := testQueueConfig()
	cfg.ClaimInterval = 0
	w := NewWorker("worker-0", nil, cfg, nil)

	assert.Equal(t, time.Duration(0), w.pollInterval())
}

func TestWorker_HealthStartsIdle(t *testing.T) {
	w := NewWorker("worker-0", nil, testQueueConfig(), nil)

	h := w.Health()
	assert.Equal(t, "worker-0", h.ID)
	assert.Equal(t, string(WorkerStatusIdle), h.Status)
	assert.Equal(t, 0, h.CurrentJobID)
	assert.Equal(t, 0, h.JobsProcessed)
}

func TestWorker_SetWorkingAndIdleTransitions(t *testing.T) {
	w := NewWorker("worker-0", nil, testQueueConfig(), nil)

	w.setWorking(42)
	h := w.Health()
	assert.Equal(t, string(WorkerStatusWorking), h.Status)
	assert.Equal(t, 42, h.CurrentJobID)

	w.setIdle()
	h = w.Health()
	assert.Equal(t, string(WorkerStatusIdle), h.Status)
	assert.Equal(t, 0, h.CurrentJobID)
}
