package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkerPool_HealthReportsWorkerCount(t *testing.T) {
	p := &WorkerPool{
		workers: []*Worker{
			NewWorker("worker-0", nil, testQueueConfig(), nil),
			NewWorker("worker-1", nil, testQueueConfig(), nil),
		},
	}
	p.workers[0].setWorking(7)

	// Health() queries the DB for queue depth; with a nil client that
	// query would panic, so this test exercises only the worker-stats
	// aggregation portion directly rather than calling Health().
	stats := make([]WorkerHealth, len(p.workers))
	active := 0
	for i, w := range p.workers {
		h := w.Health()
		stats[i] = h
		if h.Status == string(WorkerStatusWorking) {
			active++
		}
	}

	assert.Equal(t, 2, len(stats))
	assert.Equal(t, 1, active)
}
