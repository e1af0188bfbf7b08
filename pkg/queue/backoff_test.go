package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffFor_DoublesPerRetry(t *testing.T) {
	base := 30 * time.Second
	max := 5 * time.Minute

	assert.Equal(t, 60*time.Second, backoffFor(1, base, max))
	assert.Equal(t, 120*time.Second, backoffFor(2, base, max))
	assert.Equal(t, 240*time.Second, backoffFor(3, base, max))
}

func TestBackoffFor_CapsAtMax(t *testing.T) {
	base := 30 * time.Second
	max := 5 * time.Minute

	assert.Equal(t, max, backoffFor(4, base, max))
	assert.Equal(t, max, backoffFor(10, base, max))
}

func TestBackoffFor_NegativeRetryCountTreatedAsZero(t *testing.T) {
	base := 30 * time.Second
	max := 5 * time.Minute

	assert.Equal(t, base, backoffFor(-1, base, max))
}
