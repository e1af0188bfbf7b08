package fetcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPriority_FourDaysOut(t *testing.T) {
	now := time.Date(2025, 11, 6, 0, 0, 0, 0, time.UTC)
	start := now.AddDate(0, 0, 4)
	assert.Equal(t, 96, Priority(start, now))
}

func TestPriority_ClampsAtZeroForFarFuture(t *testing.T) {
	now := time.Date(2025, 11, 6, 0, 0, 0, 0, time.UTC)
	start := now.AddDate(0, 0, 365)
	assert.Equal(t, 0, Priority(start, now))
}

func TestPriority_PastMeetingGetsSmallPositivePriority(t *testing.T) {
	now := time.Date(2025, 11, 6, 0, 0, 0, 0, time.UTC)
	start := now.AddDate(0, 0, -10)
	assert.Equal(t, pastMeetingPriority, Priority(start, now))
}

func TestPriority_MeetingStartingNow(t *testing.T) {
	now := time.Date(2025, 11, 6, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, pastMeetingPriority, Priority(now, now))
}
