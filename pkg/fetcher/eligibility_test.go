package fetcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/civicsync/ingest/pkg/models"
)

func TestEnqueueDecider_RequiresPacketOrItems(t *testing.T) {
	now := time.Now()
	assert.False(t, EnqueueDecider(false, now.AddDate(0, 0, 1), now, 180*24*time.Hour, 60*24*time.Hour, PriorProcessingState{}))
}

func TestEnqueueDecider_RejectsOutsideWindow(t *testing.T) {
	now := time.Now()
	tooFarFuture := now.AddDate(0, 0, 61)
	assert.False(t, EnqueueDecider(true, tooFarFuture, now, 180*24*time.Hour, 60*24*time.Hour, PriorProcessingState{}))

	tooFarPast := now.AddDate(0, 0, -181)
	assert.False(t, EnqueueDecider(true, tooFarPast, now, 180*24*time.Hour, 60*24*time.Hour, PriorProcessingState{}))
}

func TestEnqueueDecider_FirstSyncAlwaysEnqueues(t *testing.T) {
	now := time.Now()
	assert.True(t, EnqueueDecider(true, now.AddDate(0, 0, 4), now, 180*24*time.Hour, 60*24*time.Hour, PriorProcessingState{HasCompletedJob: false}))
}

func TestEnqueueDecider_CompletedWithNoChangesSkips(t *testing.T) {
	now := time.Now()
	prior := PriorProcessingState{HasCompletedJob: true, AnyItemMissingSummary: false, AttachmentFingerprintChanged: false}
	assert.False(t, EnqueueDecider(true, now.AddDate(0, 0, 4), now, 180*24*time.Hour, 60*24*time.Hour, prior))
}

func TestEnqueueDecider_AttachmentChangeReEnqueues(t *testing.T) {
	now := time.Now()
	prior := PriorProcessingState{HasCompletedJob: true, AttachmentFingerprintChanged: true}
	assert.True(t, EnqueueDecider(true, now.AddDate(0, 0, 4), now, 180*24*time.Hour, 60*24*time.Hour, prior))
}

func TestEnqueueDecider_MissingSummaryReEnqueues(t *testing.T) {
	now := time.Now()
	prior := PriorProcessingState{HasCompletedJob: true, AnyItemMissingSummary: true}
	assert.True(t, EnqueueDecider(true, now.AddDate(0, 0, 4), now, 180*24*time.Hour, 60*24*time.Hour, prior))
}

// A meeting whose start could not be parsed carries the zero time.Time,
// which falls outside any realistic cutoff window and so is never
// enqueued (spec.md's "start=null" boundary case) without needing a
// dedicated nil/zero check of its own.
func TestEnqueueDecider_ZeroStartNeverEnqueues(t *testing.T) {
	now := time.Now()
	assert.False(t, EnqueueDecider(true, time.Time{}, now, 180*24*time.Hour, 60*24*time.Hour, PriorProcessingState{}))
}

func TestValidateMeeting_MissingStartIsStoredNotRejected(t *testing.T) {
	m := models.Meeting{
		VendorID:  "123",
		Title:     "Regular Meeting",
		HasStart:  false,
		PacketURL: "https://example.com/packet.pdf",
	}
	assert.NoError(t, validateMeeting(m))
}
