package gateway

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTracker_BloqueioDentroDaJanela(t *testing.T) {
	tracker := NewFailureTracker(3 * time.Hour)
	base := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	tracker.now = func() time.Time { return base }

	assert.False(t, tracker.Blocked("@primario"))

	tracker.RecordFailure("@primario")
	assert.True(t, tracker.Blocked("@primario"))

	tracker.now = func() time.Time { return base.Add(2 * time.Hour) }
	assert.True(t, tracker.Blocked("@primario"))
}

func TestTracker_JanelaExpira(t *testing.T) {
	tracker := NewFailureTracker(3 * time.Hour)
	base := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	tracker.now = func() time.Time { return base }

	tracker.RecordFailure("@primario")

	tracker.now = func() time.Time { return base.Add(3*time.Hour + time.Second) }
	assert.False(t, tracker.Blocked("@primario"))

	// Entrada vencida foi removida: BlockedUntil não tem mais nada
	_, ok := tracker.BlockedUntil("@primario")
	assert.False(t, ok)
}

func TestTracker_BlockedUntil(t *testing.T) {
	tracker := NewFailureTracker(3 * time.Hour)
	base := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	tracker.now = func() time.Time { return base }

	tracker.RecordFailure("@primario")

	until, ok := tracker.BlockedUntil("@primario")
	assert.True(t, ok)
	assert.Equal(t, base.Add(3*time.Hour), until)
}

func TestTracker_Unblock(t *testing.T) {
	tracker := NewFailureTracker(3 * time.Hour)
	tracker.RecordFailure("@primario")
	assert.True(t, tracker.Blocked("@primario"))

	tracker.Unblock("@primario")
	assert.False(t, tracker.Blocked("@primario"))
}
