package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLockoutAfterMaxFailures(t *testing.T) {
	table := NewLockoutTable()

	for i := 0; i < maxLoginAttempts-1; i++ {
		table.RecordFailure("eve")
		assert.False(t, table.IsLocked("eve"), "not locked after %d failures", i+1)
	}
	table.RecordFailure("eve")
	assert.True(t, table.IsLocked("eve"))

	// Other accounts are unaffected.
	assert.False(t, table.IsLocked("alice"))
}

func TestLockoutWindowExpiry(t *testing.T) {
	table := NewLockoutTable()
	for i := 0; i < maxLoginAttempts; i++ {
		table.RecordFailure("eve")
	}
	assert.True(t, table.IsLocked("eve"))

	// Age the tracker past the window; the next check resets the count.
	table.mu.Lock()
	table.trackers["eve"].lastAttempt = time.Now().Add(-lockoutWindow - time.Minute)
	table.mu.Unlock()

	assert.False(t, table.IsLocked("eve"))
	table.mu.Lock()
	assert.Equal(t, 0, table.trackers["eve"].failures)
	table.mu.Unlock()
}

func TestLockoutClear(t *testing.T) {
	table := NewLockoutTable()
	for i := 0; i < maxLoginAttempts; i++ {
		table.RecordFailure("eve")
	}
	table.Clear("eve")
	assert.False(t, table.IsLocked("eve"))
}

func TestLockoutPurge(t *testing.T) {
	table := NewLockoutTable()
	table.RecordFailure("stale")
	table.RecordFailure("fresh")

	table.mu.Lock()
	table.trackers["stale"].lastAttempt = time.Now().Add(-trackerMaxIdle - time.Hour)
	table.mu.Unlock()

	assert.Equal(t, 1, table.Purge())

	table.mu.Lock()
	_, staleLeft := table.trackers["stale"]
	_, freshLeft := table.trackers["fresh"]
	table.mu.Unlock()
	assert.False(t, staleLeft)
	assert.True(t, freshLeft)
}
