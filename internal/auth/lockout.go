package auth

import (
	"sync"
	"time"
)

// Lockout policy. Five failures inside the lock window bar further
// login attempts until the window elapses; trackers idle for a full day
// are discarded by the periodic sweep.
const (
	maxLoginAttempts = 5
	lockoutWindow    = 15 * time.Minute
	trackerMaxIdle   = 24 * time.Hour
)

// loginTracker counts consecutive failed logins for one username.
type loginTracker struct {
	failures    int
	lastAttempt time.Time
}

// LockoutTable tracks failed login attempts per username. Trackers are
// created lazily on the first failure and cleared on a successful
// login. The table is safe for concurrent use.
type LockoutTable struct {
	mu       sync.Mutex
	trackers map[string]*loginTracker
	window   time.Duration
	maxIdle  time.Duration
}

// NewLockoutTable returns a table with the standard 15-minute lockout
// window and 24-hour tracker retention.
func NewLockoutTable() *LockoutTable {
	return &LockoutTable{
		trackers: make(map[string]*loginTracker),
		window:   lockoutWindow,
		maxIdle:  trackerMaxIdle,
	}
}

// RecordFailure notes one failed attempt for the username and returns
// the updated consecutive-failure count.
func (t *LockoutTable) RecordFailure(username string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	tr := t.trackers[username]
	if tr == nil {
		tr = &loginTracker{}
		t.trackers[username] = tr
	}
	tr.failures++
	tr.lastAttempt = time.Now()
	return tr.failures
}

// IsLocked reports whether the username is currently barred from
// logging in. Crossing the lockout boundary resets the failure count to
// zero as a side effect, so the next attempt is evaluated normally.
func (t *LockoutTable) IsLocked(username string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	tr := t.trackers[username]
	if tr == nil || tr.failures < maxLoginAttempts {
		return false
	}
	if time.Since(tr.lastAttempt) > t.window {
		tr.failures = 0
		return false
	}
	return true
}

// Clear drops the tracker for a username, typically after a successful
// login.
func (t *LockoutTable) Clear(username string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.trackers, username)
}

// Purge removes trackers with no activity for the retention period and
// returns how many were dropped. Called from the session sweep.
func (t *LockoutTable) Purge() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	removed := 0
	for username, tr := range t.trackers {
		if time.Since(tr.lastAttempt) > t.maxIdle {
			delete(t.trackers, username)
			removed++
		}
	}
	return removed
}
