// Package auth owns the server-side session table and the login-attempt
// lockout bookkeeping. Sessions are opaque bearer tokens mapped to a
// user reference; they expire after an idle timeout and are cascade-
// invalidated when the owning account is downgraded, deactivated,
// password-reset, or deleted.
package auth

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/kward/rescue-animal-service/internal/model"
	"github.com/kward/rescue-animal-service/internal/utils"
)

// DefaultSessionTimeout is the idle period after which a session is
// considered expired. The background sweep runs on the same period.
const DefaultSessionTimeout = 30 * time.Minute

// ErrInvalidCredentials is returned for every login failure mode
// (unknown username, wrong password, inactive account, locked account)
// so responses cannot be used to enumerate users.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserStore is the slice of the user repository the session manager
// needs: credential lookup and last-login bookkeeping.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (model.User, error)
	UpdateLastLogin(ctx context.Context, username string, at time.Time) error
}

// Session maps an opaque token to its owning user for a bounded idle
// period. FullName is a display snapshot taken at login for the admin
// session listing.
type Session struct {
	Token      string
	Username   string
	FullName   string
	Created    time.Time
	LastAccess time.Time
}

// SessionInfo is the admin-facing view of an active session. The token
// is truncated so the listing cannot be replayed as a credential.
type SessionInfo struct {
	SessionID   string `json:"sessionId"`
	Username    string `json:"username"`
	FullName    string `json:"fullName"`
	CreatedTime int64  `json:"createdTime"`
	LastAccess  int64  `json:"lastAccess"`
}

// Manager is the session table plus its lockout table and sweeper. All
// state is in memory; restarting the process logs everyone out, which
// matches the bearer-token model (tokens resolve through lookup only).
type Manager struct {
	users   UserStore
	timeout time.Duration
	lockout *LockoutTable

	mu       sync.RWMutex
	sessions map[string]*Session

	done     chan struct{}
	stopOnce sync.Once
}

// NewManager builds a Manager over the given user store and starts the
// background sweep. The sweep period equals the idle timeout. Call
// Close to stop the sweeper.
func NewManager(users UserStore, timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = DefaultSessionTimeout
	}
	m := &Manager{
		users:    users,
		timeout:  timeout,
		lockout:  NewLockoutTable(),
		sessions: make(map[string]*Session),
		done:     make(chan struct{}),
	}
	go m.sweepLoop()
	return m
}

// Close stops the background sweep. Idempotent.
func (m *Manager) Close() {
	m.stopOnce.Do(func() { close(m.done) })
}

// Login authenticates a username/password pair and mints a new session.
// Every failure mode returns ErrInvalidCredentials; the specific reason
// is only logged server-side. A successful login clears the lockout
// tracker and records the last-login timestamp.
func (m *Manager) Login(ctx context.Context, username, password string) (*Session, error) {
	if username == "" || password == "" {
		m.recordFailure(username, "missing credentials")
		return nil, ErrInvalidCredentials
	}
	if m.lockout.IsLocked(username) {
		log.Printf("auth: login rejected, account locked: %s", username)
		return nil, ErrInvalidCredentials
	}

	u, err := m.users.GetByUsername(ctx, username)
	if err != nil || !u.Active || !utils.VerifyPassword(u.PasswordHash, password) {
		m.recordFailure(username, "invalid credentials")
		return nil, ErrInvalidCredentials
	}

	m.lockout.Clear(username)

	token, err := utils.NewSessionToken()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	s := &Session{
		Token:      token,
		Username:   u.Username,
		FullName:   u.FullName,
		Created:    now,
		LastAccess: now,
	}
	m.mu.Lock()
	m.sessions[token] = s
	m.mu.Unlock()

	if err := m.users.UpdateLastLogin(ctx, u.Username, now); err != nil {
		log.Printf("auth: record last login for %s: %v", u.Username, err)
	}
	log.Printf("auth: login ok: %s (%s) session=%s", u.Username, u.Role, truncateToken(token))
	return m.snapshot(s), nil
}

// Validate resolves a token to its session, evicting it when the token
// is unknown, idle past the timeout, or the owning user is gone or
// inactive. On success it refreshes the last-access time and returns
// the session together with the current user record.
func (m *Manager) Validate(ctx context.Context, token string) (*Session, *model.User) {
	if token == "" {
		return nil, nil
	}
	m.mu.Lock()
	s, ok := m.sessions[token]
	if ok && time.Since(s.LastAccess) > m.timeout {
		delete(m.sessions, token)
		ok = false
		log.Printf("auth: session expired: %s", truncateToken(token))
	}
	m.mu.Unlock()
	if !ok {
		return nil, nil
	}

	u, err := m.users.GetByUsername(ctx, s.Username)
	if err != nil || !u.Active {
		m.Logout(token)
		log.Printf("auth: session dropped, user inactive or missing: %s", truncateToken(token))
		return nil, nil
	}

	m.mu.Lock()
	s.LastAccess = time.Now()
	snap := *s
	m.mu.Unlock()
	return &snap, &u
}

// Logout removes a session unconditionally. Returns whether a session
// existed; calling it again is a no-op.
func (m *Manager) Logout(token string) bool {
	m.mu.Lock()
	s, ok := m.sessions[token]
	delete(m.sessions, token)
	m.mu.Unlock()
	if ok {
		log.Printf("auth: logout: %s session=%s", s.Username, truncateToken(token))
	}
	return ok
}

// InvalidateAllForUser drops every session owned by the username and
// returns the count. Called after role downgrade, deactivation,
// password reset/change, and account deletion.
func (m *Manager) InvalidateAllForUser(username string) int {
	m.mu.Lock()
	removed := 0
	for token, s := range m.sessions {
		if s.Username == username {
			delete(m.sessions, token)
			removed++
		}
	}
	m.mu.Unlock()
	if removed > 0 {
		log.Printf("auth: invalidated %d session(s) for %s", removed, username)
	}
	return removed
}

// ActiveSessions returns the admin listing of live sessions with
// truncated tokens and epoch-millisecond timestamps.
func (m *Manager) ActiveSessions() []SessionInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]SessionInfo, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, SessionInfo{
			SessionID:   truncateToken(s.Token),
			Username:    s.Username,
			FullName:    s.FullName,
			CreatedTime: s.Created.UnixMilli(),
			LastAccess:  s.LastAccess.UnixMilli(),
		})
	}
	return out
}

// ForceLogoutByPrefix kills the session whose truncated ID matches the
// prefix shown in the admin listing. Returns whether one was removed.
func (m *Manager) ForceLogoutByPrefix(prefix string) bool {
	if prefix == "" {
		return false
	}
	m.mu.Lock()
	var target string
	for token := range m.sessions {
		if strings.HasPrefix(token, prefix) {
			target = token
			break
		}
	}
	m.mu.Unlock()
	if target == "" {
		return false
	}
	return m.Logout(target)
}

// IsLocked exposes the lockout check, mainly for tests and diagnostics.
func (m *Manager) IsLocked(username string) bool {
	return m.lockout.IsLocked(username)
}

func (m *Manager) recordFailure(username, reason string) {
	if username == "" {
		return
	}
	n := m.lockout.RecordFailure(username)
	log.Printf("auth: failed login for %q: %s (attempt %d/%d)", username, reason, n, maxLoginAttempts)
}

func (m *Manager) snapshot(s *Session) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := *s
	return &snap
}

// sweepLoop evicts idle sessions and stale lockout trackers on a fixed
// period equal to the session timeout. It never touches request state,
// so request handling is not blocked beyond the table's own mutex.
func (m *Manager) sweepLoop() {
	ticker := time.NewTicker(m.timeout)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			if n := m.sweepExpired(); n > 0 {
				log.Printf("auth: swept %d expired session(s)", n)
			}
			if n := m.lockout.Purge(); n > 0 {
				log.Printf("auth: purged %d stale login tracker(s)", n)
			}
		}
	}
}

func (m *Manager) sweepExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for token, s := range m.sessions {
		if time.Since(s.LastAccess) > m.timeout {
			delete(m.sessions, token)
			removed++
		}
	}
	return removed
}

// truncateToken shortens a token for logs and admin listings.
func truncateToken(token string) string {
	if len(token) <= 8 {
		return token
	}
	return token[:8] + "..."
}
