package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kward/rescue-animal-service/internal/model"
	"github.com/kward/rescue-animal-service/internal/utils"
)

// fakeStore is an in-memory UserStore for manager tests.
type fakeStore struct {
	mu    sync.Mutex
	users map[string]model.User
}

func newFakeStore(t *testing.T, entries ...model.User) *fakeStore {
	t.Helper()
	s := &fakeStore{users: make(map[string]model.User)}
	for _, u := range entries {
		s.users[u.Username] = u
	}
	return s
}

func (s *fakeStore) GetByUsername(_ context.Context, username string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return model.User{}, context.Canceled // any non-nil error
	}
	return u, nil
}

func (s *fakeStore) UpdateLastLogin(_ context.Context, username string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[username]; ok {
		u.LastLoginAt = &at
		s.users[username] = u
	}
	return nil
}

func (s *fakeStore) set(u model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.Username] = u
}

func testUser(t *testing.T, username, password string, role model.Role, active bool) model.User {
	t.Helper()
	hash, err := utils.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	return model.User{
		Username:     username,
		PasswordHash: hash,
		FullName:     "Test " + username,
		Role:         role,
		Active:       active,
		CreatedAt:    time.Now(),
	}
}

func TestLoginAndValidate(t *testing.T) {
	store := newFakeStore(t, testUser(t, "carla", "sekret99", model.RoleStaff, true))
	m := NewManager(store, time.Minute)
	defer m.Close()

	s, err := m.Login(context.Background(), "carla", "sekret99")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Len(t, s.Token, 64)
	assert.Equal(t, "carla", s.Username)

	sess, u := m.Validate(context.Background(), s.Token)
	require.NotNil(t, sess)
	require.NotNil(t, u)
	assert.Equal(t, "carla", sess.Username)
	assert.Equal(t, model.RoleStaff, u.Role)

	// Last login got recorded through the store.
	got, err := store.GetByUsername(context.Background(), "carla")
	require.NoError(t, err)
	assert.NotNil(t, got.LastLoginAt)
}

func TestLoginFailures(t *testing.T) {
	store := newFakeStore(t,
		testUser(t, "carla", "sekret99", model.RoleStaff, true),
		testUser(t, "dormant", "sekret99", model.RoleView, false),
	)
	m := NewManager(store, time.Minute)
	defer m.Close()

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "carla", "nope"},
		{"unknown user", "ghost", "sekret99"},
		{"inactive user", "dormant", "sekret99"},
		{"empty username", "", "sekret99"},
		{"empty password", "carla", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := m.Login(context.Background(), tc.username, tc.password)
			assert.Nil(t, s)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestLockoutBlocksCorrectPassword(t *testing.T) {
	store := newFakeStore(t, testUser(t, "carla", "sekret99", model.RoleStaff, true))
	m := NewManager(store, time.Minute)
	defer m.Close()

	for i := 0; i < maxLoginAttempts; i++ {
		_, err := m.Login(context.Background(), "carla", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
	require.True(t, m.IsLocked("carla"))

	// The right password is rejected while locked.
	_, err := m.Login(context.Background(), "carla", "sekret99")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Age the tracker past the window and the same attempt succeeds.
	m.lockout.mu.Lock()
	m.lockout.trackers["carla"].lastAttempt = time.Now().Add(-lockoutWindow - time.Minute)
	m.lockout.mu.Unlock()

	s, err := m.Login(context.Background(), "carla", "sekret99")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.False(t, m.IsLocked("carla"))
}

func TestValidateExpiry(t *testing.T) {
	store := newFakeStore(t, testUser(t, "carla", "sekret99", model.RoleStaff, true))
	m := NewManager(store, 50*time.Millisecond)
	defer m.Close()

	s, err := m.Login(context.Background(), "carla", "sekret99")
	require.NoError(t, err)

	time.Sleep(80 * time.Millisecond)
	sess, u := m.Validate(context.Background(), s.Token)
	assert.Nil(t, sess)
	assert.Nil(t, u)
}

func TestValidateDropsDeactivatedUser(t *testing.T) {
	store := newFakeStore(t, testUser(t, "carla", "sekret99", model.RoleStaff, true))
	m := NewManager(store, time.Minute)
	defer m.Close()

	s, err := m.Login(context.Background(), "carla", "sekret99")
	require.NoError(t, err)

	u, _ := store.GetByUsername(context.Background(), "carla")
	u.Active = false
	store.set(u)

	sess, got := m.Validate(context.Background(), s.Token)
	assert.Nil(t, sess)
	assert.Nil(t, got)

	// The session is gone for good, even if the account comes back.
	u.Active = true
	store.set(u)
	sess, _ = m.Validate(context.Background(), s.Token)
	assert.Nil(t, sess)
}

func TestInvalidateAllForUser(t *testing.T) {
	store := newFakeStore(t,
		testUser(t, "carla", "sekret99", model.RoleStaff, true),
		testUser(t, "bob", "sekret99", model.RoleView, true),
	)
	m := NewManager(store, time.Minute)
	defer m.Close()

	s1, err := m.Login(context.Background(), "carla", "sekret99")
	require.NoError(t, err)
	s2, err := m.Login(context.Background(), "carla", "sekret99")
	require.NoError(t, err)
	s3, err := m.Login(context.Background(), "bob", "sekret99")
	require.NoError(t, err)

	assert.Equal(t, 2, m.InvalidateAllForUser("carla"))

	sess, _ := m.Validate(context.Background(), s1.Token)
	assert.Nil(t, sess)
	sess, _ = m.Validate(context.Background(), s2.Token)
	assert.Nil(t, sess)
	sess, _ = m.Validate(context.Background(), s3.Token)
	assert.NotNil(t, sess)
}

func TestLogoutIdempotent(t *testing.T) {
	store := newFakeStore(t, testUser(t, "carla", "sekret99", model.RoleStaff, true))
	m := NewManager(store, time.Minute)
	defer m.Close()

	s, err := m.Login(context.Background(), "carla", "sekret99")
	require.NoError(t, err)

	assert.True(t, m.Logout(s.Token))
	assert.False(t, m.Logout(s.Token))

	sess, _ := m.Validate(context.Background(), s.Token)
	assert.Nil(t, sess)
}

func TestActiveSessionsTruncatesTokens(t *testing.T) {
	store := newFakeStore(t, testUser(t, "carla", "sekret99", model.RoleStaff, true))
	m := NewManager(store, time.Minute)
	defer m.Close()

	s, err := m.Login(context.Background(), "carla", "sekret99")
	require.NoError(t, err)

	infos := m.ActiveSessions()
	require.Len(t, infos, 1)
	assert.Equal(t, s.Token[:8]+"...", infos[0].SessionID)
	assert.Equal(t, "carla", infos[0].Username)
	assert.NotContains(t, infos[0].SessionID, s.Token[8:])
}

func TestForceLogoutByPrefix(t *testing.T) {
	store := newFakeStore(t, testUser(t, "carla", "sekret99", model.RoleStaff, true))
	m := NewManager(store, time.Minute)
	defer m.Close()

	s, err := m.Login(context.Background(), "carla", "sekret99")
	require.NoError(t, err)

	assert.False(t, m.ForceLogoutByPrefix(""))
	assert.False(t, m.ForceLogoutByPrefix("ffffffff"))
	assert.True(t, m.ForceLogoutByPrefix(s.Token[:8]))

	sess, _ := m.Validate(context.Background(), s.Token)
	assert.Nil(t, sess)
}
