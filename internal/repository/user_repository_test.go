package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kward/rescue-animal-service/internal/model"
	"github.com/kward/rescue-animal-service/internal/utils"
)

func TestUserCreateAndGet(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "hana", "sekret99", "Hana Cole", model.RoleStaff, bcrypt.MinCost))

	u, err := repo.GetByUsername(ctx, "hana")
	require.NoError(t, err)
	assert.Equal(t, "hana", u.Username)
	assert.Equal(t, "Hana Cole", u.FullName)
	assert.Equal(t, model.RoleStaff, u.Role)
	assert.True(t, u.Active)
	assert.Nil(t, u.LastLoginAt)
	assert.True(t, utils.VerifyPassword(u.PasswordHash, "sekret99"))

	_, err = repo.GetByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserCreateDuplicate(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "hana", "sekret99", "", model.RoleView, bcrypt.MinCost))
	err := repo.Create(ctx, "hana", "other", "", model.RoleView, bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestUserUpdates(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, "hana", "sekret99", "Hana", model.RoleView, bcrypt.MinCost))

	require.NoError(t, repo.UpdateRole(ctx, "hana", model.RoleAdmin))
	require.NoError(t, repo.UpdateActive(ctx, "hana", false))
	require.NoError(t, repo.UpdateFullName(ctx, "hana", "Hana Cole"))
	require.NoError(t, repo.UpdatePassword(ctx, "hana", "newsekret", bcrypt.MinCost))

	when := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.UpdateLastLogin(ctx, "hana", when))

	u, err := repo.GetByUsername(ctx, "hana")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, u.Role)
	assert.False(t, u.Active)
	assert.Equal(t, "Hana Cole", u.FullName)
	assert.True(t, utils.VerifyPassword(u.PasswordHash, "newsekret"))
	assert.False(t, utils.VerifyPassword(u.PasswordHash, "sekret99"))
	require.NotNil(t, u.LastLoginAt)
	assert.Equal(t, when.Unix(), u.LastLoginAt.Unix())
}

func TestUserUpdateMissing(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))
	ctx := context.Background()

	assert.ErrorIs(t, repo.UpdateRole(ctx, "ghost", model.RoleView), ErrUserNotFound)
	assert.ErrorIs(t, repo.UpdateActive(ctx, "ghost", true), ErrUserNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "ghost"), ErrUserNotFound)
}

func TestUserDelete(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, "hana", "sekret99", "", model.RoleView, bcrypt.MinCost))

	require.NoError(t, repo.Delete(ctx, "hana"))
	_, err := repo.GetByUsername(ctx, "hana")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestEnsureDefaultAdmin(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.EnsureDefaultAdmin(ctx, bcrypt.MinCost))

	admin, err := repo.GetByUsername(ctx, model.DefaultAdminUsername)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.Equal(t, "System Administrator", admin.FullName)
	assert.True(t, utils.VerifyPassword(admin.PasswordHash, "admin123"))

	// Idempotent on a seeded table.
	require.NoError(t, repo.EnsureDefaultAdmin(ctx, bcrypt.MinCost))
	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestEnsureDefaultAdminSkipsNonEmptyTable(t *testing.T) {
	repo := NewUserRepo(newTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, "hana", "sekret99", "", model.RoleView, bcrypt.MinCost))

	require.NoError(t, repo.EnsureDefaultAdmin(ctx, bcrypt.MinCost))
	_, err := repo.GetByUsername(ctx, model.DefaultAdminUsername)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
