package repository

import (
	"context"
	"database/sql"
	"log"
	"strings"
	"time"

	"github.com/kward/rescue-animal-service/internal/model"
	"github.com/kward/rescue-animal-service/internal/utils"
)

// UserRepo persists users in the `users` table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "username, password_hash, full_name, role, active, created_at, last_login_at"

// Create inserts a new user. The password arrives in plaintext and is
// hashed here so callers never handle hashes directly.
func (r *UserRepo) Create(ctx context.Context, username, password, fullName string, role model.Role, cost int) error {
	username = strings.TrimSpace(username)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO users ("+userColumns+") VALUES (?,?,?,?,1,?,NULL)",
		username, hash, strings.TrimSpace(fullName), string(role), time.Now().UTC())
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return ErrUserExists
		}
		return err
	}
	return nil
}

// GetByUsername fetches a single user. Returns ErrUserNotFound when no
// row matches.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1", username)
	return scanUser(row)
}

// List returns every user ordered by username.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY username")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Delete removes a user permanently. Session cascade is the caller's
// responsibility.
func (r *UserRepo) Delete(ctx context.Context, username string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE username=?", username)
	if err != nil {
		return err
	}
	return requireRow(res, ErrUserNotFound)
}

// UpdateRole changes a user's role.
func (r *UserRepo) UpdateRole(ctx context.Context, username string, role model.Role) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET role=? WHERE username=?", string(role), username)
	if err != nil {
		return err
	}
	return requireRow(res, ErrUserNotFound)
}

// UpdatePassword replaces the stored hash with one for the new
// plaintext password.
func (r *UserRepo) UpdatePassword(ctx context.Context, username, newPassword string, cost int) error {
	hash, err := utils.HashPassword(newPassword, cost)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=? WHERE username=?", hash, username)
	if err != nil {
		return err
	}
	return requireRow(res, ErrUserNotFound)
}

// UpdateActive flips the active flag.
func (r *UserRepo) UpdateActive(ctx context.Context, username string, active bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET active=? WHERE username=?", active, username)
	if err != nil {
		return err
	}
	return requireRow(res, ErrUserNotFound)
}

// UpdateFullName changes the display name.
func (r *UserRepo) UpdateFullName(ctx context.Context, username, fullName string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET full_name=? WHERE username=?", strings.TrimSpace(fullName), username)
	if err != nil {
		return err
	}
	return requireRow(res, ErrUserNotFound)
}

// UpdateLastLogin records a successful login timestamp.
func (r *UserRepo) UpdateLastLogin(ctx context.Context, username string, at time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET last_login_at=? WHERE username=?", at.UTC(), username)
	return err
}

// EnsureDefaultAdmin seeds the distinguished admin account when the
// users table is empty, mirroring first-run behavior: admin/admin123.
func (r *UserRepo) EnsureDefaultAdmin(ctx context.Context, cost int) error {
	var n int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if err := r.Create(ctx, model.DefaultAdminUsername, "admin123", "System Administrator", model.RoleAdmin, cost); err != nil {
		return err
	}
	log.Printf("repository: default admin user created (username: admin, password: admin123)")
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (model.User, error) {
	var (
		u         model.User
		role      string
		lastLogin sql.NullTime
	)
	err := row.Scan(&u.Username, &u.PasswordHash, &u.FullName, &role, &u.Active, &u.CreatedAt, &lastLogin)
	if err == sql.ErrNoRows {
		return model.User{}, ErrUserNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	u.Role = model.Role(role)
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLoginAt = &t
	}
	return u, nil
}

// requireRow converts a zero-row update/delete into the given sentinel.
func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
