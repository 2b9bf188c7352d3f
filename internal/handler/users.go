package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kward/rescue-animal-service/internal/auth"
	"github.com/kward/rescue-animal-service/internal/config"
	"github.com/kward/rescue-animal-service/internal/middleware"
	"github.com/kward/rescue-animal-service/internal/model"
	"github.com/kward/rescue-animal-service/internal/repository"
	"github.com/kward/rescue-animal-service/internal/utils"
)

// UserHandler serves the admin user-management endpoints plus the
// self-service password change. Mutations that reduce a user's access
// (demotion, deactivation, password reset, deletion) also kill that
// user's live sessions.
type UserHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Sessions *auth.Manager
}

func NewUserHandler(cfg config.Config, u *repository.UserRepo, s *auth.Manager) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: u, Sessions: s}
}

type userJSON struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
}

// List returns every account.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		c.Logger().Errorf("users list: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to load users"})
	}

	out := make([]userJSON, 0, len(users))
	for _, u := range users {
		out = append(out, userJSON{
			Username: u.Username,
			FullName: u.FullName,
			Role:     string(u.Role),
			Active:   u.Active,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out})
}

// Create adds an account with an explicit role.
func (h *UserHandler) Create(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")
	fullName := strings.TrimSpace(c.FormValue("fullName"))

	if username == "" || password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Username and password are required"})
	}
	if len(password) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Password must be at least 6 characters"})
	}
	role, ok := model.ParseRole(c.FormValue("role"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid role"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Users.Create(ctx, username, password, fullName, role, h.Cfg.BcryptCost); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Username already exists"})
		}
		c.Logger().Errorf("user create: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to create user"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Delete removes an account and kills its sessions. Self-deletion and
// deleting the default admin are refused.
func (h *UserHandler) Delete(c echo.Context) error {
	username := strings.TrimSpace(c.QueryParam("username"))
	if username == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "username is required"})
	}
	if caller := middleware.CurrentUser(c); caller != nil && caller.Username == username {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Cannot delete your own account"})
	}
	if username == model.DefaultAdminUsername {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Cannot delete the default admin account"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Users.Delete(ctx, username); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "User not found"})
		}
		c.Logger().Errorf("user delete: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to delete user"})
	}

	h.Sessions.InvalidateAllForUser(username)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// UpdateRole changes an account's role. A downgrade invalidates the
// user's sessions so stale privileges die with them; an upgrade leaves
// sessions alone since the fresh role is read on every request anyway.
func (h *UserHandler) UpdateRole(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue("username"))
	role, ok := model.ParseRole(c.FormValue("role"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid role"})
	}
	if caller := middleware.CurrentUser(c); caller != nil && caller.Username == username {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Cannot change your own role"})
	}
	if username == model.DefaultAdminUsername && role != model.RoleAdmin {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Cannot demote the default admin account"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	current, err := h.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "User not found"})
		}
		c.Logger().Errorf("user role: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to update role"})
	}

	if err := h.Users.UpdateRole(ctx, username, role); err != nil {
		c.Logger().Errorf("user role: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to update role"})
	}

	if role.Level() < current.Role.Level() {
		h.Sessions.InvalidateAllForUser(username)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// UpdatePassword handles both flavors: an admin resetting another
// account, or any user changing their own password after proving the
// current one. Either way the account's sessions are invalidated.
func (h *UserHandler) UpdatePassword(c echo.Context) error {
	caller := middleware.CurrentUser(c)
	if caller == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Not authenticated"})
	}
	username := strings.TrimSpace(c.FormValue("username"))
	if username == "" {
		username = caller.Username
	}
	newPassword := c.FormValue("newPassword")
	if len(newPassword) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Password must be at least 6 characters"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if username == caller.Username {
		current, err := h.Users.GetByUsername(ctx, username)
		if err != nil {
			c.Logger().Errorf("password change: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to update password"})
		}
		if !utils.VerifyPassword(current.PasswordHash, c.FormValue("oldPassword")) {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Current password is incorrect"})
		}
	} else if !caller.HasPermission(model.RoleAdmin) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Admin access required"})
	}

	if err := h.Users.UpdatePassword(ctx, username, newPassword, h.Cfg.BcryptCost); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "User not found"})
		}
		c.Logger().Errorf("password update: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to update password"})
	}

	h.Sessions.InvalidateAllForUser(username)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Password updated, please log in again"})
}

// UpdateStatus activates or deactivates an account. Deactivation kills
// the account's sessions immediately.
func (h *UserHandler) UpdateStatus(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue("username"))
	if username == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "username is required"})
	}
	if caller := middleware.CurrentUser(c); caller != nil && caller.Username == username {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Cannot change your own status"})
	}
	active := c.FormValue("active") == "true"
	if username == model.DefaultAdminUsername && !active {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Cannot deactivate the default admin account"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Users.UpdateActive(ctx, username, active); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "User not found"})
		}
		c.Logger().Errorf("user status: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to update status"})
	}

	if !active {
		h.Sessions.InvalidateAllForUser(username)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// UpdateFullName edits an account's display name.
func (h *UserHandler) UpdateFullName(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue("username"))
	fullName := strings.TrimSpace(c.FormValue("fullName"))
	if username == "" || fullName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "username and fullName are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Users.UpdateFullName(ctx, username, fullName); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "User not found"})
		}
		c.Logger().Errorf("user fullname: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to update name"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
