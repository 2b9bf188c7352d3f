// Package handler contains the Echo HTTP handlers. Each handler struct
// bundles the dependencies its endpoints need; wiring happens in the
// router package.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kward/rescue-animal-service/internal/auth"
	"github.com/kward/rescue-animal-service/internal/config"
	"github.com/kward/rescue-animal-service/internal/middleware"
	"github.com/kward/rescue-animal-service/internal/model"
	"github.com/kward/rescue-animal-service/internal/repository"
)

const dbTimeout = 5 * time.Second

// AuthHandler serves login, logout, registration and the current-user
// probe.
type AuthHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Sessions *auth.Manager
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, s *auth.Manager) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Sessions: s}
}

// Login authenticates form credentials and issues the session cookie.
// Every failure mode gets the same generic 401 body.
func (h *AuthHandler) Login(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	s, err := h.Sessions.Login(ctx, username, password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			c.Logger().Errorf("login: %v", err)
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "Invalid credentials"})
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    s.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, echo.Map{"success": true, "redirect": "/dashboard.html"})
}

// Logout drops the caller's session, if any, and clears the cookie.
// Always succeeds.
func (h *AuthHandler) Logout(c echo.Context) error {
	if token := middleware.TokenFromCookie(c); token != "" {
		h.Sessions.Logout(token)
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	return c.JSON(http.StatusOK, echo.Map{"success": true, "redirect": "/index.html"})
}

// Register creates a read-only account. Elevated roles are granted later
// by an admin through the user-management endpoints.
func (h *AuthHandler) Register(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")
	fullName := strings.TrimSpace(c.FormValue("fullName"))

	if username == "" || password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Username and password are required"})
	}
	if len(password) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Password must be at least 6 characters"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	err := h.Users.Create(ctx, username, password, fullName, model.RoleView, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Username already exists"})
		}
		c.Logger().Errorf("register: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Registration failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Me reports the authenticated user behind the cookie.
func (h *AuthHandler) Me(c echo.Context) error {
	u := middleware.CurrentUser(c)
	if u == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Not authenticated"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"username": u.Username,
		"fullName": u.FullName,
		"role":     string(u.Role),
	})
}
