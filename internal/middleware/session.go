// Package middleware provides the request-processing chain shared by
// the API handlers: session validation, role enforcement, login rate
// limiting, and read-response caching.
package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kward/rescue-animal-service/internal/auth"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "sessionId"

// Context keys set by SessionAuth for downstream middleware/handlers.
const (
	ContextKeySession = "session"
	ContextKeyUser    = "user"
)

// SessionAuth validates the session cookie on every request. Missing,
// unknown, or expired tokens get 401 before any handler runs; valid
// ones refresh the session's last-access time and stash both the
// session and the current user record in the request context.
func SessionAuth(sessions *auth.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := TokenFromCookie(c)
			s, u := sessions.Validate(c.Request().Context(), token)
			if s == nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Not authenticated"})
			}
			c.Set(ContextKeySession, s)
			c.Set(ContextKeyUser, u)
			return next(c)
		}
	}
}

// TokenFromCookie extracts the session token, returning "" when the
// cookie is absent.
func TokenFromCookie(c echo.Context) string {
	cookie, err := c.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
