package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kward/rescue-animal-service/internal/model"
)

// RequireRole enforces a minimum role level on a route. It assumes
// SessionAuth already ran and stored the user in the context; a missing
// user is treated as insufficient. Roles are totally ordered, so the
// check is a single level comparison.
func RequireRole(min model.Role) echo.MiddlewareFunc {
	msg := min.DisplayName() + " access required"
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, _ := c.Get(ContextKeyUser).(*model.User)
			if !u.HasPermission(min) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": msg})
			}
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user stored by SessionAuth, or
// nil on routes where the middleware did not run.
func CurrentUser(c echo.Context) *model.User {
	u, _ := c.Get(ContextKeyUser).(*model.User)
	return u
}
