// Package router wires handlers, middleware and route groups onto an
// Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/kward/rescue-animal-service/internal/auth"
	"github.com/kward/rescue-animal-service/internal/config"
	"github.com/kward/rescue-animal-service/internal/handler"
	"github.com/kward/rescue-animal-service/internal/middleware"
	"github.com/kward/rescue-animal-service/internal/model"
)

// Deps carries everything route registration needs. Redis may be nil;
// the rate-limit and cache middleware degrade to passthrough.
type Deps struct {
	Auth     *handler.AuthHandler
	Animals  *handler.AnimalHandler
	Users    *handler.UserHandler
	Monitor  *handler.MonitorHandler
	Sessions *auth.Manager

	Redis     *redis.Client
	RateLimit config.RateLimitConfig
	Cache     config.CacheConfig
}

// Register mounts every route. Login, logout and register stay outside
// the session group; everything else under /api requires a valid
// session cookie, with per-route role minimums on top.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	e.POST("/api/login", d.Auth.Login, middleware.LoginRateLimit(d.RateLimit, d.Redis))
	e.POST("/api/logout", d.Auth.Logout)
	e.POST("/api/register", d.Auth.Register)

	api := e.Group("/api", middleware.SessionAuth(d.Sessions))

	api.GET("/user", d.Auth.Me)

	cached := middleware.ResponseCache(d.Cache, d.Redis)
	api.GET("/animals", d.Animals.List, cached)
	api.POST("/animals", d.Animals.Create, middleware.RequireRole(model.RoleStaff))
	api.PUT("/animals", d.Animals.Update, middleware.RequireRole(model.RoleStaff))
	api.DELETE("/animals", d.Animals.Delete, middleware.RequireRole(model.RoleAdmin))

	api.POST("/reserve", d.Animals.Reserve, middleware.RequireRole(model.RoleStaff))
	api.DELETE("/reserve", d.Animals.CancelReservation, middleware.RequireRole(model.RoleStaff))

	api.GET("/activities", d.Monitor.ListActivities, middleware.RequireRole(model.RoleMonitor), cached)

	admin := middleware.RequireRole(model.RoleAdmin)
	api.GET("/users", d.Users.List, admin)
	api.POST("/users", d.Users.Create, admin)
	api.DELETE("/users", d.Users.Delete, admin)
	api.PUT("/users/role", d.Users.UpdateRole, admin)
	api.PUT("/users/status", d.Users.UpdateStatus, admin)
	api.PUT("/users/fullname", d.Users.UpdateFullName, admin)
	// Password changes are self-service too; the handler enforces the
	// admin check for resets of other accounts.
	api.PUT("/users/password", d.Users.UpdatePassword)

	api.GET("/sessions", d.Monitor.ListSessions, admin)
	api.DELETE("/sessions", d.Monitor.ForceLogout, admin)
}
