package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kward/rescue-animal-service/internal/auth"
	"github.com/kward/rescue-animal-service/internal/repository"
)

// MonitorHandler serves the activity log and the admin session console.
type MonitorHandler struct {
	Activities *repository.ActivityRepo
	Sessions   *auth.Manager
}

func NewMonitorHandler(a *repository.ActivityRepo, s *auth.Manager) *MonitorHandler {
	return &MonitorHandler{Activities: a, Sessions: s}
}

type activityJSON struct {
	AnimalName   string `json:"animalName"`
	AnimalType   string `json:"animalType"`
	ActivityType string `json:"activityType"`
	Description  string `json:"description"`
	Location     string `json:"location"`
	PerformedBy  string `json:"performedBy"`
	Timestamp    string `json:"timestamp"`
}

// ListActivities returns the full audit trail in insertion order.
func (h *MonitorHandler) ListActivities(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	entries, err := h.Activities.List(ctx)
	if err != nil {
		c.Logger().Errorf("activities list: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to load activities"})
	}

	out := make([]activityJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, activityJSON{
			AnimalName:   e.AnimalName,
			AnimalType:   e.AnimalType,
			ActivityType: e.ActivityType,
			Description:  e.Description,
			Location:     e.Location,
			PerformedBy:  e.PerformedBy,
			Timestamp:    e.Timestamp.Format("2006-01-02 15:04:05"),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"activities": out})
}

// ListSessions returns the live session table. Tokens come back
// truncated; the full value never leaves the server.
func (h *MonitorHandler) ListSessions(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"sessions": h.Sessions.ActiveSessions()})
}

// ForceLogout kills one session by the truncated id shown in the
// session listing.
func (h *MonitorHandler) ForceLogout(c echo.Context) error {
	id := strings.TrimSuffix(strings.TrimSpace(c.QueryParam("sessionId")), "...")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "sessionId is required"})
	}
	if !h.Sessions.ForceLogoutByPrefix(id) {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Session not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
