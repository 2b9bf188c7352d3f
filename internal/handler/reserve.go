package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kward/rescue-animal-service/internal/model"
	"github.com/kward/rescue-animal-service/internal/repository"
)

// Reserve claims the first available animal of the requested type whose
// in-service country matches. "Available" means trained to in-service
// status and not already reserved.
func (h *AnimalHandler) Reserve(c echo.Context) error {
	typ, ok := model.ParseAnimalType(c.FormValue("animalType"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid animal type"})
	}
	country := strings.TrimSpace(c.FormValue("serviceCountry"))
	if country == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "serviceCountry is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	a, err := h.Animals.ReserveFirstAvailable(ctx, typ, country)
	if err != nil {
		if errors.Is(err, repository.ErrAnimalNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "No available animals found"})
		}
		c.Logger().Errorf("reserve: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Reservation failed"})
	}

	h.record(c, &a, model.ActivityReservation,
		fmt.Sprintf("Reserved for service in %s", country), a.Location)

	return c.JSON(http.StatusOK, echo.Map{"success": true, "name": a.Name, "type": string(a.Type)})
}

// CancelReservation releases a reserved animal back to the available
// pool.
func (h *AnimalHandler) CancelReservation(c echo.Context) error {
	name := strings.TrimSpace(c.QueryParam("name"))
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "name is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	a, err := h.Animals.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrAnimalNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Animal not found"})
		}
		c.Logger().Errorf("cancel reservation: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Cancellation failed"})
	}
	if !a.Reserved {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Animal is not reserved"})
	}

	if err := h.Animals.SetReserved(ctx, name, false); err != nil {
		c.Logger().Errorf("cancel reservation: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Cancellation failed"})
	}

	h.record(c, &a, model.ActivityReservationCancelled, "Reservation cancelled", a.Location)

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
