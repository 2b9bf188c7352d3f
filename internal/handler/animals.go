package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kward/rescue-animal-service/internal/middleware"
	"github.com/kward/rescue-animal-service/internal/model"
	"github.com/kward/rescue-animal-service/internal/repository"
	"github.com/kward/rescue-animal-service/internal/service"
)

// AnimalHandler serves the roster listing and the staff/admin mutations
// on individual animals.
type AnimalHandler struct {
	Animals *repository.AnimalRepo
	Monitor *service.Monitor
}

func NewAnimalHandler(a *repository.AnimalRepo, m *service.Monitor) *AnimalHandler {
	return &AnimalHandler{Animals: a, Monitor: m}
}

// ----- roster JSON shapes -----

type animalShared struct {
	Name               string `json:"name"`
	Gender             string `json:"gender"`
	Age                string `json:"age"`
	Weight             string `json:"weight"`
	AcquisitionDate    string `json:"acquisitionDate"`
	AcquisitionCountry string `json:"acquisitionCountry"`
	TrainingStatus     string `json:"trainingStatus"`
	Reserved           bool   `json:"reserved"`
	InServiceCountry   string `json:"inServiceCountry"`
	Location           string `json:"location"`
}

type dogJSON struct {
	animalShared
	Breed string `json:"breed"`
}

type monkeyJSON struct {
	animalShared
	Species    string `json:"species"`
	TailLength string `json:"tailLength"`
	Height     string `json:"height"`
	BodyLength string `json:"bodyLength"`
}

type catJSON struct {
	animalShared
	Breed     string `json:"breed"`
	CoatColor string `json:"coatColor"`
	Declawed  bool   `json:"declawed"`
}

type birdJSON struct {
	animalShared
	Species  string `json:"species"`
	Wingspan string `json:"wingspan"`
	CanFly   bool   `json:"canFly"`
	BeakType string `json:"beakType"`
}

type rabbitJSON struct {
	animalShared
	Breed         string `json:"breed"`
	FurColor      string `json:"furColor"`
	EarType       string `json:"earType"`
	LitterTrained bool   `json:"litterTrained"`
}

func sharedFields(a *model.Animal) animalShared {
	return animalShared{
		Name:               a.Name,
		Gender:             a.Gender,
		Age:                a.Age,
		Weight:             a.Weight,
		AcquisitionDate:    a.AcquisitionDate,
		AcquisitionCountry: a.AcquisitionCountry,
		TrainingStatus:     a.TrainingStatus,
		Reserved:           a.Reserved,
		InServiceCountry:   a.InServiceCountry,
		Location:           a.Location,
	}
}

// List returns every animal grouped by species plus roster-wide counts.
// Slices are pre-allocated empty so absent species serialize as [] and
// not null.
func (h *AnimalHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	animals, err := h.Animals.ListAll(ctx)
	if err != nil {
		c.Logger().Errorf("animals list: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to load animals"})
	}
	stats, err := h.Animals.Stats(ctx)
	if err != nil {
		c.Logger().Errorf("animals stats: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to load animals"})
	}

	dogs := []dogJSON{}
	monkeys := []monkeyJSON{}
	cats := []catJSON{}
	birds := []birdJSON{}
	rabbits := []rabbitJSON{}

	for i := range animals {
		a := &animals[i]
		switch a.Type {
		case model.TypeDog:
			dogs = append(dogs, dogJSON{sharedFields(a), a.Breed})
		case model.TypeMonkey:
			monkeys = append(monkeys, monkeyJSON{sharedFields(a), a.Species, a.TailLength, a.Height, a.BodyLength})
		case model.TypeCat:
			cats = append(cats, catJSON{sharedFields(a), a.Breed, a.CoatColor, a.Declawed})
		case model.TypeBird:
			birds = append(birds, birdJSON{sharedFields(a), a.Species, a.Wingspan, a.CanFly, a.BeakType})
		case model.TypeRabbit:
			rabbits = append(rabbits, rabbitJSON{sharedFields(a), a.Breed, a.FurColor, a.EarType, a.LitterTrained})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"dogs":    dogs,
		"monkeys": monkeys,
		"cats":    cats,
		"birds":   birds,
		"rabbits": rabbits,
		"stats":   stats,
	})
}

// Create intakes a new animal from form fields and records an INTAKE
// activity at its initial location.
func (h *AnimalHandler) Create(c echo.Context) error {
	typ, ok := model.ParseAnimalType(c.FormValue("type"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid animal type"})
	}
	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Name is required"})
	}

	a := model.Animal{
		Type:               typ,
		Name:               name,
		Gender:             c.FormValue("gender"),
		Age:                c.FormValue("age"),
		Weight:             c.FormValue("weight"),
		AcquisitionDate:    c.FormValue("acquisitionDate"),
		AcquisitionCountry: c.FormValue("acquisitionCountry"),
		TrainingStatus:     c.FormValue("trainingStatus"),
		InServiceCountry:   c.FormValue("inServiceCountry"),
		Location:           c.FormValue("location"),

		Breed:         c.FormValue("breed"),
		Species:       c.FormValue("species"),
		TailLength:    c.FormValue("tailLength"),
		Height:        c.FormValue("height"),
		BodyLength:    c.FormValue("bodyLength"),
		CoatColor:     c.FormValue("coatColor"),
		Declawed:      formBool(c, "declawed"),
		Wingspan:      c.FormValue("wingspan"),
		CanFly:        formBool(c, "canFly"),
		BeakType:      c.FormValue("beakType"),
		FurColor:      c.FormValue("furColor"),
		EarType:       c.FormValue("earType"),
		LitterTrained: formBool(c, "litterTrained"),
	}
	if a.TrainingStatus == "" {
		a.TrainingStatus = "intake"
	}
	if a.Location == "" {
		a.Location = "Intake Facility"
	}
	if u := middleware.CurrentUser(c); u != nil {
		a.AddedBy = u.Username
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Animals.Create(ctx, &a); err != nil {
		if errors.Is(err, repository.ErrAnimalExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Animal with this name already exists"})
		}
		c.Logger().Errorf("animal create: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to add animal"})
	}

	h.record(c, &a, model.ActivityIntake,
		fmt.Sprintf("New %s added to system", strings.ToLower(string(a.Type))), a.Location)

	return c.JSON(http.StatusOK, echo.Map{"success": true, "name": a.Name})
}

// Update edits the mutable fields of an existing animal, addressed by
// its original name. A location change is recorded separately so the
// activity log tracks movement history.
func (h *AnimalHandler) Update(c echo.Context) error {
	originalName := strings.TrimSpace(c.FormValue("originalName"))
	if originalName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "originalName is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	a, err := h.Animals.GetByName(ctx, originalName)
	if err != nil {
		if errors.Is(err, repository.ErrAnimalNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Animal not found"})
		}
		c.Logger().Errorf("animal update: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to update animal"})
	}

	oldLocation := a.Location
	if v := strings.TrimSpace(c.FormValue("name")); v != "" {
		a.Name = v
	}
	if v := c.FormValue("gender"); v != "" {
		a.Gender = v
	}
	if v := c.FormValue("age"); v != "" {
		a.Age = v
	}
	if v := c.FormValue("weight"); v != "" {
		a.Weight = v
	}
	if v := c.FormValue("trainingStatus"); v != "" {
		a.TrainingStatus = v
	}
	if v := c.FormValue("reserved"); v != "" {
		a.Reserved = v == "true" || v == "on" || v == "1"
	}
	newLocation := strings.TrimSpace(c.FormValue("location"))
	if newLocation != "" {
		a.Location = newLocation
	}

	if err := h.Animals.Update(ctx, originalName, &a); err != nil {
		if errors.Is(err, repository.ErrAnimalExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Animal with this name already exists"})
		}
		c.Logger().Errorf("animal update: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to update animal"})
	}

	h.record(c, &a, model.ActivityUpdate, "Animal information updated", a.Location)
	if newLocation != "" && !strings.EqualFold(newLocation, oldLocation) {
		h.record(c, &a, model.ActivityLocationUpdate,
			fmt.Sprintf("Moved from %s to %s", oldLocation, newLocation), newLocation)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Delete removes an animal permanently. The DELETION entry survives in
// the activity log as the only trace of the record.
func (h *AnimalHandler) Delete(c echo.Context) error {
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
		c.Logger().Errorf("animal delete: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to delete animal"})
	}

	if err := h.Animals.Delete(ctx, name); err != nil {
		c.Logger().Errorf("animal delete: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to delete animal"})
	}

	h.record(c, &a, model.ActivityDeletion, "Animal removed from system", "System")

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// record appends an activity entry for the given animal. Failures are
// logged and swallowed; the primary mutation already succeeded.
func (h *AnimalHandler) record(c echo.Context, a *model.Animal, activityType, description, location string) {
	performedBy := ""
	if u := middleware.CurrentUser(c); u != nil {
		performedBy = u.Username
	}
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()
	err := h.Monitor.Record(ctx, &model.Activity{
		AnimalName:   a.Name,
		AnimalType:   string(a.Type),
		ActivityType: activityType,
		Description:  description,
		Location:     location,
		PerformedBy:  performedBy,
	})
	if err != nil {
		c.Logger().Errorf("record activity: %v", err)
	}
}

func formBool(c echo.Context, field string) bool {
	switch strings.ToLower(c.FormValue(field)) {
	case "true", "on", "1", "yes":
		return true
	}
	return false
}
