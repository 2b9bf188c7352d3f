package model

import (
	"strings"
	"time"
)

// AnimalType tags the species variant of an Animal record.
type AnimalType string

const (
	TypeDog    AnimalType = "Dog"
	TypeMonkey AnimalType = "Monkey"
	TypeCat    AnimalType = "Cat"
	TypeBird   AnimalType = "Bird"
	TypeRabbit AnimalType = "Rabbit"
)

// ParseAnimalType maps a case-insensitive species name ("dog", "Monkey")
// to its canonical tag.
func ParseAnimalType(s string) (AnimalType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dog":
		return TypeDog, true
	case "monkey":
		return TypeMonkey, true
	case "cat":
		return TypeCat, true
	case "bird":
		return TypeBird, true
	case "rabbit":
		return TypeRabbit, true
	}
	return "", false
}

// AllAnimalTypes lists every species tag in presentation order.
func AllAnimalTypes() []AnimalType {
	return []AnimalType{TypeDog, TypeMonkey, TypeCat, TypeBird, TypeRabbit}
}

// Animal is the flattened variant record backing the `animals` table.
// Shared fields apply to every species; the per-species fields below are
// meaningful only for the tagged Type and are zero-valued otherwise.
// Age and weight stay strings for compatibility with the form fields the
// clients submit.
type Animal struct {
	ID                 int64
	Type               AnimalType
	Name               string // unique, assigned once
	Gender             string
	Age                string
	Weight             string
	AcquisitionDate    string
	AcquisitionCountry string
	TrainingStatus     string
	Reserved           bool
	InServiceCountry   string
	Location           string
	AddedBy            string // username of the creating user
	CreatedAt          time.Time

	// Dog, Cat, Rabbit
	Breed string
	// Monkey, Bird
	Species string
	// Monkey
	TailLength string
	Height     string
	BodyLength string
	// Cat
	CoatColor string
	Declawed  bool
	// Bird
	Wingspan string
	CanFly   bool
	BeakType string
	// Rabbit
	FurColor      string
	EarType       string
	LitterTrained bool
}

// InService reports whether the animal has completed training, which is
// a precondition for reservations and for counting as "available".
func (a *Animal) InService() bool {
	return strings.EqualFold(a.TrainingStatus, "in service")
}

// Available means in service and not yet reserved.
func (a *Animal) Available() bool {
	return a.InService() && !a.Reserved
}

// AnimalStats aggregates shelter-wide counts for the list endpoint.
type AnimalStats struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Reserved  int `json:"reserved"`
	Training  int `json:"training"`
}
