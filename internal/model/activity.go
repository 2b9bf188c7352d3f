package model

import (
	"strings"
	"time"
)

// Activity types recorded in the append-only log.
const (
	ActivityIntake               = "INTAKE"
	ActivityUpdate               = "UPDATE"
	ActivityDeletion             = "DELETION"
	ActivityReservation          = "RESERVATION"
	ActivityReservationCancelled = "RESERVATION_CANCELLED"
	ActivityLocationUpdate       = "LOCATION_UPDATE"
)

// Activity is one append-only audit entry. Entries are never pruned or
// rewritten; the table only grows.
type Activity struct {
	ID           int64
	AnimalName   string
	AnimalType   string
	ActivityType string
	Description  string
	Location     string
	PerformedBy  string
	Timestamp    time.Time
}

// normalizeUpper trims whitespace and upper-cases the input; shared by
// the enum parsers in this package.
func normalizeUpper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
