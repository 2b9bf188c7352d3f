package repository

import "errors"

// Sentinel errors surfaced to handlers so they can map failures to the
// right response without string matching.
var (
	ErrUserExists     = errors.New("username already exists")
	ErrUserNotFound   = errors.New("user not found")
	ErrAnimalExists   = errors.New("animal name already exists")
	ErrAnimalNotFound = errors.New("animal not found")
)
