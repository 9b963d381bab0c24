package store

import "errors"

var (
	// ErrNotFound is returned when an operation addresses a target ID
	// with no persisted entry.
	ErrNotFound = errors.New("entry not found")
)
