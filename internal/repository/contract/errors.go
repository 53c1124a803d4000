package contract

import "errors"

var (
	// ErrNotFound is returned when no matching document exists.
	ErrNotFound = errors.New("repository: not found")

	// ErrRevisionConflict is returned when a compare-and-swap write misses
	// because the document moved on since it was read.
	ErrRevisionConflict = errors.New("repository: revision conflict")
)
