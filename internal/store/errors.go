package store

import "errors"

var (
	// ErrNotFound indicates that no document exists for the requested identifier.
	ErrNotFound = errors.New("store: document not found")
	// ErrVersionRange indicates a version number outside 1..version_count.
	ErrVersionRange = errors.New("store: version out of range")
	// ErrStorage indicates an I/O failure or corrupt on-disk state.
	ErrStorage = errors.New("store: storage failure")
	// ErrInvalidName indicates an empty or whitespace-only document name.
	ErrInvalidName = errors.New("store: invalid document name")
)
