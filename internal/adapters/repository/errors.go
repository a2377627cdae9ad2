package repository

import "errors"

var (
	// ErrNotFound is returned when no document exists for the given name.
	ErrNotFound = errors.New("repository: entity not found")

	// ErrBadDocument is returned when a document on disk cannot be decoded.
	ErrBadDocument = errors.New("repository: malformed document")
)
