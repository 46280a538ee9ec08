package domain

import "errors"

var (
	// ErrSearchFormat signals a malformed free-text search query.
	ErrSearchFormat = errors.New("invalid search query")
	// ErrValidation signals an invalid filter, ordering or range parameter.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound signals a missing record.
	ErrNotFound = errors.New("not found")
)
