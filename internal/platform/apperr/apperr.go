// Package apperr holds the sentinel errors shared by the domain services.
// Services wrap them with %w and context; handlers translate them to HTTP
// status codes with errors.Is.
package apperr

import "errors"

var (
	// ErrNotFound signals that the addressed entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput signals a request the caller can fix.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict signals a uniqueness or state violation.
	ErrConflict = errors.New("conflict")
)
