package service

import "errors"

var (
	// ErrNotFound marks mutations against an id the store does not hold.
	// Lookups of a missing id are not errors; GetByID returns nil instead.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput marks validation failures raised before any store call.
	ErrInvalidInput = errors.New("invalid input")
)
