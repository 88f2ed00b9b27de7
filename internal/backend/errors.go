package backend

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when the backend rejects the current
	// credentials (missing, expired, or invalid token)
	ErrUnauthorized = errors.New("unauthorized")
)
