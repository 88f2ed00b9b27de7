package api

import (
	"errors"
	"fmt"

	"github.com/crashdash/crashdash/internal/backend"
)

// Error is a non-2xx backend response. Message carries the backend's
// {"message": ...} body when present, so callers can display it unchanged.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// Is maps status codes onto the backend sentinel errors so callers can
// classify with errors.Is without knowing about HTTP.
func (e *Error) Is(target error) bool {
	switch target {
	case backend.ErrNotFound:
		return e.StatusCode == 404
	case backend.ErrUnauthorized:
		return e.StatusCode == 401 || e.StatusCode == 403
	}
	return false
}

// Message extracts a display message from err, falling back when the error
// carries none (transport failures, unexpected bodies).
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
