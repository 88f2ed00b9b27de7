// Package view holds the state-binding controllers behind the dashboard
// screens. Views read session state, call the backend, and reconcile
// local state per the syncpolicy table; rendering lives elsewhere.
package view

import (
	"errors"

	"github.com/crashdash/crashdash/internal/domain/user"
)

// ErrBusy is returned when a mutating operation is already in flight.
// Disabling the triggering control is the only concurrency guard.
var ErrBusy = errors.New("operation already in flight")

// Session is the read-only slice of session state views consult.
type Session interface {
	User() *user.User
	Loading() bool
}

// Navigator redirects an unauthenticated view to the login screen.
type Navigator interface {
	NavigateToLogin()
}
