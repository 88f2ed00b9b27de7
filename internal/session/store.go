// Package session owns process-wide authentication state: the current
// user, the init lifecycle, and the persisted credential token. It is the
// single writer of that state; views only read it.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/crashdash/crashdash/internal/backend"
	"github.com/crashdash/crashdash/internal/domain/user"
	"github.com/crashdash/crashdash/internal/localstore"
)

// State is the init lifecycle: uninitialized -> loading -> ready.
// Ready covers both authenticated and anonymous outcomes.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
)

// Navigator is notified when the session demands a view change.
type Navigator interface {
	NavigateToLogin()
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func()

func (f NavigatorFunc) NavigateToLogin() { f() }

// Store holds authentication state for the life of the process.
type Store struct {
	backend backend.Backend
	storage localstore.Store
	nav     Navigator
	logger  *slog.Logger

	mu    sync.RWMutex
	state State
	user  *user.User
}

// NewStore creates a session store. It starts uninitialized; call
// Initialize once at application start.
func NewStore(b backend.Backend, storage localstore.Store, nav Navigator, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		backend: b,
		storage: storage,
		nav:     nav,
		logger:  logger,
		state:   StateUninitialized,
	}
}

// Initialize resolves the persisted credential token, if any, into a
// current user. A stored token the backend rejects is purged. It always
// terminates in the ready state and never retries; calling it again after
// the first run is a no-op.
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	if s.state != StateUninitialized {
		s.mu.Unlock()
		return
	}
	s.state = StateLoading
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.state = StateReady
		s.mu.Unlock()
	}()

	token, err := s.storage.Get(ctx, localstore.TokenKey)
	if errors.Is(err, localstore.ErrNotFound) {
		return
	}
	if err != nil {
		s.logger.Error("failed to read stored token", "error", err)
		return
	}
	if token == "" {
		return
	}

	u, err := s.backend.CurrentUser(ctx)
	if err != nil {
		// Any failure, auth or transport, downgrades to logged-out.
		s.logger.Info("stored token rejected, purging", "error", err)
		s.purgeToken()
		return
	}

	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
}

// Login authenticates, persists the returned token, and sets the user.
// The backend's error propagates unchanged so callers can display its
// message; nothing is stored on failure.
func (s *Store) Login(ctx context.Context, identifier, secret string) error {
	token, u, err := s.backend.Login(ctx, identifier, secret)
	if err != nil {
		return err
	}

	if err := s.storage.Set(ctx, localstore.TokenKey, token); err != nil {
		return fmt.Errorf("persist credential token: %w", err)
	}

	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
	return nil
}

// Signup registers a new account. It does not authenticate it: no token
// is stored and no user is set. The caller navigates to login separately.
func (s *Store) Signup(ctx context.Context, name, identifier, secret string) (*user.User, error) {
	return s.backend.Signup(ctx, name, identifier, secret)
}

// Logout purges the stored token, clears the user, and navigates to the
// login view. It cannot fail; a storage error is logged and swallowed.
func (s *Store) Logout() {
	s.purgeToken()

	s.mu.Lock()
	s.user = nil
	s.state = StateReady
	s.mu.Unlock()

	s.nav.NavigateToLogin()
}

// User returns the current identity, or nil when unauthenticated.
func (s *Store) User() *user.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Loading reports whether the initial credential check is still pending.
// Views must not redirect to login while this is true.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state != StateReady
}

// State returns the init lifecycle state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) purgeToken() {
	if err := s.storage.Delete(context.Background(), localstore.TokenKey); err != nil {
		s.logger.Error("failed to purge stored token", "error", err)
	}
}
