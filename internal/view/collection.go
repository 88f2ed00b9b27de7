package view

import (
	"context"
	"log/slog"
	"sync"

	"github.com/crashdash/crashdash/internal/backend"
	"github.com/crashdash/crashdash/internal/domain/project"
	"github.com/crashdash/crashdash/internal/syncpolicy"
)

// CollectionView fetches and holds the current user's project list. It
// has no durable cache: every mount refetches, and creation triggers a
// full refetch because the server owns count and key.
type CollectionView struct {
	backend backend.Backend
	session Session
	nav     Navigator
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	projects []project.Project
	fetching bool
	fetched  bool
}

// NewCollectionView creates an unmounted collection view.
func NewCollectionView(b backend.Backend, s Session, nav Navigator, logger *slog.Logger) *CollectionView {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CollectionView{
		backend: b,
		session: s,
		nav:     nav,
		logger:  logger,
	}
}

// Mount scopes the view's requests to ctx and resolves the session guard.
func (v *CollectionView) Mount(ctx context.Context) {
	v.ctx, v.cancel = context.WithCancel(ctx)
	v.Sync()
}

// Unmount cancels any in-flight request so a late response can never
// touch a dead view.
func (v *CollectionView) Unmount() {
	if v.cancel != nil {
		v.cancel()
	}
}

// Sync re-evaluates the session guard. While the initial credential check
// is pending the view stays put; it must not bounce a user whose identity
// check has not resolved yet. An anonymous ready session redirects to
// login. An authenticated one fetches the list once.
func (v *CollectionView) Sync() {
	if v.session.Loading() {
		return
	}
	u := v.session.User()
	if u == nil {
		v.nav.NavigateToLogin()
		return
	}

	v.mu.Lock()
	alreadyFetched := v.fetched
	v.mu.Unlock()
	if !alreadyFetched {
		v.fetch(u.ID)
	}
}

// Refresh refetches the list from the server.
func (v *CollectionView) Refresh() {
	u := v.session.User()
	if u == nil {
		return
	}
	v.fetch(u.ID)
}

func (v *CollectionView) fetch(userID string) {
	v.mu.Lock()
	v.fetching = true
	v.mu.Unlock()

	projects, err := v.backend.ListProjects(v.ctx, userID)
	if err != nil {
		// Best-effort fetch: log and degrade to an empty list.
		v.logger.Error("failed to fetch projects", "user_id", userID, "error", err)
		projects = nil
	}

	v.mu.Lock()
	v.projects = projects
	v.fetching = false
	v.fetched = true
	v.mu.Unlock()
}

// CreateProject validates inputs, creates the project, then refetches the
// whole list rather than inserting locally (syncpolicy: Refetch).
func (v *CollectionView) CreateProject(req project.CreateRequest) (*project.Project, error) {
	if err := project.ValidateCreate(req); err != nil {
		return nil, err
	}

	proj, err := v.backend.CreateProject(v.ctx, req)
	if err != nil {
		return nil, err
	}

	if syncpolicy.For(syncpolicy.CreateProject) == syncpolicy.Refetch {
		v.Refresh()
	}
	return proj, nil
}

// Projects returns the last fetched list.
func (v *CollectionView) Projects() []project.Project {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.projects
}

// LoadingProjects reports whether the list fetch is unresolved.
func (v *CollectionView) LoadingProjects() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.fetching || !v.fetched
}
