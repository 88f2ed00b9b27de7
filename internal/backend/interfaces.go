package backend

import (
	"context"

	"github.com/crashdash/crashdash/internal/domain/project"
	"github.com/crashdash/crashdash/internal/domain/user"
)

// Backend is the remote crash-alerting API as seen by this client. All
// business logic lives behind it; implementations are thin typed wrappers
// over HTTP with no retry or queuing.
type Backend interface {
	// Login exchanges credentials for a bearer token and the identity it
	// belongs to.
	Login(ctx context.Context, identifier, password string) (string, *user.User, error)
	// Signup registers a new account. It does not authenticate it: no
	// token is issued.
	Signup(ctx context.Context, name, identifier, password string) (*user.User, error)
	// CurrentUser resolves the identity behind the current bearer token.
	CurrentUser(ctx context.Context) (*user.User, error)

	CreateProject(ctx context.Context, req project.CreateRequest) (*project.Project, error)
	ListProjects(ctx context.Context, userID string) ([]project.Project, error)
	GetProject(ctx context.Context, id string) (*project.Project, error)
	UpdateProject(ctx context.Context, id string, upd project.Update) (*project.Project, error)
	DeleteProject(ctx context.Context, id string) error
	// RegenerateKey asks the server to issue a fresh API key; the old key
	// is invalid from that point (enforced server-side).
	RegenerateKey(ctx context.Context, id string) (*project.Project, error)
	// ReportAlert triggers a test alert, keyed by project key rather than
	// id. Each successful call increments the server-side count.
	ReportAlert(ctx context.Context, key string) error
}
