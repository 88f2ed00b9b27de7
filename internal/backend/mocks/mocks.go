package mocks

import (
	"context"

	"github.com/crashdash/crashdash/internal/domain/project"
	"github.com/crashdash/crashdash/internal/domain/user"
	"github.com/stretchr/testify/mock"
)

// Backend is a mock for backend.Backend.
type Backend struct {
	mock.Mock
}

func (m *Backend) Login(ctx context.Context, identifier, password string) (string, *user.User, error) {
	args := m.Called(ctx, identifier, password)
	if u, ok := args.Get(1).(*user.User); ok {
		return args.String(0), u, args.Error(2)
	}
	return args.String(0), nil, args.Error(2)
}

func (m *Backend) Signup(ctx context.Context, name, identifier, password string) (*user.User, error) {
	args := m.Called(ctx, name, identifier, password)
	if u, ok := args.Get(0).(*user.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Backend) CurrentUser(ctx context.Context) (*user.User, error) {
	args := m.Called(ctx)
	if u, ok := args.Get(0).(*user.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Backend) CreateProject(ctx context.Context, req project.CreateRequest) (*project.Project, error) {
	args := m.Called(ctx, req)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Backend) ListProjects(ctx context.Context, userID string) ([]project.Project, error) {
	args := m.Called(ctx, userID)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Backend) GetProject(ctx context.Context, id string) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Backend) UpdateProject(ctx context.Context, id string, upd project.Update) (*project.Project, error) {
	args := m.Called(ctx, id, upd)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Backend) DeleteProject(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Backend) RegenerateKey(ctx context.Context, id string) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Backend) ReportAlert(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
