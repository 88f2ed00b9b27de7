package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/crashdash/crashdash/internal/backend"
	"github.com/crashdash/crashdash/internal/backend/mocks"
	"github.com/crashdash/crashdash/internal/domain/user"
	"github.com/crashdash/crashdash/internal/localstore"
	"github.com/crashdash/crashdash/internal/session"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, b backend.Backend) (*session.Store, *localstore.MemoryStore, *int) {
	t.Helper()
	storage := localstore.NewMemory()
	redirects := 0
	store := session.NewStore(b, storage, session.NavigatorFunc(func() {
		redirects++
	}), nil)
	return store, storage, &redirects
}

func TestInitialize_NoStoredToken(t *testing.T) {
	b := &mocks.Backend{}
	store, _, _ := newStore(t, b)

	require.Equal(t, session.StateUninitialized, store.State())
	require.True(t, store.Loading())

	store.Initialize(context.Background())
	require.Equal(t, session.StateReady, store.State())
	require.False(t, store.Loading())
	require.Nil(t, store.User())
	b.AssertNotCalled(t, "CurrentUser")
}

func TestInitialize_ValidStoredToken(t *testing.T) {
	ctx := context.Background()
	b := &mocks.Backend{}
	b.On("CurrentUser", ctx).Return(&user.User{ID: "u1", Identifier: "sam"}, nil)

	store, storage, _ := newStore(t, b)
	require.NoError(t, storage.Set(ctx, localstore.TokenKey, "tok-123"))

	store.Initialize(ctx)
	require.False(t, store.Loading())
	require.NotNil(t, store.User())
	require.Equal(t, "u1", store.User().ID)

	// Token survives a successful check.
	token, err := storage.Get(ctx, localstore.TokenKey)
	require.NoError(t, err)
	require.Equal(t, "tok-123", token)
}

func TestInitialize_RejectedTokenIsPurged(t *testing.T) {
	ctx := context.Background()
	b := &mocks.Backend{}
	b.On("CurrentUser", ctx).Return(nil, backend.ErrUnauthorized)

	store, storage, _ := newStore(t, b)
	require.NoError(t, storage.Set(ctx, localstore.TokenKey, "stale"))

	store.Initialize(ctx)
	require.False(t, store.Loading())
	require.Nil(t, store.User())

	_, err := storage.Get(ctx, localstore.TokenKey)
	require.ErrorIs(t, err, localstore.ErrNotFound)
}

func TestInitialize_SecondCallIsNoop(t *testing.T) {
	ctx := context.Background()
	b := &mocks.Backend{}
	b.On("CurrentUser", ctx).Return(&user.User{ID: "u1"}, nil).Once()

	store, storage, _ := newStore(t, b)
	require.NoError(t, storage.Set(ctx, localstore.TokenKey, "tok"))

	store.Initialize(ctx)
	store.Initialize(ctx)
	b.AssertNumberOfCalls(t, "CurrentUser", 1)
}

func TestLogin_PersistsTokenAndSetsUser(t *testing.T) {
	ctx := context.Background()
	b := &mocks.Backend{}
	b.On("Login", ctx, "sam", "secret").Return("tok-999", &user.User{ID: "u1"}, nil)

	store, storage, _ := newStore(t, b)
	store.Initialize(ctx)

	require.NoError(t, store.Login(ctx, "sam", "secret"))
	require.NotNil(t, store.User())

	token, err := storage.Get(ctx, localstore.TokenKey)
	require.NoError(t, err)
	require.Equal(t, "tok-999", token)
}

func TestLogin_FailurePropagatesUnchanged(t *testing.T) {
	ctx := context.Background()
	wantErr := errors.New("Invalid credentials")
	b := &mocks.Backend{}
	b.On("Login", ctx, "sam", "wrong").Return("", nil, wantErr)

	store, storage, _ := newStore(t, b)
	store.Initialize(ctx)

	err := store.Login(ctx, "sam", "wrong")
	require.Same(t, wantErr, err)
	require.Nil(t, store.User())

	_, err = storage.Get(ctx, localstore.TokenKey)
	require.ErrorIs(t, err, localstore.ErrNotFound)
}

func TestSignup_DoesNotAuthenticate(t *testing.T) {
	ctx := context.Background()
	b := &mocks.Backend{}
	b.On("Signup", ctx, "Sam", "sam", "secret").Return(&user.User{ID: "u2"}, nil)

	store, storage, _ := newStore(t, b)
	store.Initialize(ctx)

	u, err := store.Signup(ctx, "Sam", "sam", "secret")
	require.NoError(t, err)
	require.Equal(t, "u2", u.ID)
	require.Nil(t, store.User())

	_, err = storage.Get(ctx, localstore.TokenKey)
	require.ErrorIs(t, err, localstore.ErrNotFound)
}

func TestLogout_ClearsEverythingRegardlessOfPriorState(t *testing.T) {
	ctx := context.Background()
	b := &mocks.Backend{}
	b.On("CurrentUser", ctx).Return(&user.User{ID: "u1"}, nil)

	store, storage, redirects := newStore(t, b)
	require.NoError(t, storage.Set(ctx, localstore.TokenKey, "tok"))
	store.Initialize(ctx)
	require.NotNil(t, store.User())

	store.Logout()
	require.Nil(t, store.User())
	require.Equal(t, 1, *redirects)
	_, err := storage.Get(ctx, localstore.TokenKey)
	require.ErrorIs(t, err, localstore.ErrNotFound)

	// Logging out while already logged out stays clean.
	store.Logout()
	require.Nil(t, store.User())
	require.Equal(t, 2, *redirects)
}
