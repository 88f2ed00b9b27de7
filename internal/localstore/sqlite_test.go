package localstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// NewTestStore creates an in-memory SQLite store for testing
func NewTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := OpenSQLite(":memory:")
	require.NoError(t, err, "failed to create test store")

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewTestStore(t)

	_, err := store.Get(ctx, "token")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "token", "abc123"))
	value, err := store.Get(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, "abc123", value)

	// Upsert replaces the prior value.
	require.NoError(t, store.Set(ctx, "token", "def456"))
	value, err = store.Get(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, "def456", value)
}

func TestSQLiteStore_DeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewTestStore(t)

	require.NoError(t, store.Set(ctx, "token", "abc123"))
	require.NoError(t, store.Delete(ctx, "token"))
	require.NoError(t, store.Delete(ctx, "token"))

	_, err := store.Get(ctx, "token")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "crashdash.db")

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "token", "persisted"))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, err := reopened.Get(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, "persisted", value)
}

func TestMemoryStore_MatchesSQLiteBehavior(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	_, err := store.Get(ctx, "token")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "token", "abc123"))
	value, err := store.Get(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, "abc123", value)

	require.NoError(t, store.Delete(ctx, "token"))
	_, err = store.Get(ctx, "token")
	require.ErrorIs(t, err, ErrNotFound)
}
