package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/oauth20/internal/oauth/store"
	"github.com/aussiebroadwan/oauth20/internal/oauth/store/drivers/sqlite"
	"github.com/aussiebroadwan/oauth20/internal/oauth/store/storetest"
)

func newStore(t *testing.T) store.Store {
	t.Helper()
	s, err := sqlite.NewStore(filepath.Join(t.TempDir(), "oauth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations(context.Background()))
	return s
}

func TestSQLiteStore(t *testing.T) {
	storetest.Run(t, newStore)
}

func TestSQLiteStore_InMemory(t *testing.T) {
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.ApplyMigrations(ctx))
	require.NoError(t, s.Scopes().CreateScope(ctx, storetest.NewScope("basic")))

	_, err = s.Scopes().FindScope(ctx, "basic")
	require.NoError(t, err)
}

func TestSQLiteStore_ApplyMigrationsIdempotent(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.ApplyMigrations(context.Background()))
}
