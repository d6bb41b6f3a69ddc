package postgres_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/aussiebroadwan/oauth20/internal/oauth/store"
	"github.com/aussiebroadwan/oauth20/internal/oauth/store/drivers/postgres"
	"github.com/aussiebroadwan/oauth20/internal/oauth/store/storetest"
)

var (
	containerOnce sync.Once
	containerDSN  string
	containerErr  error
)

// startPostgres runs one container for the whole package.
func startPostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container tests skipped in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	containerOnce.Do(func() {
		ctx := context.Background()
		req := testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "oauth",
				"POSTGRES_PASSWORD": "oauth",
				"POSTGRES_DB":       "oauth",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		}
		container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
		})
		if err != nil {
			containerErr = err
			return
		}

		host, err := container.Host(ctx)
		if err != nil {
			containerErr = err
			return
		}
		port, err := container.MappedPort(ctx, "5432")
		if err != nil {
			containerErr = err
			return
		}
		containerDSN = fmt.Sprintf("postgres://oauth:oauth@%s:%s/oauth?sslmode=disable", host, port.Port())
	})
	require.NoError(t, containerErr)
	return containerDSN
}

func newStore(t *testing.T) store.Store {
	t.Helper()
	dsn := startPostgres(t)
	ctx := context.Background()

	s, err := postgres.NewStore(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations(ctx))

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()
	_, err = pool.Exec(ctx, `TRUNCATE clients, scopes, authorization_codes, access_tokens, refresh_tokens, users`)
	require.NoError(t, err)

	return s
}

func TestPostgresStore(t *testing.T) {
	storetest.Run(t, newStore)
}
