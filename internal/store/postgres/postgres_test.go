package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/motoguard/motoguard/internal/store"
	"github.com/motoguard/motoguard/internal/store/storetest"
)

// startPostgres launches a throwaway Postgres container for the test run.
func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "motoguard",
			"POSTGRES_PASSWORD": "motoguard",
			"POSTGRES_DB":       "motoguard_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://motoguard:motoguard@%s:%s/motoguard_test?sslmode=disable", host, port.Port())
}

func TestPostgresStoreCompliance(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed store test in short mode")
	}

	dsn := startPostgres(t)
	db, err := Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, EnsureSchema(context.Background(), db))

	storetest.Run(t, func(t *testing.T) store.Store {
		// Each suite case gets clean tables in the shared container.
		ctx := context.Background()
		_, err := db.ExecContext(ctx, `TRUNCATE emergency_sessions, emergency_contacts`)
		require.NoError(t, err)
		return NewWithDB(db, 0, zerolog.Nop())
	})
}
