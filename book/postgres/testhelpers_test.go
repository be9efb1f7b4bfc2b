//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
Test helpers backed by a real PostgreSQL container.
Reference: https://golang.testcontainers.org/modules/postgres/
*/

const (
	defaultDatabase = "testdb"
	defaultUser     = "testuser"
	defaultPassword = "testpass"
)

// PostgresContainer wraps the container and its connection string
type PostgresContainer struct {
	Container testcontainers.Container
	ConnStr   string
}

// SetupPostgresContainer starts a PostgreSQL container; tb may be a *testing.T or *testing.B
func SetupPostgresContainer(tb testing.TB, ctx context.Context) (*PostgresContainer, func()) {
	tb.Helper()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase(defaultDatabase),
		postgres.WithUsername(defaultUser),
		postgres.WithPassword(defaultPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(tb, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(tb, err)

	cleanup := func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			tb.Logf("failed to terminate postgres container: %v", err)
		}
	}

	return &PostgresContainer{
		Container: pgContainer,
		ConnStr:   connStr,
	}, cleanup
}

// CreateTestRepository opens a repository and makes sure the books table exists
func CreateTestRepository(tb testing.TB, ctx context.Context, connStr string) *Repository {
	tb.Helper()

	repo, err := NewRepository(connStr)
	require.NoError(tb, err)
	require.NoError(tb, repo.CreateTable(ctx))

	return repo
}

// AssertBookCount checks how many rows the books table holds
func AssertBookCount(tb testing.TB, ctx context.Context, repo *Repository, expected int) {
	tb.Helper()

	var count int
	err := repo.DB.GetContext(ctx, &count, "SELECT COUNT(*) FROM books")
	require.NoError(tb, err)
	require.Equal(tb, expected, count)
}
