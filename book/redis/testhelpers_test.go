//go:build integration

package redis

import (
	"context"
	"strings"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	testcontainersredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

/* Test helpers for Redis integration tests
 * Pattern from: https://eltonminetto.dev/post/2024-02-15-using-test-helpers/
 */

// SetupRedisContainer starts Redis and returns its address
func SetupRedisContainer(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()

	redisContainer, err := testcontainersredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err, "failed to start Redis container")

	addr, err := redisContainer.ConnectionString(ctx)
	require.NoError(t, err, "failed to get Redis connection string")
	addr = strings.TrimPrefix(addr, "redis://")

	cleanup := func() {
		if err := redisContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Redis container: %v", err)
		}
	}

	return addr, cleanup
}

// NewRawClient opens a client for assertions that bypass the repository
func NewRawClient(t *testing.T, addr string) *goredis.Client {
	t.Helper()

	client := goredis.NewClient(&goredis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })
	return client
}
