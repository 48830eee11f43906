//go:build integration

package middlewares

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	tc, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = tc.Terminate(ctx) })

	host, err := tc.Host(ctx)
	require.NoError(t, err)
	port, err := tc.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRedisCounter_FixedWindow(t *testing.T) {
	client := startRedis(t)
	counter := NewRedisCounter(client)
	ctx := context.Background()

	count, ttl, err := counter.Hit(ctx, "incident_limit:1.2.3.4", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, time.Minute, ttl)

	count, ttl, err = counter.Hit(ctx, "incident_limit:1.2.3.4", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)

	count, _, err = counter.Hit(ctx, "incident_limit:5.6.7.8", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRedisCounter_RestoresLostExpiry(t *testing.T) {
	client := startRedis(t)
	counter := NewRedisCounter(client)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "incident_limit:9.9.9.9", 4, 0).Err())

	count, ttl, err := counter.Hit(ctx, "incident_limit:9.9.9.9", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
	assert.Equal(t, time.Minute, ttl)

	remaining, err := client.TTL(ctx, "incident_limit:9.9.9.9").Result()
	require.NoError(t, err)
	assert.Greater(t, remaining, time.Duration(0))
}
