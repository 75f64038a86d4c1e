//go:build integration

package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) *redis.Client {
	ctx := context.Background()
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	endpoint, err := c.Endpoint(ctx, "")
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestTokenBlacklist(t *testing.T) {
	rdb := setupRedis(t)
	bl := NewTokenBlacklist(rdb)
	ctx := context.Background()

	found, err := bl.Contains(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, bl.Add(ctx, "tok", time.Minute))
	require.NoError(t, bl.Add(ctx, "tok", time.Minute))
	found, err = bl.Contains(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, found)

	keys, err := rdb.Keys(ctx, "session:revoked:*").Result()
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.NotContains(t, keys[0], "tok")

	ttl, err := rdb.TTL(ctx, keys[0]).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 50*time.Second)

	require.NoError(t, bl.Add(ctx, "expired", -time.Second))
	found, err = bl.Contains(ctx, "expired")
	require.NoError(t, err)
	assert.False(t, found)
}
