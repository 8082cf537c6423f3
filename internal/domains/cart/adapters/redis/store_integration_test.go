//go:build integration

package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Apurer/gift-registry/internal/domains/cart/ports"
	platformredis "github.com/Apurer/gift-registry/internal/platform/redis"
)

func setupRedisContainer(t *testing.T) (*goredis.Client, func()) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client, err := platformredis.Connect(ctx, fmt.Sprintf("redis://%s:%s/0", host, port.Port()))
	require.NoError(t, err)

	cleanup := func() {
		_ = client.Close()
		container.Terminate(ctx)
	}
	return client, cleanup
}

func TestStore_SetGetDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client, cleanup := setupRedisContainer(t)
	defer cleanup()

	store := NewStore(client, time.Hour)
	ctx := context.Background()

	_, err := store.Get(ctx, "gift_cart_v1:abc")
	assert.ErrorIs(t, err, ports.ErrNotFound)

	require.NoError(t, store.Set(ctx, "gift_cart_v1:abc", []byte(`["a"]`)))
	value, err := store.Get(ctx, "gift_cart_v1:abc")
	require.NoError(t, err)
	assert.Equal(t, `["a"]`, string(value))

	ttl, err := client.TTL(ctx, "gift_cart_v1:abc").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, store.Delete(ctx, "gift_cart_v1:abc"))
	_, err = store.Get(ctx, "gift_cart_v1:abc")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
