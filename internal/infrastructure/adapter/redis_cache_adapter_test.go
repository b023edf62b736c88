package adapter

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisCacheAdapter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisCacheAdapterWithClient(client, slog.New(slog.NewTextHandler(io.Discard, nil))), mr
}

func TestRedisCacheAdapter_SetAndGet(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "hotel:1:available_rooms", []byte("4"), time.Minute))

	value, err := cache.Get(ctx, "hotel:1:available_rooms")
	require.NoError(t, err)
	assert.Equal(t, []byte("4"), value)

	assert.True(t, mr.Exists("booking-service:hotel:1:available_rooms"))
}

func TestRedisCacheAdapter_GetMiss(t *testing.T) {
	cache, _ := newTestCache(t)

	_, err := cache.Get(context.Background(), "absent")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache miss")
}

func TestRedisCacheAdapter_Expiry(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "hotel:2:available_rooms", []byte("9"), 5*time.Minute))

	mr.FastForward(6 * time.Minute)

	_, err := cache.Get(ctx, "hotel:2:available_rooms")
	require.Error(t, err)
}

func TestRedisCacheAdapter_Delete(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "key", []byte("value"), time.Minute))
	require.NoError(t, cache.Delete(ctx, "key"))

	_, err := cache.Get(ctx, "key")
	require.Error(t, err)
}

func TestRedisCacheAdapter_Ping(t *testing.T) {
	cache, mr := newTestCache(t)

	require.NoError(t, cache.Ping(context.Background()))

	mr.Close()
	assert.Error(t, cache.Ping(context.Background()))
}
