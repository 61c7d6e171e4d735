package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/erp/tilestock/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newMiniredisStore(t *testing.T) (*RedisIdempotencyStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisIdempotencyStoreWithClient(client, "")
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func redisConfigFor(t *testing.T, mr *miniredis.Miniredis) config.RedisConfig {
	t.Helper()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	return config.RedisConfig{Enabled: true, Host: mr.Host(), Port: port}
}

func TestRedisIdempotencyStore_MarkProcessed(t *testing.T) {
	store, mr := newMiniredisStore(t)
	ctx := context.Background()

	isNew, err := store.MarkProcessed(ctx, "sales-order:1:shipped", time.Hour)
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = store.MarkProcessed(ctx, "sales-order:1:shipped", time.Hour)
	require.NoError(t, err)
	assert.False(t, isNew)

	assert.True(t, mr.Exists(DefaultKeyPrefix+"sales-order:1:shipped"))
	assert.Equal(t, time.Hour, mr.TTL(DefaultKeyPrefix+"sales-order:1:shipped"))
}

func TestRedisIdempotencyStore_ExpiresWithTTL(t *testing.T) {
	store, mr := newMiniredisStore(t)
	ctx := context.Background()

	_, err := store.MarkProcessed(ctx, "k", time.Minute)
	require.NoError(t, err)

	processed, err := store.IsProcessed(ctx, "k")
	require.NoError(t, err)
	assert.True(t, processed)

	mr.FastForward(2 * time.Minute)

	processed, err = store.IsProcessed(ctx, "k")
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestRedisIdempotencyStore_Forget(t *testing.T) {
	store, mr := newMiniredisStore(t)
	ctx := context.Background()

	_, err := store.MarkProcessed(ctx, "k", time.Hour)
	require.NoError(t, err)
	require.NoError(t, store.Forget(ctx, "k"))

	assert.False(t, mr.Exists(DefaultKeyPrefix+"k"))

	isNew, err := store.MarkProcessed(ctx, "k", time.Hour)
	require.NoError(t, err)
	assert.True(t, isNew)
}

func TestRedisIdempotencyStore_CustomPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	store := NewRedisIdempotencyStoreWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test:")
	defer store.Close()

	_, err := store.MarkProcessed(context.Background(), "k", time.Hour)
	require.NoError(t, err)

	assert.True(t, mr.Exists("test:k"))
}

func TestRedisIdempotencyStore_ServerDown(t *testing.T) {
	store, mr := newMiniredisStore(t)
	mr.Close()

	_, err := store.MarkProcessed(context.Background(), "k", time.Hour)
	assert.Error(t, err)

	_, err = store.IsProcessed(context.Background(), "k")
	assert.Error(t, err)

	assert.Error(t, store.Forget(context.Background(), "k"))
}

func TestNewRedisIdempotencyStore(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := NewRedisIdempotencyStore(redisConfigFor(t, mr))
	require.NoError(t, err)
	defer store.Close()

	isNew, err := store.MarkProcessed(context.Background(), "k", time.Hour)
	require.NoError(t, err)
	assert.True(t, isNew)
}

func TestIdempotencyStoreFactory(t *testing.T) {
	t.Run("redis disabled uses memory", func(t *testing.T) {
		store, err := NewIdempotencyStoreFactory(config.RedisConfig{}).CreateStore()
		require.NoError(t, err)
		defer store.Close()

		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	})

	t.Run("redis reachable", func(t *testing.T) {
		mr := miniredis.RunT(t)

		store, err := NewIdempotencyStoreFactory(redisConfigFor(t, mr)).CreateStore()
		require.NoError(t, err)
		defer store.Close()

		assert.IsType(t, &RedisIdempotencyStore{}, store)
	})

	t.Run("redis unreachable falls back with warning", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := redisConfigFor(t, mr)
		mr.Close()

		core, logs := observer.New(zapcore.WarnLevel)
		store, err := NewIdempotencyStoreFactory(cfg, WithLogger(zap.New(core))).CreateStore()
		require.NoError(t, err)
		defer store.Close()

		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
		assert.Equal(t, 1, logs.Len())
	})

	t.Run("redis unreachable without fallback", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := redisConfigFor(t, mr)
		mr.Close()

		_, err := NewIdempotencyStoreFactory(cfg, WithInMemoryFallback(false)).CreateStore()
		assert.ErrorContains(t, err, "redis required")
	})
}
