package statestore_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/codemindhq/codemind/internal/statestore"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetGetDel(t *testing.T) {
	ctx := context.Background()
	store := statestore.NewMemory()

	_, err := store.Get(ctx, "absent")
	assert.ErrorIs(t, err, statestore.ErrMiss)

	require.NoError(t, store.Set(ctx, "k", "v", time.Minute))
	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	require.NoError(t, store.Del(ctx, "k"))
	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, statestore.ErrMiss)
}

func TestMemory_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	store := statestore.NewMemory()

	require.NoError(t, store.Set(ctx, "k", "v", 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, statestore.ErrMiss)
}

func newRedisStore(t *testing.T) (*statestore.Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return statestore.NewRedisFromClient(client), mr
}

func TestRedis_SetGetDel(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t)

	_, err := store.Get(ctx, "absent")
	assert.ErrorIs(t, err, statestore.ErrMiss)

	require.NoError(t, store.Set(ctx, "k", "v", 5*time.Minute))
	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	require.NoError(t, store.Del(ctx, "k"))
	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, statestore.ErrMiss)
}

func TestRedis_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	require.NoError(t, store.Set(ctx, "k", "v", time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, statestore.ErrMiss)
}
