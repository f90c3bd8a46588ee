package persistence

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *Redis) {
	t.Helper()
	mr := miniredis.RunT(t)
	r := &Redis{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	t.Cleanup(r.Close)
	return mr, r
}

func TestRedisTokenStoreRoundTrip(t *testing.T) {
	mr, r := newTestRedis(t)
	stores := NewRedisTokenStores(r, "destinations:token:", time.Hour)
	ctx := context.Background()

	store := stores.For("browser-a")
	tok, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, store.Set(ctx, "jwt-a"))
	tok, err = stores.For("browser-a").Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jwt-a", tok)

	other, err := stores.For("browser-b").Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, other, "slots are isolated per browser")

	key := stores.Key("browser-a")
	assert.True(t, strings.HasPrefix(key, "destinations:token:"))
	assert.NotContains(t, key, "browser-a")
	assert.Equal(t, time.Hour, mr.TTL(key))

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))
	assert.False(t, mr.Exists(key))
}

func TestRedisTokenStoreExpires(t *testing.T) {
	mr, r := newTestRedis(t)
	store := NewRedisTokenStores(r, "p:", time.Minute).For("k")
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "jwt"))
	mr.FastForward(2 * time.Minute)

	tok, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestRedisTokenStoreUnavailable(t *testing.T) {
	r := &Redis{Client: redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})}
	t.Cleanup(r.Close)
	store := NewRedisTokenStores(r, "p:", 0).For("k")

	_, err := store.Get(context.Background())
	assert.ErrorContains(t, err, "redis get token")
}

func TestRedisPing(t *testing.T) {
	_, r := newTestRedis(t)
	assert.NoError(t, r.Ping(context.Background()))

	var missing *Redis
	assert.Error(t, missing.Ping(context.Background()))
}
