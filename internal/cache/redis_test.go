package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/joao-brasil/stock-overview/internal/config"
)

type item struct {
	Name  string
	Count int
}

func newTestCache(t *testing.T, ttl time.Duration) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := New(rdb, SummaryKey, ttl)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestRedis_MissThenHit(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	var got []item
	ok, err := c.Load(ctx, &got)
	require.NoError(t, err)
	require.False(t, ok)

	want := []item{{Name: "Bolts", Count: 3}, {Name: "Nuts", Count: 0}}
	require.NoError(t, c.Store(ctx, want))

	ok, err = c.Load(ctx, &got)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want, got)
}

func TestRedis_Expires(t *testing.T) {
	c, mr := newTestCache(t, 30*time.Second)
	ctx := context.Background()

	require.NoError(t, c.Store(ctx, []item{{Name: "Bolts"}}))
	require.Equal(t, 30*time.Second, mr.TTL(SummaryKey))

	mr.FastForward(31 * time.Second)

	var got []item
	ok, err := c.Load(ctx, &got)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedis_CorruptValue(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	require.NoError(t, mr.Set(SummaryKey, "{not json"))

	var got []item
	ok, err := c.Load(context.Background(), &got)
	require.Error(t, err)
	require.False(t, ok)
}

func TestRedis_Unavailable(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()
	require.NoError(t, c.Ping(ctx))

	mr.Close()

	require.Error(t, c.Ping(ctx))
	require.Error(t, c.Store(ctx, []item{}))
	var got []item
	_, err := c.Load(ctx, &got)
	require.Error(t, err)
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := NewClient(config.CacheConfig{Addr: mr.Addr(), DB: 0})
	defer rdb.Close()

	require.NoError(t, rdb.Ping(context.Background()).Err())
}
