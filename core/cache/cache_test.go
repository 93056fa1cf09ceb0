package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type summary struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewWithClient(client, time.Minute, nil), srv
}

func TestGetOrLoad_ReadThrough(t *testing.T) {
	c, srv := newTestCache(t)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) ([]summary, error) {
		calls++
		return []summary{{ID: 4, Title: "Brownies"}}, nil
	}

	first, err := GetOrLoad(ctx, c, "recipes:all", load)
	require.NoError(t, err)
	second, err := GetOrLoad(ctx, c, "recipes:all", load)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	assert.True(t, srv.Exists("recipes:all"))

	ttl := srv.TTL("recipes:all")
	assert.Equal(t, time.Minute, ttl)
}

func TestGetOrLoad_Invalidate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}

	v, _ := GetOrLoad(ctx, c, "k", load)
	assert.Equal(t, 1, v)

	c.Invalidate(ctx, "k")

	v, _ = GetOrLoad(ctx, c, "k", load)
	assert.Equal(t, 2, v)
}

func TestGetOrLoad_InvalidatedDuringLoadIsNotStored(t *testing.T) {
	c, srv := newTestCache(t)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) ([]summary, error) {
		calls++
		if calls == 1 {
			// A write commits while the first load is still running.
			c.Invalidate(ctx, "recipes:all")
			return []summary{{ID: 4, Title: "stale"}}, nil
		}
		return []summary{{ID: 4, Title: "fresh"}}, nil
	}

	first, err := GetOrLoad(ctx, c, "recipes:all", load)
	require.NoError(t, err)
	assert.Equal(t, "stale", first[0].Title)
	assert.False(t, srv.Exists("recipes:all"))

	gen, err := srv.Get("recipes:all:gen")
	require.NoError(t, err)
	assert.Equal(t, "1", gen)

	second, err := GetOrLoad(ctx, c, "recipes:all", load)
	require.NoError(t, err)
	assert.Equal(t, "fresh", second[0].Title)
	assert.True(t, srv.Exists("recipes:all"))
	assert.Equal(t, 2, calls)
}

func TestGetOrLoad_LoadError(t *testing.T) {
	c, srv := newTestCache(t)

	_, err := GetOrLoad(context.Background(), c, "k", func(context.Context) (int, error) {
		return 0, errors.New("db down")
	})
	assert.EqualError(t, err, "db down")
	assert.False(t, srv.Exists("k"))
}

func TestGetOrLoad_RedisUnavailable(t *testing.T) {
	c, srv := newTestCache(t)
	srv.Close()

	v, err := GetOrLoad(context.Background(), c, "k", func(context.Context) (string, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
}

func TestDisabledCache(t *testing.T) {
	c := New(Config{}, nil)
	assert.NoError(t, c.Ping(context.Background()))

	calls := 0
	for i := 0; i < 2; i++ {
		_, err := GetOrLoad(context.Background(), c, "k", func(context.Context) (int, error) {
			calls++
			return calls, nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, calls)
	c.Invalidate(context.Background(), "k")
}
