package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/career-hub/backend/internal/cache"
)

func newTestCache(t *testing.T) (*cache.UnreadCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewUnreadCache(client, time.Minute), mr
}

func TestUnreadCache_FillGetInvalidate(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	_, ok, err := c.Get(ctx, 7)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Fill(ctx, 7, 0, 3))
	n, ok, err := c.Get(ctx, 7)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(3), n)
	assert.True(t, mr.Exists("notifications:unread:7"))

	require.NoError(t, c.Invalidate(ctx, 7))
	_, ok, err = c.Get(ctx, 7)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUnreadCache_Expires(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	require.NoError(t, c.Fill(ctx, 1, 0, 9))
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUnreadCache_NilIsNoop(t *testing.T) {
	ctx := context.Background()
	var c *cache.UnreadCache

	require.NoError(t, c.Fill(ctx, 1, 0, 2))
	require.NoError(t, c.Invalidate(ctx, 1))
	v, err := c.Version(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, v)
	_, ok, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	empty := cache.NewUnreadCache(nil, 0)
	_, ok, err = empty.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUnreadCache_FillSkipsAfterInvalidate(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	before, err := c.Version(ctx, 5)
	require.NoError(t, err)

	// a write lands between counting and filling
	require.NoError(t, c.Invalidate(ctx, 5))
	require.NoError(t, c.Fill(ctx, 5, before, 1))
	assert.False(t, mr.Exists("notifications:unread:5"))

	current, err := c.Version(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, before+1, current)
	require.NoError(t, c.Fill(ctx, 5, current, 2))

	n, ok, err := c.Get(ctx, 5)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(2), n)
}
