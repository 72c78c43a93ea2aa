package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type totals struct {
	Calories int64 `json:"calories"`
}

func newTestCache(t *testing.T) (Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), mr.Addr(), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client), mr
}

func TestRedisCacheGetSet(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	var got totals
	hit, err := c.Get(ctx, "stats:a", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "stats:a", totals{Calories: 800}, time.Minute))
	hit, err = c.Get(ctx, "stats:a", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.EqualValues(t, 800, got.Calories)

	mr.FastForward(2 * time.Minute)
	hit, err = c.Get(ctx, "stats:a", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisCacheDeletePatternScansAllPages(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	// more keys than one SCAN page
	for i := 0; i < 250; i++ {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("stats:nutrition:alice:%d", i), totals{}, time.Minute))
	}
	require.NoError(t, c.Set(ctx, "stats:nutrition:bob:1", totals{}, time.Minute))

	require.NoError(t, c.DeletePattern(ctx, "stats:nutrition:alice:*"))

	assert.Equal(t, []string{"stats:nutrition:bob:1"}, mr.Keys())
}

func TestRedisCacheCounters(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	n, err := c.Counter(ctx, "gen:alice")
	require.NoError(t, err)
	assert.Zero(t, n)

	for want := int64(1); want <= 3; want++ {
		n, err = c.Incr(ctx, "gen:alice")
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	n, err = c.Counter(ctx, "gen:alice")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}
