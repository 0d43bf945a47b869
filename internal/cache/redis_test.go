package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCache_JSONRoundTrip(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	ctx := context.Background()

	c, err := NewRedisCache(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	key := "test:cache:" + time.Now().Format(time.RFC3339Nano)
	type item struct{ Title string }

	require.NoError(t, c.SetJSON(ctx, key, []item{{Title: "a"}}, time.Minute))

	var got []item
	require.NoError(t, c.GetJSON(ctx, key, &got))
	assert.Equal(t, []item{{Title: "a"}}, got)

	require.NoError(t, c.Delete(ctx, key))
	assert.ErrorIs(t, c.GetJSON(ctx, key, &got), ErrMiss)
}

func TestRedisCache_Counter(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	ctx := context.Background()

	c, err := NewRedisCache(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	key := "test:counter:" + time.Now().Format(time.RFC3339Nano)
	t.Cleanup(func() { c.Delete(ctx, key) })

	n, err := c.Counter(ctx, key)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = c.Incr(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = c.Counter(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := NewRedisCache(ctx, "redis://127.0.0.1:1/0")
	assert.Error(t, err)
}
