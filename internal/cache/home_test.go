package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialfeed/internal/cache"
	"socialfeed/internal/model"
)

func setupTestRedis(t *testing.T) *redis.Client {
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opts, err := redis.ParseURL(redisURL)
	require.NoError(t, err)

	// Use DB 1 for testing to avoid conflicts with dev data
	opts.DB = 1
	client := redis.NewClient(opts)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available, skipping test: %v", err)
	}
	client.FlushDB(ctx)

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})
	return client
}

func TestHomeCache_SetGetInvalidate(t *testing.T) {
	client := setupTestRedis(t)
	c := cache.NewHomeCache(client, time.Minute)
	ctx := context.Background()

	_, version, found, err := c.Get(ctx, 20)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, version)

	posts := []model.FeedPost{{Post: model.Post{ID: "p1", AuthorID: "u1", Content: "hello"}}}
	require.NoError(t, c.Set(ctx, version, 20, posts))

	got, _, found, err := c.Get(ctx, 20)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, got, 1)
	assert.Equal(t, "hello", got[0].Content)

	// A different limit is a different entry.
	_, _, found, err = c.Get(ctx, 5)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Invalidate(ctx))

	_, newVersion, found, err := c.Get(ctx, 20)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, version+1, newVersion)
}

func TestHomeCache_StaleWriterIsIgnored(t *testing.T) {
	client := setupTestRedis(t)
	c := cache.NewHomeCache(client, time.Minute)
	ctx := context.Background()

	_, version, _, err := c.Get(ctx, 20)
	require.NoError(t, err)

	// A mutation lands between the reader's lookup and its write-back.
	require.NoError(t, c.Invalidate(ctx))
	require.NoError(t, c.Set(ctx, version, 20, []model.FeedPost{{Post: model.Post{ID: "stale"}}}))

	_, _, found, err := c.Get(ctx, 20)
	require.NoError(t, err)
	assert.False(t, found, "write-back from an old generation must not be visible")
}
