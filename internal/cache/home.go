package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"socialfeed/internal/model"
)

const (
	// HomeVersionKey holds the current home view generation.
	HomeVersionKey = "home:version"

	// HomePostsPrefix prefixes the per-generation hash of rendered listings,
	// one field per requested limit.
	HomePostsPrefix = "home:posts:v"

	// DefaultHomeTTL is how long a generation's listings live.
	DefaultHomeTTL = 5 * time.Minute
)

// HomeCache caches the home post listing.
//
// Invalidation bumps the generation instead of deleting keys, so a reader that
// loaded from the database before the bump writes into a generation nobody
// reads anymore.
type HomeCache interface {
	// Get returns the cached listing for limit and the generation it was looked up in.
	Get(ctx context.Context, limit int) (posts []model.FeedPost, version int64, found bool, err error)

	// Set stores a listing under the generation returned by an earlier Get.
	Set(ctx context.Context, version int64, limit int, posts []model.FeedPost) error

	// Invalidate marks every cached listing stale.
	Invalidate(ctx context.Context) error
}

// RedisHomeCache implements HomeCache with a version counter and hashes.
type RedisHomeCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewHomeCache creates a new HomeCache backed by Redis.
func NewHomeCache(client *redis.Client, ttl time.Duration) HomeCache {
	if ttl <= 0 {
		ttl = DefaultHomeTTL
	}
	return &RedisHomeCache{client: client, ttl: ttl}
}

func homePostsKey(version int64) string {
	return HomePostsPrefix + strconv.FormatInt(version, 10)
}

func (c *RedisHomeCache) version(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, HomeVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get home version: %w", err)
	}
	return v, nil
}

func (c *RedisHomeCache) Get(ctx context.Context, limit int) ([]model.FeedPost, int64, bool, error) {
	version, err := c.version(ctx)
	if err != nil {
		return nil, 0, false, err
	}

	raw, err := c.client.HGet(ctx, homePostsKey(version), strconv.Itoa(limit)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, version, false, nil
	}
	if err != nil {
		return nil, version, false, fmt.Errorf("get home posts: %w", err)
	}

	var posts []model.FeedPost
	if err := json.Unmarshal(raw, &posts); err != nil {
		// Treat an unreadable entry as a miss; the next Set overwrites it.
		return nil, version, false, nil
	}
	return posts, version, true, nil
}

func (c *RedisHomeCache) Set(ctx context.Context, version int64, limit int, posts []model.FeedPost) error {
	raw, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("marshal home posts: %w", err)
	}

	key := homePostsKey(version)
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, strconv.Itoa(limit), raw)
	pipe.Expire(ctx, key, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("set home posts: %w", err)
	}
	return nil
}

func (c *RedisHomeCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, HomeVersionKey).Err(); err != nil {
		return fmt.Errorf("bump home version: %w", err)
	}
	return nil
}
