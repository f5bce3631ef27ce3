package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client is the shared Redis connection used by the home cache and the activity stream.
type Client struct {
	*redis.Client
}

// Connect parses redisURL (redis://[:password@]host:port[/db]), applies the
// service's timeouts and pings the server so startup fails fast.
func Connect(ctx context.Context, redisURL string) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opts.DialTimeout = 3 * time.Second
	// Reads must outlive the worker's XREADGROUP block time.
	opts.ReadTimeout = 10 * time.Second
	opts.WriteTimeout = 3 * time.Second

	c := &Client{Client: redis.NewClient(opts)}

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()
	if err := c.Client.Ping(pingCtx).Err(); err != nil {
		c.Client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return c, nil
}
