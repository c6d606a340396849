// Package cache is a thin Redis wrapper that degrades to a no-op when Redis
// is unreachable. Everything cached here is rebuildable from the database,
// so a dead cache must never take a request down with it.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps a Redis connection. All methods are safe on a nil receiver.
type Client struct {
	client *redis.Client
}

// New connects to the given Redis instance. The connection is lazy; a wrong
// address only shows up as permanent cache misses.
func New(addr, password string, db int) *Client {
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	return &Client{client: redis.NewClient(opts)}
}

// Get returns the value stored under key, or nil on a miss. Connectivity
// errors are indistinguishable from misses.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	res, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		// treat as miss
		return nil, nil
	}
	return res, nil
}

// Set stores value under key for the given TTL. A failed write is dropped.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return nil
	}
	return nil
}

// Delete removes key. A failed delete is dropped; the stale entry expires
// on its own TTL.
func (c *Client) Delete(ctx context.Context, key string) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return nil
	}
	return nil
}
