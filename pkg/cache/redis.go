package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures a RedisCache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces every key, so Clear only touches this cache's keys.
	Prefix string
	// Backoff controls retries of transient network failures.
	Backoff Backoff
}

// RedisCache stores entries in Redis, shared by every server instance
// pointing at the same database.
type RedisCache struct {
	client  *redis.Client
	prefix  string
	backoff Backoff
}

// NewRedisCache connects to Redis and pings it.
func NewRedisCache(ctx context.Context, cfg RedisConfig) (*RedisCache, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "jsonflow:"
	}
	if cfg.Backoff.Attempts == 0 {
		cfg.Backoff = DefaultBackoff
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	c := &RedisCache{client: client, prefix: cfg.Prefix, backoff: cfg.Backoff}
	if err := c.retry(ctx, func() error { return client.Ping(ctx).Err() }); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return c, nil
}

// Get fetches key.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := c.retry(ctx, func() error {
		var err error
		data, err = c.client.Get(ctx, c.prefix+key).Bytes()
		return err
	})
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores key with ttl; a ttl of zero or less never expires.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return c.retry(ctx, func() error {
		return c.client.Set(ctx, c.prefix+key, data, ttl).Err()
	})
}

// Delete removes key.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.retry(ctx, func() error {
		return c.client.Del(ctx, c.prefix+key).Err()
	})
}

// Clear deletes every key under the cache's prefix.
func (c *RedisCache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 500).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 500 {
			if err := c.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return c.client.Del(ctx, batch...).Err()
	}
	return nil
}

// Close closes the client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// retry runs fn, retrying network failures.
func (c *RedisCache) retry(ctx context.Context, fn func() error) error {
	return RetryWithBackoff(ctx, c.backoff, func() error {
		err := fn()
		if isTransient(err) {
			return Retryable(err)
		}
		return err
	})
}

func isTransient(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

var (
	_ Cache   = (*RedisCache)(nil)
	_ Clearer = (*RedisCache)(nil)
)
