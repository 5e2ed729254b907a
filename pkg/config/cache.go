package config

import (
	"context"
	"fmt"

	"github.com/matzehuels/jsonflow/pkg/cache"
)

// OpenCache builds the configured backend, wrapped with compression when
// Compress is set. The caller owns the returned cache and must close it.
func (c CacheConfig) OpenCache(ctx context.Context) (cache.Cache, error) {
	inner, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	if !c.Compress || c.Backend == BackendNone {
		return inner, nil
	}
	wrapped, err := cache.Compressed(inner)
	if err != nil {
		inner.Close()
		return nil, err
	}
	return wrapped, nil
}

func (c CacheConfig) open(ctx context.Context) (cache.Cache, error) {
	switch c.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendMemory:
		size := c.LRUSize
		if size <= 0 {
			size = DefaultLRUSize
		}
		return cache.NewMemoryCache(size)
	case BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
			Prefix:   c.Prefix,
		})
	case BackendFile, "":
		dir := c.Dir
		if dir == "" {
			d, err := cache.DefaultDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		return cache.NewFileCache(dir)
	}
	return nil, fmt.Errorf("unknown cache backend %q", c.Backend)
}

// Keyer returns the default keyer, scoped by Prefix for backends that do
// not prefix keys themselves.
func (c CacheConfig) Keyer() cache.Keyer {
	if c.Prefix == "" || c.Backend == BackendRedis {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, c.Prefix)
}
