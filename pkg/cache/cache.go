// Package cache provides byte caches for pipeline results.
//
// # Overview
//
// The pipeline caches every stage it computes: the graph for a document,
// the layout for a graph and the rendered artifact for a layout. Entries
// are opaque bytes addressed by keys from a [Keyer]; keys embed content
// hashes, so an entry never has to be invalidated, only expired.
//
// # Backends
//
//   - [NullCache]: stores nothing; caching disabled
//   - [FileCache]: one file per entry under a directory, for the CLI
//   - [MemoryCache]: bounded in-process LRU, for the HTTP server
//   - [RedisCache]: shared cache for several server instances
//
// Any backend can be wrapped with [Compressed] to store zstd-compressed
// payloads.
//
// # Usage
//
//	c, err := cache.NewFileCache(dir)
//	k := cache.NewDefaultKeyer()
//	key := k.GraphKey(cache.Hash(jsonBytes))
//	if data, ok, _ := c.Get(ctx, key); ok {
//	    // use data
//	}
//	_ = c.Set(ctx, key, data, cache.GraphTTL)
package cache

import (
	"context"
	"time"
)

// Default time-to-live per entry kind.
const (
	GraphTTL    = 24 * time.Hour
	LayoutTTL   = 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// Cache stores byte payloads by key. Implementations must be safe for
// concurrent use.
type Cache interface {
	// Get returns the payload and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero or less never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Clear empties c if it supports clearing and reports whether it did.
func Clear(ctx context.Context, c Cache) (bool, error) {
	cl, ok := c.(Clearer)
	if !ok {
		return false, nil
	}
	return true, cl.Clear(ctx)
}
