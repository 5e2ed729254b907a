package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
)

// CompressedCache stores payloads zstd-compressed in an inner cache.
// Payloads that fail to decompress are treated as misses, so a backend
// can be switched to compression without clearing it.
type CompressedCache struct {
	inner Cache
	enc   *zstd.Encoder
	dec   *zstd.Decoder
}

// Compressed wraps inner.
func Compressed(inner Cache) (*CompressedCache, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	return &CompressedCache{inner: inner, enc: enc, dec: dec}, nil
}

// Get fetches and decompresses key.
func (c *CompressedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, ok, err := c.inner.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	data, err := c.dec.DecodeAll(raw, nil)
	if err != nil {
		return nil, false, nil
	}
	return data, true, nil
}

// Set compresses data and stores it under key.
func (c *CompressedCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.inner.Set(ctx, key, c.enc.EncodeAll(data, nil), ttl)
}

// Delete removes key from the inner cache.
func (c *CompressedCache) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, key)
}

// Clear clears the inner cache if it supports it.
func (c *CompressedCache) Clear(ctx context.Context) error {
	_, err := Clear(ctx, c.inner)
	return err
}

// Unwrap returns the inner cache.
func (c *CompressedCache) Unwrap() Cache { return c.inner }

// Close releases the codecs and closes the inner cache.
func (c *CompressedCache) Close() error {
	c.dec.Close()
	if err := c.enc.Close(); err != nil {
		return err
	}
	return c.inner.Close()
}

var (
	_ Cache   = (*CompressedCache)(nil)
	_ Clearer = (*CompressedCache)(nil)
)
