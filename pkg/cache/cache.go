// Package cache stores fetched notebooks and rendered exports.
//
// # Backends
//
// Three implementations of [Cache] are provided:
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: stores nothing, used when caching is disabled
//
// # Keys
//
// Keys are built by a [Keyer] so that every component names entries the
// same way. [ScopedKeyer] prefixes keys to keep entries fetched with
// different credentials apart:
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "key:"+cache.Hash([]byte(apiKey))[:12]+":")
//	data, ok, err := c.Get(ctx, keyer.HTTPKey("observable", path))
//
// # Retries
//
// [Retryable] marks an error as transient and [RetryWithBackoff] retries a
// function while it keeps failing with such errors.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiration. A zero ttl stores the
// entry without expiration. Implementations are safe for concurrent use.
type Cache interface {
	// Get returns the entry for key. A missing or expired entry is reported
	// as a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}
