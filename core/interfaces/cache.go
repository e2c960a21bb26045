// Package interfaces defines the core interfaces used throughout the application.
// These interfaces allow for dependency injection and make the code testable.
package interfaces

import (
	"context"
	"time"
)

// Cache defines the interface for cache operations.
// Implementations exist for go-cache (memory), Redis and bbolt.
//
// Example usage:
//
//	// Store a fetched feed body
//	err := cache.Set(ctx, "feed:https://example.com/rss", body, 10*time.Minute)
//
//	// A miss is reported as an error
//	body, err := cache.Get(ctx, "feed:https://example.com/rss")
type Cache interface {
	// Get retrieves a value by key. A missing or expired key is an error.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with the given key and TTL.
	// If ttl is 0, the value should be stored indefinitely.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache by key.
	// Returns nil if the key doesn't exist.
	Delete(ctx context.Context, key string) error
}
