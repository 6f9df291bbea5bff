// Package cache provides a small read-through cache for public catalog
// responses. Admin mutations invalidate by key prefix so stale listings never
// outlive a content change.
package cache

import (
	"context"
	"time"
)

// DefaultTTL bounds how long a public response may be served from cache.
const DefaultTTL = 5 * time.Minute

// Cache stores serialized response payloads keyed by request shape.
type Cache interface {
	// Get returns the cached payload, or (nil, nil) on a miss.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores a payload with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// InvalidatePrefix removes every key beginning with prefix.
	InvalidatePrefix(ctx context.Context, prefix string) error
}
