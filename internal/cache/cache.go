// Package cache provides a generic in-memory cache reused across the proxy
// for two unrelated purposes: caching route-classification results, and
// tracking which metric label tuples are still "live" for aging purposes.
package cache

import "context"

// Cache is the interface both call sites depend on, so a route classifier
// or a metrics aggregator can be tested against a fake without pulling in
// otter directly.
type Cache[K comparable, V any] interface {
	// Get retrieves a cached value by key.
	Get(ctx context.Context, key K) (V, bool)
	// Set stores a value, resetting its expiry clock.
	Set(ctx context.Context, key K, val V)
	// Delete removes a cached value.
	Delete(ctx context.Context, key K)
	// Purge removes all cached values.
	Purge(ctx context.Context)
}

// Policy selects how a Memory's entries expire.
type Policy int

const (
	// WriteTTL expires an entry a fixed duration after it was last written,
	// regardless of read frequency. Suits results that never change once
	// computed, such as a route classification.
	WriteTTL Policy = iota
	// AccessTTL expires an entry a fixed duration after it was last read or
	// written, so an idle entry ages out on its own even if it was written
	// long ago. Suits liveness tracking, such as a metric tuple that should
	// disappear once traffic on it stops.
	AccessTTL
)
