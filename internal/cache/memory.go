package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/maypok86/otter/v2"
)

// record pairs a cached value with its write deadline. For WriteTTL caches
// Memory checks that deadline itself on top of otter's own expiry, so a
// slow eviction sweep never serves a value past its TTL; AccessTTL caches
// rely on otter's expiry alone.
type record[V any] struct {
	val       V
	expiresAt time.Time
}

// Memory is a generic in-memory W-TinyLFU cache backed by otter. The same
// type backs both the route-classification cache (WriteTTL: a classified
// route never changes, so only the write matters) and the metric-tuple
// liveness cache (AccessTTL: a tuple under active traffic keeps resetting
// its own clock).
type Memory[K comparable, V any] struct {
	cache  *otter.Cache[K, record[V]]
	policy Policy
	ttl    time.Duration
}

// NewMemory creates an in-memory cache bounded to maxSize entries under the
// given expiry policy.
func NewMemory[K comparable, V any](maxSize int, ttl time.Duration, policy Policy) (*Memory[K, V], error) {
	opts := &otter.Options[K, record[V]]{MaximumSize: maxSize}
	switch policy {
	case AccessTTL:
		opts.ExpiryCalculator = otter.ExpiryAccessing[K, record[V]](ttl)
	default:
		opts.ExpiryCalculator = otter.ExpiryWriting[K, record[V]](ttl)
	}
	c, err := otter.New[K, record[V]](opts)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	return &Memory[K, V]{cache: c, policy: policy, ttl: ttl}, nil
}

// Get retrieves a value from the cache if present and not expired.
func (m *Memory[K, V]) Get(_ context.Context, key K) (V, bool) {
	r, ok := m.cache.GetIfPresent(key)
	if !ok {
		var zero V
		return zero, false
	}
	if m.policy == WriteTTL && time.Now().After(r.expiresAt) {
		m.cache.Invalidate(key)
		var zero V
		return zero, false
	}
	return r.val, true
}

// Set stores a value, resetting its expiry clock.
func (m *Memory[K, V]) Set(_ context.Context, key K, val V) {
	m.cache.Set(key, record[V]{val: val, expiresAt: time.Now().Add(m.ttl)})
}

// Delete removes a value from the cache.
func (m *Memory[K, V]) Delete(_ context.Context, key K) {
	m.cache.Invalidate(key)
}

// Purge removes all values from the cache.
func (m *Memory[K, V]) Purge(_ context.Context) {
	m.cache.InvalidateAll()
}
