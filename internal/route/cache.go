package route

import (
	"context"
	"time"

	gateway "github.com/arcrelay/discordrl/internal"
	"github.com/arcrelay/discordrl/internal/cache"
)

// classifyCacheTTL is how long a classification result stays cached. A
// route template never changes for a given (method, path) pair, so this
// exists purely to skip re-walking the decision tree on repeat traffic to
// the same endpoint shape; it is not a correctness mechanism.
const classifyCacheTTL = time.Minute

// result is what gets cached: the Route plus every matched path parameter,
// needed to answer Render for the same key without reclassifying.
type result struct {
	route gateway.Route
	vals  map[string]string
}

// CacheObserver receives a tick per classification cache lookup, for
// metrics. Satisfied by wrapping a pair of prometheus.Counters; nil
// disables reporting.
type CacheObserver interface {
	Hit()
	Miss()
}

// CachedClassifier wraps Classify with a bounded cache keyed on the raw
// method+path string, mirroring the teacher's RouterService pattern of
// caching a resolved, repeatedly-looked-up value behind an otter cache.
type CachedClassifier struct {
	cache    *cache.Memory[string, result]
	observer CacheObserver
}

// NewCachedClassifier builds a classifier cache bounded to maxSize entries.
func NewCachedClassifier(maxSize int) (*CachedClassifier, error) {
	c, err := cache.NewMemory[string, result](maxSize, classifyCacheTTL, cache.WriteTTL)
	if err != nil {
		return nil, err
	}
	return &CachedClassifier{cache: c}, nil
}

// SetObserver attaches a CacheObserver for hit/miss reporting. Not
// goroutine-safe against concurrent Classify calls; call before serving
// traffic.
func (c *CachedClassifier) SetObserver(observer CacheObserver) {
	c.observer = observer
}

// Classify returns the cached classification for (method, path) if present,
// otherwise classifies it fresh and caches the result.
func (c *CachedClassifier) Classify(ctx context.Context, method, path string) (gateway.Route, map[string]string, error) {
	key := method + " " + path
	if r, ok := c.cache.Get(ctx, key); ok {
		if c.observer != nil {
			c.observer.Hit()
		}
		return r.route, r.vals, nil
	}
	if c.observer != nil {
		c.observer.Miss()
	}
	route, vals, err := Classify(method, path)
	if err != nil {
		return gateway.Route{}, nil, err
	}
	c.cache.Set(ctx, key, result{route: route, vals: vals})
	return route, vals, nil
}
