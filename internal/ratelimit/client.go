package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	gateway "github.com/arcrelay/discordrl/internal"
)

// TokenClient holds all rate-limit state for one bearer token: a bucket per
// Route, a token-wide global gate, and the bookkeeping a Registry needs to
// age it out. activity and lastUsedAt are atomics specifically so the
// Registry can inspect them without taking mu, per the lock order in
// internal/ratelimit/registry.go.
type TokenClient struct {
	mu      sync.Mutex
	buckets map[gateway.Route]*bucket
	global  *globalGate

	activity   atomic.Int64
	lastUsedAt atomic.Int64 // UnixNano
}

func newTokenClient() *TokenClient {
	tc := &TokenClient{
		buckets: make(map[gateway.Route]*bucket),
		global:  newGlobalGate(),
	}
	tc.touch()
	return tc
}

func (tc *TokenClient) touch() {
	tc.lastUsedAt.Store(time.Now().UnixNano())
}

func (tc *TokenClient) idleSince() time.Time {
	return time.Unix(0, tc.lastUsedAt.Load())
}

func (tc *TokenClient) getOrCreateBucket(route gateway.Route) *bucket {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	b, ok := tc.buckets[route]
	if !ok {
		b = newBucket()
		tc.buckets[route] = b
	}
	return b
}

// Permit is a single authorization to dispatch one upstream request against
// a bucket. It must be released exactly once; Release is idempotent as a
// safety net, not an invitation to skip calling it.
type Permit struct {
	tc       *TokenClient
	bucket   *bucket
	route    gateway.Route
	isProbe  bool
	released atomic.Bool
}

// IsProbe reports whether this permit admitted the bucket's single
// unknown-state probe request.
func (p *Permit) IsProbe() bool { return p.isProbe }

// Route returns the Route this permit was admitted against.
func (p *Permit) Route() gateway.Route {
	return p.route
}

// Scope returns the last-observed rate-limit scope for this permit's
// bucket, for metrics labeling. Empty until headers have been ingested.
func (p *Permit) Scope() gateway.Scope {
	return p.bucket.currentScope()
}

// Ingest applies the upstream response's rate-limit headers to this
// permit's bucket, activating the TokenClient's global gate if the
// response signals a global 429.
func (p *Permit) Ingest(h gateway.RateLimitHeaders, status int) {
	activateGlobal, retryAfter := p.bucket.ingest(h, status)
	if activateGlobal {
		p.tc.global.activate(retryAfter)
	}
}

// Release returns the permit, waking the next queued waiter on this bucket
// (if any) and clearing the TokenClient's in-flight marker. Safe to call
// more than once; only the first call has effect.
func (p *Permit) Release() {
	if !p.released.CompareAndSwap(false, true) {
		return
	}
	p.bucket.release()
	p.tc.activity.Add(-1)
}

// Admit runs the full admission protocol for route: wait on the global
// gate, then on the route's bucket. The returned Permit must be released
// exactly once regardless of whether the upstream call succeeds.
func (tc *TokenClient) Admit(ctx context.Context, route gateway.Route) (*Permit, error) {
	tc.touch()
	tc.activity.Add(1)

	if err := tc.global.wait(ctx); err != nil {
		tc.activity.Add(-1)
		return nil, err
	}

	b := tc.getOrCreateBucket(route)
	isProbe, err := b.admit(ctx)
	if err != nil {
		tc.activity.Add(-1)
		return nil, err
	}

	return &Permit{tc: tc, bucket: b, route: route, isProbe: isProbe}, nil
}
