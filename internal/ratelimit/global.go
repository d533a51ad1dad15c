package ratelimit

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// globalGate is the TokenClient-wide ceiling Discord enforces independently
// of per-route buckets. It is a plain boolean gate: while active, every
// admission on the TokenClient blocks; on deactivation every waiter is
// released at once, not FIFO-rationed like a bucket's capacity.
type globalGate struct {
	mu      sync.Mutex
	resetAt time.Time // zero value means inactive
	waiters *list.List
}

func newGlobalGate() *globalGate {
	return &globalGate{waiters: list.New()}
}

// wait blocks while the gate is active, returning early if ctx is cancelled.
func (g *globalGate) wait(ctx context.Context) error {
	g.mu.Lock()
	if g.resetAt.IsZero() || !time.Now().Before(g.resetAt) {
		g.resetAt = time.Time{}
		g.mu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	elem := g.waiters.PushBack(ch)
	g.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		g.mu.Lock()
		g.waiters.Remove(elem)
		g.mu.Unlock()
		return ctx.Err()
	}
}

// activate blocks all subsequent admissions for retryAfter, then releases
// every waiter queued at that point simultaneously.
func (g *globalGate) activate(retryAfter time.Duration) {
	g.mu.Lock()
	g.resetAt = time.Now().Add(retryAfter)
	g.mu.Unlock()
	time.AfterFunc(retryAfter, g.deactivate)
}

func (g *globalGate) deactivate() {
	g.mu.Lock()
	g.resetAt = time.Time{}
	waiters := g.waiters
	g.waiters = list.New()
	g.mu.Unlock()

	for e := waiters.Front(); e != nil; e = e.Next() {
		close(e.Value.(chan struct{}))
	}
}
