// Package ratelimit implements the per-token admission pipeline: a global
// gate plus one bucket per Route, each serializing requests against
// Discord's published limits and suspending callers until capacity frees up.
package ratelimit

import (
	"container/list"
	"context"
	"net/http"
	"sync"
	"time"

	gateway "github.com/arcrelay/discordrl/internal"
)

type bucketState int

const (
	stateUnknown bucketState = iota
	stateKnown
)

// bucket is the dynamic rate-limit state for one Route on one TokenClient.
// A bucket starts unknown (no headers observed) and admits exactly one
// probe request; it learns limit/remaining/resetAt from that probe's
// response headers and transitions to known.
type bucket struct {
	mu sync.Mutex

	state bucketState

	limit          int64
	remaining      int64
	resetAt        time.Time
	windowDuration time.Duration // last observed Reset-After, reused for local refills
	scope          gateway.Scope

	probeInFlight bool
	waiters       *list.List // of chan bool (buffered, cap 1; value is isProbe), FIFO

	timerPending bool
}

func newBucket() *bucket {
	return &bucket{waiters: list.New()}
}

// admit blocks until the bucket grants this caller a slot, or ctx is
// cancelled first. It reports whether the grant was the bucket's single
// unknown-state probe, for probe-rate metrics.
func (b *bucket) admit(ctx context.Context) (isProbe bool, err error) {
	b.mu.Lock()
	if b.tryGrantLocked() {
		isProbe = b.state == stateUnknown
		b.mu.Unlock()
		return isProbe, nil
	}
	ch := make(chan bool, 1)
	elem := b.waiters.PushBack(ch)
	b.scheduleTimerLocked()
	b.mu.Unlock()

	select {
	case isProbe = <-ch:
		return isProbe, nil
	case <-ctx.Done():
		b.mu.Lock()
		b.waiters.Remove(elem)
		b.mu.Unlock()
		return false, ctx.Err()
	}
}

// tryGrantLocked attempts to admit one caller without blocking. Callers
// must hold b.mu.
func (b *bucket) tryGrantLocked() bool {
	switch b.state {
	case stateUnknown:
		if b.probeInFlight {
			return false
		}
		b.probeInFlight = true
		return true
	default: // stateKnown
		if !b.resetAt.IsZero() && !time.Now().Before(b.resetAt) {
			b.remaining = b.limit
			if b.windowDuration > 0 {
				b.resetAt = time.Now().Add(b.windowDuration)
			}
		}
		if b.remaining > 0 {
			b.remaining--
			return true
		}
		return false
	}
}

// scheduleTimerLocked arranges a wake-up at resetAt if one isn't already
// pending, so a bucket sitting at remaining=0 doesn't need a waiter to poll
// it -- the timer itself drives the next grant attempt.
func (b *bucket) scheduleTimerLocked() {
	if b.timerPending || b.state != stateKnown || b.resetAt.IsZero() {
		return
	}
	b.timerPending = true
	delay := time.Until(b.resetAt)
	if delay < 0 {
		delay = 0
	}
	time.AfterFunc(delay, b.wake)
}

// wake is invoked by the reset timer; it grants as many queued waiters as
// capacity now allows.
func (b *bucket) wake() {
	b.mu.Lock()
	b.timerPending = false
	b.grantWaitersLocked()
	b.mu.Unlock()
}

// grantWaitersLocked hands out permits to queued waiters in FIFO order
// until capacity is exhausted, then re-arms the timer if any remain.
func (b *bucket) grantWaitersLocked() {
	for b.waiters.Len() > 0 {
		if !b.tryGrantLocked() {
			b.scheduleTimerLocked()
			return
		}
		isProbe := b.state == stateUnknown
		front := b.waiters.Front()
		b.waiters.Remove(front)
		front.Value.(chan bool) <- isProbe
	}
}

// release is called once the caller's request has completed. For a probe,
// it clears probeInFlight so the next waiter (if headers never arrived) can
// probe again; either way it wakes whatever waiters capacity now permits.
func (b *bucket) release() {
	b.mu.Lock()
	if b.state == stateUnknown {
		b.probeInFlight = false
	}
	b.grantWaitersLocked()
	b.mu.Unlock()
}

// ingest applies response rate-limit headers to the bucket. It returns
// whether the TokenClient-wide global gate must be activated and for how
// long; global 429s are not bucket-local.
func (b *bucket) ingest(h gateway.RateLimitHeaders, status int) (globalActivate bool, retryAfter time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if status == http.StatusTooManyRequests {
		retryAfter = secondsToDuration(h.RetryAfter)
		if h.Global || h.Scope == gateway.ScopeGlobal {
			return true, retryAfter
		}
		b.remaining = 0
		b.resetAt = time.Now().Add(retryAfter)
		b.windowDuration = retryAfter
		b.state = stateKnown
		return false, 0
	}

	if !h.Present {
		return false, 0
	}

	resetAfter := h.ResetAfter
	if resetAfter <= 0 && h.Reset > 0 {
		resetAfter = h.Reset - float64(time.Now().Unix())
	}
	if resetAfter < 0 {
		resetAfter = 0
	}
	dur := secondsToDuration(resetAfter)

	b.limit = h.Limit
	b.remaining = h.Remaining
	b.resetAt = time.Now().Add(dur)
	b.windowDuration = dur
	if h.Scope != gateway.ScopeUnknown {
		b.scope = h.Scope
	}
	b.state = stateKnown
	return false, 0
}

// currentScope returns the last-observed rate-limit scope for this bucket.
func (b *bucket) currentScope() gateway.Scope {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.scope
}

func secondsToDuration(s float64) time.Duration {
	if s <= 0 {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}
