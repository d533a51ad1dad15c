package ratelimit

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	gateway "github.com/arcrelay/discordrl/internal"
)

func testRoute(path string) gateway.Route {
	return gateway.Route{Method: "GET", Template: path}
}

func TestPermitIsProbeOnlyForUnknownBucketGrant(t *testing.T) {
	tc := newTokenClient()
	route := testRoute("/probe-flag")

	p1, err := tc.Admit(context.Background(), route)
	if err != nil {
		t.Fatal(err)
	}
	if !p1.IsProbe() {
		t.Error("first admission on an unknown bucket should be a probe")
	}
	p1.Ingest(gateway.RateLimitHeaders{Present: true, Limit: 5, Remaining: 4, ResetAfter: 1}, http.StatusOK)
	p1.Release()

	p2, err := tc.Admit(context.Background(), route)
	if err != nil {
		t.Fatal(err)
	}
	if p2.IsProbe() {
		t.Error("admission on a known bucket must not be reported as a probe")
	}
	p2.Release()
}

func TestSingleProbeForUnknownBucket(t *testing.T) {
	tc := newTokenClient()
	route := testRoute("/probe")

	const n = 10
	var inFlight atomic.Int32
	var maxInFlight atomic.Int32
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			permit, err := tc.Admit(context.Background(), route)
			if err != nil {
				t.Error(err)
				return
			}
			cur := inFlight.Add(1)
			for {
				m := maxInFlight.Load()
				if cur <= m || maxInFlight.CompareAndSwap(m, cur) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			inFlight.Add(-1)
			permit.Ingest(gateway.RateLimitHeaders{
				Present: true, Limit: 5, Remaining: 4, ResetAfter: 1,
			}, http.StatusOK)
			permit.Release()
		}()
	}
	wg.Wait()

	if got := maxInFlight.Load(); got != 1 {
		t.Fatalf("max concurrent probes = %d, want 1", got)
	}
}

// TestFIFOWaiterOrder keeps the bucket unknown throughout (no Ingest is ever
// called), so only one waiter is ever admitted at a time: each must record
// its index and then explicitly be told to Release before the next one can
// be granted. That forces deterministic single-file admission instead of
// relying on however the runtime happens to schedule n goroutines woken at
// once.
func TestFIFOWaiterOrder(t *testing.T) {
	tc := newTokenClient()
	route := testRoute("/fifo")

	first, err := tc.Admit(context.Background(), route)
	if err != nil {
		t.Fatal(err)
	}

	const n = 5
	order := make(chan int)
	proceed := make(chan struct{})
	var startWg sync.WaitGroup
	startWg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			startWg.Done()
			time.Sleep(time.Duration(i) * 10 * time.Millisecond)
			p, err := tc.Admit(context.Background(), route)
			if err != nil {
				t.Error(err)
				return
			}
			order <- i
			<-proceed
			p.Release()
		}(i)
	}
	startWg.Wait()
	time.Sleep(80 * time.Millisecond) // let all n goroutines enqueue behind the probe

	first.Release() // still unknown state: admits exactly the front waiter

	got := make([]int, 0, n)
	for i := 0; i < n; i++ {
		select {
		case v := <-order:
			got = append(got, v)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for waiter %d; got so far %v", i, got)
		}
		proceed <- struct{}{} // release this waiter, admitting the next
	}
	for i := 0; i < n; i++ {
		if got[i] != i {
			t.Fatalf("waiter order = %v, want ascending enqueue order", got)
		}
	}
}

func TestGlobalGateBlocksAllBucketsOnTokenClient(t *testing.T) {
	tc := newTokenClient()
	routeA := testRoute("/a")
	routeB := testRoute("/b")

	p, err := tc.Admit(context.Background(), routeA)
	if err != nil {
		t.Fatal(err)
	}
	p.Ingest(gateway.RateLimitHeaders{Present: true, Global: true, RetryAfter: 0.1}, http.StatusTooManyRequests)
	p.Release()

	start := time.Now()
	pb, err := tc.Admit(context.Background(), routeB)
	if err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Fatalf("admission on different bucket returned after %v, expected to block on global gate", elapsed)
	}
	pb.Release()
}

func TestGlobalGateDoesNotBlockOtherTokenClients(t *testing.T) {
	reg := NewRegistry(0, time.Hour)
	tcA := reg.GetOrCreate("token-a")
	tcB := reg.GetOrCreate("token-b")
	route := testRoute("/shared-path")

	p, err := tcA.Admit(context.Background(), route)
	if err != nil {
		t.Fatal(err)
	}
	p.Ingest(gateway.RateLimitHeaders{Present: true, Global: true, RetryAfter: 5}, http.StatusTooManyRequests)
	p.Release()

	done := make(chan struct{})
	go func() {
		pb, err := tcB.Admit(context.Background(), route)
		if err != nil {
			t.Error(err)
			return
		}
		pb.Release()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("admission on a different TokenClient blocked by another token's global gate")
	}
}

func TestHeaderIngestionIsIdempotent(t *testing.T) {
	b := newBucket()
	h := gateway.RateLimitHeaders{Present: true, Limit: 5, Remaining: 3, ResetAfter: 10}
	b.ingest(h, http.StatusOK)
	first := snapshot(b)
	b.ingest(h, http.StatusOK)
	second := snapshot(b)
	if first != second {
		t.Fatalf("ingesting identical headers twice changed state: %+v vs %+v", first, second)
	}
}

type bucketSnapshot struct {
	limit, remaining int64
	scope            gateway.Scope
}

func snapshot(b *bucket) bucketSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bucketSnapshot{limit: b.limit, remaining: b.remaining, scope: b.scope}
}

func TestResetAfterZeroDoesNotBusyLoop(t *testing.T) {
	b := newBucket()
	b.ingest(gateway.RateLimitHeaders{Present: true, Limit: 1, Remaining: 0, ResetAfter: 0}, http.StatusOK)

	done := make(chan error, 1)
	go func() { _, err := b.admit(context.Background()); done <- err }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(time.Second):
		t.Fatal("admit blocked despite ResetAfter=0")
	}
}

func TestRemainingZeroPastResetRefillsBeforeAdmitting(t *testing.T) {
	b := newBucket()
	b.ingest(gateway.RateLimitHeaders{Present: true, Limit: 3, Remaining: 0, ResetAfter: 0.01}, http.StatusOK)
	time.Sleep(30 * time.Millisecond) // let resetAt fall into the past

	if _, err := b.admit(context.Background()); err != nil {
		t.Fatal(err)
	}
	snap := snapshot(b)
	if snap.remaining != 2 {
		t.Fatalf("remaining after refill+admit = %d, want 2 (limit 3 minus this admission)", snap.remaining)
	}
}

func TestRegistryLRUEvictionRespectsMaxSize(t *testing.T) {
	reg := NewRegistry(2, time.Hour)
	reg.GetOrCreate("a")
	reg.GetOrCreate("b")
	reg.GetOrCreate("c")
	if got := reg.Len(); got != 2 {
		t.Fatalf("registry size = %d, want 2", got)
	}
}

func TestRegistrySkipsEvictingActiveClient(t *testing.T) {
	reg := NewRegistry(1, time.Hour)
	a := reg.GetOrCreate("a")
	permit, err := a.Admit(context.Background(), testRoute("/x"))
	if err != nil {
		t.Fatal(err)
	}
	reg.GetOrCreate("b")
	if got := reg.Len(); got != 2 {
		t.Fatalf("registry evicted an entry with an active permit: size = %d, want 2", got)
	}
	permit.Release()
}

func TestRegistryReapIdle(t *testing.T) {
	reg := NewRegistry(0, 10*time.Millisecond)
	reg.GetOrCreate("a")
	time.Sleep(30 * time.Millisecond)
	n := reg.ReapIdle(time.Now())
	if n != 1 {
		t.Fatalf("reaped %d entries, want 1", n)
	}
	if got := reg.Len(); got != 0 {
		t.Fatalf("registry size after reap = %d, want 0", got)
	}
}

func TestReapSkipsActiveClient(t *testing.T) {
	reg := NewRegistry(0, 10*time.Millisecond)
	a := reg.GetOrCreate("a")
	permit, err := a.Admit(context.Background(), testRoute("/x"))
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(30 * time.Millisecond)
	n := reg.ReapIdle(time.Now())
	if n != 0 {
		t.Fatalf("reaped %d active entries, want 0", n)
	}
	permit.Release()
}
