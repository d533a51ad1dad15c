package ratelimit

import (
	"container/list"
	"sync"
	"time"
)

// Registry is the Client cache: token -> TokenClient, LRU-ordered, with an
// optional size cap and an idle-decay timeout enforced by the reaper.
// Entries with in-flight permits (activity > 0) are skipped by both the
// LRU evictor and the reaper; they become evictable only once every permit
// against them has been released.
type Registry struct {
	mu      sync.Mutex
	maxSize int // 0 = unbounded
	decay   time.Duration

	order *list.List // front = MRU, back = LRU
	index map[string]*list.Element
}

type registryEntry struct {
	token  string
	client *TokenClient
}

// NewRegistry creates a Registry bounded to maxSize TokenClients (0 =
// unbounded) and reaped after decay of idleness.
func NewRegistry(maxSize int, decay time.Duration) *Registry {
	return &Registry{
		maxSize: maxSize,
		decay:   decay,
		order:   list.New(),
		index:   make(map[string]*list.Element),
	}
}

// GetOrCreate resolves token to its TokenClient, creating one on miss and
// moving it to the MRU position either way.
func (r *Registry) GetOrCreate(token string) *TokenClient {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.index[token]; ok {
		r.order.MoveToFront(e)
		return e.Value.(*registryEntry).client
	}

	client := newTokenClient()
	e := r.order.PushFront(&registryEntry{token: token, client: client})
	r.index[token] = e
	r.evictExcessLocked()
	return client
}

// Len reports the number of TokenClients currently cached.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.order.Len()
}

// evictExcessLocked drops LRU entries until the registry is back at
// maxSize, skipping any entry with permits still in flight and never
// evicting the entry just inserted at the MRU position. If every older
// entry is active, the registry is left oversized rather than breaking an
// in-flight request.
func (r *Registry) evictExcessLocked() {
	if r.maxSize <= 0 {
		return
	}
	excess := r.order.Len() - r.maxSize
	newest := r.order.Front()
	for e := r.order.Back(); e != nil && e != newest && excess > 0; {
		prev := e.Prev()
		entry := e.Value.(*registryEntry)
		if entry.client.activity.Load() == 0 {
			r.order.Remove(e)
			delete(r.index, entry.token)
			excess--
		}
		e = prev
	}
}

// ReapIdle evicts every TokenClient idle longer than the registry's decay
// timeout, skipping any with permits in flight. It takes only the
// registry's own lock, never a TokenClient's -- the reaper reads activity
// via an atomic load, per the lock-order rule (Client-cache -> TokenClient
// -> Bucket) that forbids the reaper from acquiring TokenClient locks.
func (r *Registry) ReapIdle(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for e := r.order.Back(); e != nil; {
		prev := e.Prev()
		entry := e.Value.(*registryEntry)
		if entry.client.activity.Load() == 0 && now.Sub(entry.client.idleSince()) > r.decay {
			r.order.Remove(e)
			delete(r.index, entry.token)
			n++
		}
		e = prev
	}
	return n
}
