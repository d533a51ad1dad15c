package worker

import (
	"context"
	"time"
)

// DNSResolver is the cache refresh surface DNSRefresher depends on,
// satisfied by *dnscache.Resolver.
type DNSResolver interface {
	Refresh(clearUnused bool)
}

// DNSRefresher periodically refreshes a shared DNS cache so the outbound
// transport to discord.com doesn't serve a stale address after a DNS
// change. The teacher runs this as a bare goroutine in run.go; here it's
// a Worker so the runner supervises it like everything else.
type DNSRefresher struct {
	resolver DNSResolver
	interval time.Duration
}

// NewDNSRefresher creates a DNSRefresher that refreshes resolver every interval.
func NewDNSRefresher(resolver DNSResolver, interval time.Duration) *DNSRefresher {
	return &DNSRefresher{resolver: resolver, interval: interval}
}

// Name returns the worker identifier.
func (w *DNSRefresher) Name() string { return "dns_refresher" }

// Run refreshes the resolver on a ticker until ctx is cancelled.
func (w *DNSRefresher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.resolver.Refresh(true)
		case <-ctx.Done():
			return nil
		}
	}
}
