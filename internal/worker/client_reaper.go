package worker

import (
	"context"
	"log/slog"
	"time"
)

// ClientRegistry is the Client cache surface ClientReaper depends on.
type ClientRegistry interface {
	ReapIdle(now time.Time) int
	Len() int
}

// ActiveGauge receives the current count of cached TokenClients each sweep.
// Satisfied by a prometheus.Gauge; nil disables reporting.
type ActiveGauge interface {
	Set(float64)
}

// ClientReaper periodically evicts TokenClients idle longer than the
// registry's own decay timeout, and reports the surviving count to gauge.
// Eviction itself lives in the registry; this worker only supplies the
// clock.
type ClientReaper struct {
	registry ClientRegistry
	gauge    ActiveGauge
	interval time.Duration
}

// NewClientReaper creates a ClientReaper that sweeps registry every interval
// and reports its size to gauge (nil disables reporting).
func NewClientReaper(registry ClientRegistry, gauge ActiveGauge, interval time.Duration) *ClientReaper {
	return &ClientReaper{registry: registry, gauge: gauge, interval: interval}
}

// Name returns the worker identifier.
func (w *ClientReaper) Name() string { return "client_reaper" }

// Run sweeps the registry on a ticker until ctx is cancelled.
func (w *ClientReaper) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := w.registry.ReapIdle(time.Now()); n > 0 {
				slog.Info("reaped idle token clients", "count", n)
			}
			if w.gauge != nil {
				w.gauge.Set(float64(w.registry.Len()))
			}
		case <-ctx.Done():
			return nil
		}
	}
}
