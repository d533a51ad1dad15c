// Package telemetry provides observability primitives for the proxy.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arcrelay/discordrl/internal/cache"
)

// tupleLabels is the (method, route template, status, scope) key a
// histogram observation is recorded against, and what gets cleared from
// RequestDuration when the tuple ages out.
type tupleLabels struct {
	method string
	route  string
	status string
	scope  string
}

func (t tupleLabels) values() []string { return []string{t.method, t.route, t.status, t.scope} }

// Metrics holds the Prometheus collectors exposed on /metrics, plus the
// bookkeeping needed to age out idle route tuples per the metric-entry
// eviction rule.
type Metrics struct {
	RequestDuration    *prometheus.HistogramVec // labels: method, route, status, scope
	TokenClientsActive prometheus.Gauge
	BucketProbesTotal  *prometheus.CounterVec // labels: route
	ClassifyCacheHits  prometheus.Counter
	ClassifyCacheMiss  prometheus.Counter

	mu       sync.Mutex
	tuples   map[string]tupleLabels
	liveness *cache.Memory[string, struct{}]
}

// NewMetrics creates and registers the proxy's collectors under metricKey
// as the request-duration histogram's name, and ages tuples out of it
// after metricTimeout of inactivity.
func NewMetrics(reg prometheus.Registerer, metricKey string, metricTimeout time.Duration) (*Metrics, error) {
	const maxTrackedTuples = 100_000
	liveness, err := cache.NewMemory[string, struct{}](maxTrackedTuples, metricTimeout, cache.AccessTTL)
	if err != nil {
		return nil, err
	}

	m := &Metrics{
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:                            metricKey,
			Help:                            "Duration of proxied Discord API requests, from permit grant to last response byte.",
			NativeHistogramBucketFactor:     1.1,
			NativeHistogramMaxBucketNumber:  100,
			NativeHistogramMinResetDuration: 0,
		}, []string{"method", "route", "status", "scope"}),

		TokenClientsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "discordrl",
			Name:      "tokenclients_active",
			Help:      "Number of TokenClients currently cached.",
		}),

		BucketProbesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "discordrl",
			Name:      "bucket_probes_total",
			Help:      "Total number of unknown-bucket probe admissions, by route template.",
		}, []string{"route"}),

		ClassifyCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "discordrl",
			Name:      "classify_cache_hits_total",
			Help:      "Total route-classification cache hits.",
		}),

		ClassifyCacheMiss: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "discordrl",
			Name:      "classify_cache_misses_total",
			Help:      "Total route-classification cache misses.",
		}),

		tuples:   make(map[string]tupleLabels),
		liveness: liveness,
	}

	reg.MustRegister(
		m.RequestDuration,
		m.TokenClientsActive,
		m.BucketProbesTotal,
		m.ClassifyCacheHits,
		m.ClassifyCacheMiss,
	)

	return m, nil
}

// Observe records one completed request's duration against its
// (method, route, status, scope) tuple and marks that tuple live.
func (m *Metrics) Observe(method, route, status, scope string, d time.Duration) {
	t := tupleLabels{method: method, route: route, status: status, scope: scope}
	key := method + " " + route + " " + status + " " + scope

	m.mu.Lock()
	m.tuples[key] = t
	m.mu.Unlock()
	m.liveness.Set(context.Background(), key, struct{}{})

	m.RequestDuration.WithLabelValues(t.values()...).Observe(d.Seconds())
}

// IncBucketProbe records one unknown-bucket probe admission for route.
func (m *Metrics) IncBucketProbe(route string) {
	m.BucketProbesTotal.WithLabelValues(route).Inc()
}

// Hit and Miss satisfy route.CacheObserver, letting the route classifier
// report its cache effectiveness without importing prometheus itself.
func (m *Metrics) Hit()  { m.ClassifyCacheHits.Inc() }
func (m *Metrics) Miss() { m.ClassifyCacheMiss.Inc() }

// ReapStale drops RequestDuration series for tuples that have not been
// observed within the metric-timeout window, so idle or one-off routes
// stop cluttering scrapes. Satisfies worker.MetricRegistry.
func (m *Metrics) ReapStale(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for key, t := range m.tuples {
		if _, ok := m.liveness.Get(context.Background(), key); ok {
			continue
		}
		m.RequestDuration.DeleteLabelValues(t.values()...)
		delete(m.tuples, key)
		n++
	}
	return n
}
