// Package server implements the HTTP transport layer for the proxy: chi
// routing, middleware, and the admission-to-forward request pipeline.
package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"

	gateway "github.com/arcrelay/discordrl/internal"
	"github.com/arcrelay/discordrl/internal/ratelimit"
	"github.com/arcrelay/discordrl/internal/telemetry"
)

// ReadyChecker reports whether the system is ready to serve traffic.
type ReadyChecker func(ctx context.Context) error

// Classifier resolves a method+path into a canonical Route. Satisfied by
// *route.CachedClassifier.
type Classifier interface {
	Classify(ctx context.Context, method, path string) (gateway.Route, map[string]string, error)
}

// Admitter resolves a bearer token to its TokenClient. Satisfied by
// *ratelimit.Registry.
type Admitter interface {
	GetOrCreate(token string) *ratelimit.TokenClient
}

// Forwarder dispatches one classified request upstream and streams the
// response back. Satisfied by *forward.Forwarder.
type Forwarder interface {
	Forward(ctx context.Context, w http.ResponseWriter, r *http.Request, path string) (status int, headers http.Header, err error)
}

// Deps holds all dependencies for the HTTP server.
type Deps struct {
	Classifier     Classifier
	RateLimiter    Admitter
	Forwarder      Forwarder
	DefaultToken   string         // injected as "Bot <token>" when the caller omits Authorization
	Metrics        *telemetry.Metrics
	MetricsHandler http.Handler // nil = no /metrics endpoint
	Tracer         trace.Tracer // nil = no distributed tracing
	ReadyCheck     ReadyChecker // nil = always ready
}

// New creates an http.Handler with all routes and middleware wired.
func New(deps Deps) http.Handler {
	s := &server{deps: deps}

	r := chi.NewRouter()

	r.Use(s.securityHeaders)
	r.Use(s.recovery)
	r.Use(s.requestID)
	r.Use(s.logging)
	if deps.Tracer != nil {
		r.Use(tracingMiddleware(deps.Tracer))
	}

	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	// Everything else is a candidate Discord API call; classification
	// decides whether it's handled or rejected with 501.
	r.HandleFunc("/*", s.handleProxy)

	return r
}

type server struct {
	deps Deps
}
