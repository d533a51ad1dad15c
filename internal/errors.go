package gateway

import "errors"

// Sentinel errors for the proxy domain. errorStatus in internal/server maps
// these to HTTP status codes via errors.Is.
var (
	// ErrUnsupportedRoute means the request's method+path did not classify
	// into any known Discord route template.
	ErrUnsupportedRoute = errors.New("unsupported route")
	// ErrMalformedUpstreamURI means the upstream URI could not be built
	// from the incoming request (should be unreachable in practice).
	ErrMalformedUpstreamURI = errors.New("malformed upstream uri")
	// ErrRateLimiterInternal marks an invariant violation inside the
	// admission pipeline (poisoned lock, impossible bucket state).
	ErrRateLimiterInternal = errors.New("ratelimiter internal error")
	// ErrUpstreamFailure wraps a connect/TLS/read/write/timeout error
	// talking to discord.com.
	ErrUpstreamFailure = errors.New("upstream request failed")
)
