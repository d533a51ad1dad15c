// Package gateway defines domain types shared across the proxy's packages.
// This package has no project imports -- it is the dependency root.
package gateway

import (
	"context"
	"net/http"
	"strconv"
)

// parseInt and parseFloat tolerate malformed headers by returning 0 rather
// than propagating an error -- a malformed rate-limit header should degrade
// gracefully, not fail the request it rode in on.
func parseInt(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

// Scope is Discord's classification of a 429 response's reach.
type Scope string

const (
	ScopeUnknown Scope = ""
	ScopeUser    Scope = "user"
	ScopeShared  Scope = "shared"
	ScopeGlobal  Scope = "global"
)

// MajorParams holds the path identifiers that Discord treats as
// bucket-separating: guild, channel, and webhook identity. Two requests
// with the same (method, template) but different MajorParams never share
// a bucket.
type MajorParams struct {
	GuildID          string
	ChannelID        string
	WebhookID        string
	WebhookToken     string
	InteractionToken string
}

// Route is the canonical (method, path-template, major-tuple) identifier
// Discord's rate limiter keys its buckets on. It is immutable once
// computed and is a pure function of (method, path).
type Route struct {
	Method   string
	Template string
	Majors   MajorParams
}

// BucketKey returns the string that two Routes must share to be the same
// rate-limit bucket: method + template + major parameters. Unlike Route
// itself (which is a plain comparable struct and works fine as a map key
// on its own), BucketKey exists for logging and metrics where a flat
// string is more convenient than formatting a struct.
func (r Route) BucketKey() string {
	return r.Method + " " + r.Template + " " +
		r.Majors.GuildID + "|" + r.Majors.ChannelID + "|" +
		r.Majors.WebhookID + "|" + r.Majors.WebhookToken + "|" + r.Majors.InteractionToken
}

// RateLimitHeaders is the parsed set of Discord rate-limit response
// headers (see spec.md sec 4.2). Fields are zero-valued when the
// corresponding header was absent.
type RateLimitHeaders struct {
	Present    bool // at least one of Limit, Remaining, Reset, Reset-After was present
	Limit      int64
	Remaining  int64
	ResetAfter float64 // seconds; preferred over Reset to avoid clock skew
	Reset      float64 // unix epoch seconds, float
	Bucket     string  // advisory hash; classification remains authoritative
	Scope      Scope
	Global     bool
	RetryAfter float64 // seconds; only meaningful on 429
}

// ParseRateLimitHeaders extracts Discord's rate-limit headers from an
// upstream response. Absent headers leave their field at the zero value.
// Present is set only by X-RateLimit-Limit, -Remaining, -Reset and
// -Reset-After; the Bucket, Scope and Global headers alone leave it false.
func ParseRateLimitHeaders(h http.Header, status int) RateLimitHeaders {
	var out RateLimitHeaders
	if v := h.Get("X-RateLimit-Limit"); v != "" {
		out.Present = true
		out.Limit = parseInt(v)
	}
	if v := h.Get("X-RateLimit-Remaining"); v != "" {
		out.Present = true
		out.Remaining = parseInt(v)
	}
	if v := h.Get("X-RateLimit-Reset"); v != "" {
		out.Present = true
		out.Reset = parseFloat(v)
	}
	if v := h.Get("X-RateLimit-Reset-After"); v != "" {
		out.Present = true
		out.ResetAfter = parseFloat(v)
	}
	out.Bucket = h.Get("X-RateLimit-Bucket")
	out.Scope = Scope(h.Get("X-RateLimit-Scope"))
	if v := h.Get("X-RateLimit-Global"); v != "" {
		out.Global = v == "true" || v == "1"
	}
	if status == http.StatusTooManyRequests {
		if v := h.Get("Retry-After"); v != "" {
			out.RetryAfter = parseFloat(v)
		}
	}
	return out
}

// --- Context keys ---

type contextKey int

const ctxKeyRequestID contextKey = 0

// RequestIDFromContext extracts the request ID from context, or "" if none.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}

// ContextWithRequestID returns a context carrying the given request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, id)
}
