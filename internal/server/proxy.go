package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	gateway "github.com/arcrelay/discordrl/internal"
	"github.com/arcrelay/discordrl/internal/route"
)

// bearerToken extracts the bot token from an Authorization header of the
// form "Bot <token>" or "Bearer <token>". Discord only recognizes "Bot" in
// production, but proxied clients sometimes send "Bearer"; both key the
// same TokenClient as long as the literal token matches. An absent header
// keys the empty-string TokenClient, which shares DefaultToken's bucket
// state across every caller that relies on the proxy's injected token.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	if i := strings.IndexByte(auth, ' '); i >= 0 {
		return auth[i+1:]
	}
	return auth
}

// handleProxy classifies the request, admits it against the caller's
// token-scoped rate limiter, forwards it to Discord (streaming the reply to
// the caller), and then feeds the response's rate-limit headers back into
// the limiter before the permit is released.
func (s *server) handleProxy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	path, ok := route.StripAPIPrefix(r.URL.Path)
	if !ok {
		writeText(w, http.StatusNotImplemented, unsupportedRouteBody(r.Method, r.URL.Path))
		return
	}

	rt, _, err := s.deps.Classifier.Classify(ctx, r.Method, path)
	if err != nil {
		if errors.Is(err, gateway.ErrUnsupportedRoute) {
			writeText(w, http.StatusNotImplemented, unsupportedRouteBody(r.Method, r.URL.Path))
			return
		}
		writeJSON(w, errorStatus(err), errorResponse(err.Error()))
		return
	}

	token := bearerToken(r)
	client := s.deps.RateLimiter.GetOrCreate(token)

	permit, err := client.Admit(ctx, rt)
	if err != nil {
		writeJSON(w, errorStatus(err), errorResponse(err.Error()))
		return
	}
	defer permit.Release()
	start := time.Now()

	if permit.IsProbe() && s.deps.Metrics != nil {
		s.deps.Metrics.IncBucketProbe(rt.Template)
	}

	status, headers, err := s.deps.Forwarder.Forward(ctx, w, r, r.URL.Path)
	if err != nil {
		// Forward only returns an error before writing any bytes to w.
		writeJSON(w, errorStatus(err), errorResponse(err.Error()))
		return
	}

	permit.Ingest(gateway.ParseRateLimitHeaders(headers, status), status)

	if s.deps.Metrics != nil {
		s.deps.Metrics.Observe(r.Method, rt.Template, strconv.Itoa(status), string(permit.Scope()), time.Since(start))
	}
}
