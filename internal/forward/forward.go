package forward

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	gateway "github.com/arcrelay/discordrl/internal"
)

// DefaultBaseURL is the upstream Discord REST origin every request is
// forwarded to, regardless of the incoming Host header.
const DefaultBaseURL = "https://discord.com"

// defaultUserAgent identifies this proxy to Discord when the client itself
// sent none.
const defaultUserAgent = "discordrl (https://github.com/arcrelay/discordrl)"

// peekLimit bounds how much of an error response body is buffered for
// logging before streaming resumes; large bodies are streamed untouched.
const peekLimit = 8 << 10

// hopByHop headers that must not cross the proxy boundary in either
// direction.
var hopByHopHeaders = map[string]struct{}{
	"Connection":          {},
	"Keep-Alive":          {},
	"Proxy-Authenticate":  {},
	"Proxy-Authorization": {},
	"Te":                  {},
	"Trailer":             {},
	"Transfer-Encoding":   {},
	"Upgrade":             {},
}

// Forwarder proxies one classified request to Discord and streams the
// response back, reporting what the admission pipeline needs: the final
// status and the raw response headers for rate-limit ingestion.
type Forwarder struct {
	client       *http.Client
	baseURL      string
	defaultToken string
}

// New creates a Forwarder that dispatches through client against baseURL,
// injecting "Bot "+defaultToken as Authorization when the caller omitted
// one. defaultToken may be empty, in which case a caller-omitted
// Authorization header is left unset and Discord will 401.
func New(client *http.Client, baseURL, defaultToken string) *Forwarder {
	return &Forwarder{client: client, baseURL: baseURL, defaultToken: defaultToken}
}

// Forward builds the upstream request for path (the request path exactly
// as the client sent it, including the /api[/vN] prefix Discord itself
// expects), dispatches it, and streams the response to w. It returns the
// upstream status and response headers so the caller can ingest rate-limit
// state, even if the response body never finishes copying because the
// client went away.
//
// The outbound request runs on a context detached from r's cancellation:
// if the caller disconnects mid-flight, the upstream round trip still
// completes so its rate-limit headers are learned before the permit is
// released (see the admission pipeline's disconnect handling).
func (f *Forwarder) Forward(ctx context.Context, w http.ResponseWriter, r *http.Request, path string) (status int, headers http.Header, err error) {
	targetURL := f.baseURL + path
	if r.URL.RawQuery != "" {
		targetURL += "?" + r.URL.RawQuery
	}

	outCtx := context.WithoutCancel(ctx)
	outReq, err := http.NewRequestWithContext(outCtx, r.Method, targetURL, r.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", gateway.ErrMalformedUpstreamURI, err)
	}

	for key, vals := range r.Header {
		if _, hop := hopByHopHeaders[key]; hop {
			continue
		}
		outReq.Header[key] = vals
	}
	if outReq.Header.Get("Authorization") == "" && f.defaultToken != "" {
		outReq.Header.Set("Authorization", "Bot "+f.defaultToken)
	}
	if outReq.Header.Get("User-Agent") == "" {
		outReq.Header.Set("User-Agent", defaultUserAgent)
	}

	resp, err := f.client.Do(outReq)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", gateway.ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	for key, vals := range resp.Header {
		if _, hop := hopByHopHeaders[key]; hop {
			continue
		}
		w.Header()[key] = vals
	}
	w.WriteHeader(resp.StatusCode)

	body := io.Reader(resp.Body)
	if resp.StatusCode >= 400 {
		body = logUpstreamError(ctx, resp, body)
	}
	streamBody(w, body)

	return resp.StatusCode, resp.Header, nil
}

// logUpstreamError peeks at up to peekLimit bytes of an error body to log
// Discord's (code, message) fields without a full struct unmarshal, then
// returns a reader that replays those bytes before the rest of the body --
// the caller still streams the complete, unaltered response to the client.
func logUpstreamError(ctx context.Context, resp *http.Response, body io.Reader) io.Reader {
	if !strings.Contains(resp.Header.Get("Content-Type"), "json") {
		return body
	}
	peeked := make([]byte, peekLimit)
	n, _ := io.ReadFull(body, peeked)
	peeked = peeked[:n]

	code := gjson.GetBytes(peeked, "code")
	message := gjson.GetBytes(peeked, "message")
	slog.LogAttrs(ctx, slog.LevelWarn, "upstream error response",
		slog.Int("status", resp.StatusCode),
		slog.String("discord_code", code.String()),
		slog.String("discord_message", message.String()),
	)

	return io.MultiReader(bytes.NewReader(peeked), body)
}

// streamBody copies body to w, flushing after every chunk so the caller
// never waits on a full upstream response to start receiving bytes.
func streamBody(w http.ResponseWriter, body io.Reader) {
	flusher, canFlush := w.(http.Flusher)
	buf := make([]byte, 32*1024)
	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			if _, writeErr := w.Write(buf[:n]); writeErr != nil {
				return
			}
			if canFlush {
				flusher.Flush()
			}
		}
		if readErr != nil {
			return
		}
	}
}
