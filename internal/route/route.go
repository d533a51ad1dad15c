// Package route classifies an inbound method+path into the canonical Route
// Discord's rate limiter keys its buckets on.
package route

import (
	"strings"

	gateway "github.com/arcrelay/discordrl/internal"
)

// StripAPIPrefix removes an optional "/api" prefix, optionally followed by
// "/v<digits>". Both are optional per the URL grammar, so "/channels/123"
// and "/api/channels/123" and "/api/v10/channels/123" all strip down to
// "/channels/123". A bare "/v<N>" without a leading "/api" is rejected, as
// is "/api/v<N>" where N is not all-digits -- both look like an attempted
// version marker that the client botched, not a resource named "v<N>".
func StripAPIPrefix(path string) (string, bool) {
	rest := path
	hadAPI := false
	if trimmed, ok := cutSegment(rest, "api"); ok {
		rest = trimmed
		hadAPI = true
	}
	if seg, after, ok := firstSegment(rest); ok && looksLikeVersion(seg) {
		if !isSnowflake(seg[1:]) {
			return "", false
		}
		if !hadAPI {
			return "", false
		}
		rest = after
	}
	return rest, true
}

// looksLikeVersion reports whether seg signals an attempted API version
// marker: a leading 'v' immediately followed by a digit. "voice" fails this
// (second rune isn't a digit) so it is never mistaken for a botched version
// number; "v8" and "v8a" both pass it, the latter then failing the
// all-digits check in StripAPIPrefix and being rejected.
func looksLikeVersion(seg string) bool {
	if len(seg) < 2 || seg[0] != 'v' {
		return false
	}
	return seg[1] >= '0' && seg[1] <= '9'
}

// cutSegment removes a single leading path segment equal to name, if present.
func cutSegment(path, name string) (string, bool) {
	seg, after, ok := firstSegment(path)
	if !ok || seg != name {
		return path, false
	}
	return after, true
}

// firstSegment returns the first non-empty segment of path and the
// remainder (including its own leading slash), or ok=false if path has no
// segments.
func firstSegment(path string) (seg string, rest string, ok bool) {
	p := strings.TrimPrefix(path, "/")
	if p == "" {
		return "", path, false
	}
	if i := strings.IndexByte(p, '/'); i >= 0 {
		return p[:i], "/" + p[i+1:], true
	}
	return p, "", true
}

// split breaks a path into non-empty segments, ignoring a trailing slash.
func split(path string) []string {
	p := strings.Trim(path, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// isSnowflake reports whether s is a non-empty all-digit string. Discord
// snowflakes exceed 64 bits in string form on occasion; length is not
// bounded here.
func isSnowflake(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isSnowflakeOrMe reports whether s is a snowflake or the literal "@me".
func isSnowflakeOrMe(s string) bool {
	return s == "@me" || isSnowflake(s)
}

// families maps a top-level resource name to its route table. Declared as a
// var (not a literal map in Classify) so each family's table is built once.
var families = map[string][]routeDef{
	"channels":        channelRoutes,
	"guilds":          guildRoutes,
	"users":           userRoutes,
	"webhooks":        webhookRoutes,
	"applications":    applicationRoutes,
	"invites":         inviteRoutes,
	"interactions":    interactionRoutes,
	"stage-instances": stageInstanceRoutes,
	"voice":           voiceRoutes,
	"gateway":         gatewayRoutes,
	"oauth2":          oauth2Routes,
	"sticker-packs":   stickerPackRoutes,
}

// Classify maps method and a path (already stripped of any /api[/vN] prefix)
// to a Route. The second return value holds every named path parameter
// matched (major and non-major alike), useful for rendering the path back
// from the template. ErrUnsupportedRoute is returned when no family's table
// has a pattern matching both path shape and method.
func Classify(method, path string) (gateway.Route, map[string]string, error) {
	if method == "" || path == "" {
		return gateway.Route{}, nil, gateway.ErrUnsupportedRoute
	}
	segs := split(path)
	if len(segs) == 0 {
		return gateway.Route{}, nil, gateway.ErrUnsupportedRoute
	}
	defs, ok := families[segs[0]]
	if !ok {
		return gateway.Route{}, nil, gateway.ErrUnsupportedRoute
	}
	for _, def := range defs {
		vals, ok := matchPattern(def.pattern, segs)
		if !ok {
			continue
		}
		if !methodAllowed(def.methods, method) {
			continue
		}
		route := gateway.Route{
			Method:   method,
			Template: def.template,
			Majors:   buildMajors(vals),
		}
		return route, vals, nil
	}
	return gateway.Route{}, nil, gateway.ErrUnsupportedRoute
}

func methodAllowed(methods []string, method string) bool {
	for _, m := range methods {
		if m == method {
			return true
		}
	}
	return false
}

func buildMajors(vals map[string]string) gateway.MajorParams {
	return gateway.MajorParams{
		GuildID:          vals["guild_id"],
		ChannelID:        vals["channel_id"],
		WebhookID:        vals["webhook_id"],
		WebhookToken:     vals["webhook_token"],
		InteractionToken: vals["interaction_token"],
	}
}

// Render substitutes every {name} placeholder in template with vals[name],
// reconstructing the concrete path a Route template was classified from.
// Placeholders with no matching value are left untouched.
func Render(template string, vals map[string]string) string {
	out := template
	for name, val := range vals {
		out = strings.ReplaceAll(out, "{"+name+"}", val)
	}
	return out
}

// --- pattern matching primitives ---

type tokKind byte

const (
	tokLiteral tokKind = iota
	tokID
	tokIDOrMe
	tokOpaque
)

type tok struct {
	kind tokKind
	lit  string
	name string
}

func lit(s string) tok       { return tok{kind: tokLiteral, lit: s} }
func id(name string) tok     { return tok{kind: tokID, name: name} }
func idOrMe(name string) tok { return tok{kind: tokIDOrMe, name: name} }

// opaque matches any single non-empty segment without validating its shape:
// webhook tokens, interaction tokens, emoji names, and invite/template codes
// are not snowflakes.
func opaque(name string) tok { return tok{kind: tokOpaque, name: name} }

// routeDef is one entry in a family's route table: the methods it accepts,
// the segment pattern it matches, and the template it classifies to.
type routeDef struct {
	methods  []string
	pattern  []tok
	template string
}

// newRoute builds a routeDef, deriving its template string from the pattern
// itself so the table never states a template twice.
func newRoute(methods []string, pattern ...tok) routeDef {
	segs := make([]string, len(pattern))
	for i, t := range pattern {
		switch t.kind {
		case tokLiteral:
			segs[i] = t.lit
		default:
			segs[i] = "{" + t.name + "}"
		}
	}
	return routeDef{
		methods:  methods,
		pattern:  pattern,
		template: "/" + strings.Join(segs, "/"),
	}
}

func matchPattern(pattern []tok, segs []string) (map[string]string, bool) {
	if len(pattern) != len(segs) {
		return nil, false
	}
	vals := make(map[string]string, len(pattern))
	for i, t := range pattern {
		s := segs[i]
		switch t.kind {
		case tokLiteral:
			if s != t.lit {
				return nil, false
			}
		case tokID:
			if !isSnowflake(s) {
				return nil, false
			}
			vals[t.name] = s
		case tokIDOrMe:
			if !isSnowflakeOrMe(s) {
				return nil, false
			}
			vals[t.name] = s
		case tokOpaque:
			vals[t.name] = s
		}
	}
	return vals, true
}
