package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	gateway "github.com/arcrelay/discordrl/internal"
)

// jsonCT and plainCT are pre-allocated header value slices. Direct map
// assignment avoids the []string{v} alloc from Header.Set.
var jsonCT = []string{"application/json"}
var plainCT = []string{"text/plain; charset=utf-8"}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func errorResponse(msg string) apiError {
	var e apiError
	e.Error.Message = msg
	return e
}

// unsupportedRouteBody names the offending method and path in plain text
// so operators can grep the proxy's own logs and responses for it, rather
// than unmarshal a JSON envelope.
func unsupportedRouteBody(method, path string) string {
	return method + " " + path + ": unsupported route or method\n"
}

// errorStatus maps the proxy's sentinel errors to the response codes in
// the error-handling contract. Unrecognized errors degrade to 500.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, gateway.ErrUnsupportedRoute):
		return http.StatusNotImplemented
	case errors.Is(err, gateway.ErrMalformedUpstreamURI):
		return http.StatusInternalServerError
	case errors.Is(err, gateway.ErrRateLimiterInternal):
		return http.StatusInternalServerError
	case errors.Is(err, gateway.ErrUpstreamFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
		return
	}
	w.Header()["Content-Type"] = jsonCT
	w.WriteHeader(status)
	w.Write(data)
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header()["Content-Type"] = plainCT
	w.WriteHeader(status)
	io.WriteString(w, body)
}
