package forward

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestForwardStreamsStatusAndBody(t *testing.T) {
	var gotPath string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("X-RateLimit-Limit", "5")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"1"}`))
	}))
	defer upstream.Close()

	f := New(upstream.Client(), upstream.URL, "")
	r := httptest.NewRequest(http.MethodPost, "/api/v10/channels/1/messages", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	status, headers, err := f.Forward(context.Background(), rec, r, "/api/v10/channels/1/messages")
	if err != nil {
		t.Fatal(err)
	}
	if status != http.StatusCreated {
		t.Errorf("status = %d, want 201", status)
	}
	if headers.Get("X-RateLimit-Limit") != "5" {
		t.Errorf("missing ingested rate limit header")
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("recorder status = %d, want 201", rec.Code)
	}
	if rec.Body.String() != `{"id":"1"}` {
		t.Errorf("body = %q", rec.Body.String())
	}
	if gotPath != "/api/v10/channels/1/messages" {
		t.Errorf("upstream received path %q, want the full /api prefix preserved", gotPath)
	}
}

func TestForwardInjectsDefaultTokenWhenAbsent(t *testing.T) {
	var gotAuth string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	f := New(upstream.Client(), upstream.URL, "mytoken")
	r := httptest.NewRequest(http.MethodGet, "/gateway", nil)
	rec := httptest.NewRecorder()

	if _, _, err := f.Forward(context.Background(), rec, r, "/gateway"); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bot mytoken" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bot mytoken")
	}
}

func TestForwardPreservesCallerAuthorization(t *testing.T) {
	var gotAuth string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	f := New(upstream.Client(), upstream.URL, "defaulttoken")
	r := httptest.NewRequest(http.MethodGet, "/users/@me", nil)
	r.Header.Set("Authorization", "Bearer usertoken")
	rec := httptest.NewRecorder()

	if _, _, err := f.Forward(context.Background(), rec, r, "/users/@me"); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer usertoken" {
		t.Errorf("Authorization = %q, want caller's own value preserved", gotAuth)
	}
}

func TestForwardInjectsUserAgentWhenAbsent(t *testing.T) {
	var gotUA string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	f := New(upstream.Client(), upstream.URL, "")
	r := httptest.NewRequest(http.MethodGet, "/gateway", nil)
	r.Header.Del("User-Agent")
	rec := httptest.NewRecorder()

	if _, _, err := f.Forward(context.Background(), rec, r, "/gateway"); err != nil {
		t.Fatal(err)
	}
	if gotUA != defaultUserAgent {
		t.Errorf("User-Agent = %q, want injected default %q", gotUA, defaultUserAgent)
	}
}

func TestForwardPreservesCallerUserAgent(t *testing.T) {
	var gotUA string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	f := New(upstream.Client(), upstream.URL, "")
	r := httptest.NewRequest(http.MethodGet, "/gateway", nil)
	r.Header.Set("User-Agent", "MyDiscordBot (https://example.com, 1.0)")
	rec := httptest.NewRecorder()

	if _, _, err := f.Forward(context.Background(), rec, r, "/gateway"); err != nil {
		t.Fatal(err)
	}
	if gotUA != "MyDiscordBot (https://example.com, 1.0)" {
		t.Errorf("User-Agent = %q, want caller's own value preserved", gotUA)
	}
}

func TestForwardStripsHopByHopHeaders(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Connection") != "" {
			t.Errorf("hop-by-hop header leaked to upstream: Connection=%q", r.Header.Get("Connection"))
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	f := New(upstream.Client(), upstream.URL, "")
	r := httptest.NewRequest(http.MethodGet, "/gateway", nil)
	r.Header.Set("Connection", "keep-alive")
	rec := httptest.NewRecorder()

	if _, _, err := f.Forward(context.Background(), rec, r, "/gateway"); err != nil {
		t.Fatal(err)
	}
}

func TestForwardUpstreamErrorBodyStillStreamed(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":10003,"message":"Unknown Channel"}`))
	}))
	defer upstream.Close()

	f := New(upstream.Client(), upstream.URL, "")
	r := httptest.NewRequest(http.MethodGet, "/channels/999", nil)
	rec := httptest.NewRecorder()

	status, _, err := f.Forward(context.Background(), rec, r, "/channels/999")
	if err != nil {
		t.Fatal(err)
	}
	if status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", status)
	}
	if rec.Body.String() != `{"code":10003,"message":"Unknown Channel"}` {
		t.Errorf("error body not streamed verbatim: %q", rec.Body.String())
	}
}

func TestForwardConnectFailureReturnsUpstreamFailure(t *testing.T) {
	f := New(http.DefaultClient, "http://127.0.0.1:1", "")
	r := httptest.NewRequest(http.MethodGet, "/gateway", nil)
	rec := httptest.NewRecorder()

	if _, _, err := f.Forward(context.Background(), rec, r, "/gateway"); err == nil {
		t.Fatal("expected error dialing an unreachable upstream")
	}
}
