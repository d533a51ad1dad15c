package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "8080" {
		t.Errorf("port = %q, want %q", cfg.Port, "8080")
	}
	if cfg.ClientDecayTimeout != defaultClientDecayTimeout {
		t.Errorf("client decay timeout = %v, want %v", cfg.ClientDecayTimeout, defaultClientDecayTimeout)
	}
	if cfg.MetricTimeout != defaultMetricTimeout {
		t.Errorf("metric timeout = %v, want %v", cfg.MetricTimeout, defaultMetricTimeout)
	}
	if cfg.ClientCacheMaxSize != 0 {
		t.Errorf("client cache max size = %d, want 0 (unbounded)", cfg.ClientCacheMaxSize)
	}
	if cfg.DisableHTTP2 {
		t.Error("DisableHTTP2 should default false")
	}
	if cfg.ClientReapInterval != defaultClientDecayTimeout/2 {
		t.Errorf("client reap interval = %v, want %v", cfg.ClientReapInterval, defaultClientDecayTimeout/2)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "abc123")
	t.Setenv("PORT", "9090")
	t.Setenv("CLIENT_DECAY_TIMEOUT", "120")
	t.Setenv("CLIENT_CACHE_MAX_SIZE", "500")
	t.Setenv("METRIC_TIMEOUT", "60")
	t.Setenv("METRIC_KEY", "custom_metric")
	t.Setenv("DISABLE_HTTP2", "1")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DiscordToken != "abc123" {
		t.Errorf("token = %q", cfg.DiscordToken)
	}
	if cfg.Port != "9090" {
		t.Errorf("port = %q", cfg.Port)
	}
	if cfg.ClientDecayTimeout != 120*time.Second {
		t.Errorf("decay timeout = %v", cfg.ClientDecayTimeout)
	}
	if cfg.ClientCacheMaxSize != 500 {
		t.Errorf("cache max size = %d", cfg.ClientCacheMaxSize)
	}
	if cfg.MetricTimeout != 60*time.Second {
		t.Errorf("metric timeout = %v", cfg.MetricTimeout)
	}
	if cfg.MetricKey != "custom_metric" {
		t.Errorf("metric key = %q", cfg.MetricKey)
	}
	if !cfg.DisableHTTP2 {
		t.Error("DisableHTTP2 should be true")
	}
}

func TestClientReapIntervalFloorsAtMinimum(t *testing.T) {
	t.Setenv("CLIENT_DECAY_TIMEOUT", "10") // half of 10s is below the 30s floor

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ClientReapInterval != minClientReapInterval {
		t.Errorf("reap interval = %v, want floor %v", cfg.ClientReapInterval, minClientReapInterval)
	}
}

func TestClientReapIntervalExplicitOverride(t *testing.T) {
	t.Setenv("CLIENT_DECAY_TIMEOUT", "3600")
	t.Setenv("CLIENT_REAP_INTERVAL", "45")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ClientReapInterval != 45*time.Second {
		t.Errorf("reap interval = %v, want 45s", cfg.ClientReapInterval)
	}
}

func TestLoadInvalidNumericEnvVarReturnsError(t *testing.T) {
	t.Setenv("CLIENT_DECAY_TIMEOUT", "not-a-number")
	if _, err := Load(); err == nil {
		t.Fatal("expected an error for a non-numeric CLIENT_DECAY_TIMEOUT")
	}
}
