// Package config resolves the proxy's entire configuration surface from
// environment variables -- there is no config file to parse.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds every tunable the proxy reads at startup.
type Config struct {
	DiscordToken string // DISCORD_TOKEN: default bearer token, "" disables injection

	Port string // PORT: TCP port to bind

	ClientDecayTimeout time.Duration // CLIENT_DECAY_TIMEOUT, default 3600s
	ClientCacheMaxSize int           // CLIENT_CACHE_MAX_SIZE, 0 = unbounded
	ClientReapInterval time.Duration // CLIENT_REAP_INTERVAL, default ClientDecayTimeout/2 floored at 30s

	MetricTimeout time.Duration // METRIC_TIMEOUT, default 300s
	MetricKey     string        // METRIC_KEY, histogram metric name

	DisableHTTP2 bool // DISABLE_HTTP2: any non-empty value forces HTTP/1.1

	ShutdownTimeout time.Duration // SHUTDOWN_TIMEOUT, default 10s; not in the public env table
}

const (
	defaultClientDecayTimeout = 3600 * time.Second
	defaultMetricTimeout      = 300 * time.Second
	defaultMetricKey          = "discord_request_duration_seconds"
	defaultShutdownTimeout    = 10 * time.Second
	minClientReapInterval     = 30 * time.Second
)

// Load resolves Config from the process environment.
func Load() (*Config, error) {
	cfg := &Config{
		DiscordToken:       os.Getenv("DISCORD_TOKEN"),
		Port:               os.Getenv("PORT"),
		ClientDecayTimeout: defaultClientDecayTimeout,
		MetricTimeout:      defaultMetricTimeout,
		MetricKey:          defaultMetricKey,
		ShutdownTimeout:    defaultShutdownTimeout,
		DisableHTTP2:       os.Getenv("DISABLE_HTTP2") != "",
	}

	if v := os.Getenv("CLIENT_DECAY_TIMEOUT"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse CLIENT_DECAY_TIMEOUT: %w", err)
		}
		cfg.ClientDecayTimeout = time.Duration(secs) * time.Second
	}

	if v := os.Getenv("CLIENT_CACHE_MAX_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse CLIENT_CACHE_MAX_SIZE: %w", err)
		}
		cfg.ClientCacheMaxSize = n
	}

	if v := os.Getenv("METRIC_TIMEOUT"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse METRIC_TIMEOUT: %w", err)
		}
		cfg.MetricTimeout = time.Duration(secs) * time.Second
	}

	if v := os.Getenv("METRIC_KEY"); v != "" {
		cfg.MetricKey = v
	}

	cfg.ClientReapInterval = cfg.ClientDecayTimeout / 2
	if cfg.ClientReapInterval < minClientReapInterval {
		cfg.ClientReapInterval = minClientReapInterval
	}
	if v := os.Getenv("CLIENT_REAP_INTERVAL"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse CLIENT_REAP_INTERVAL: %w", err)
		}
		cfg.ClientReapInterval = time.Duration(secs) * time.Second
	}

	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.ShutdownTimeout = time.Duration(secs) * time.Second
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	return cfg, nil
}
