package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/dnscache"
	"go.opentelemetry.io/otel/trace"

	"github.com/arcrelay/discordrl/internal/config"
	"github.com/arcrelay/discordrl/internal/forward"
	"github.com/arcrelay/discordrl/internal/ratelimit"
	"github.com/arcrelay/discordrl/internal/route"
	"github.com/arcrelay/discordrl/internal/server"
	"github.com/arcrelay/discordrl/internal/telemetry"
	"github.com/arcrelay/discordrl/internal/worker"
)

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	slog.Info("starting discordrl", "version", version, "port", cfg.Port)

	classifier, err := route.NewCachedClassifier(10_000)
	if err != nil {
		return err
	}

	rateLimiter := ratelimit.NewRegistry(cfg.ClientCacheMaxSize, cfg.ClientDecayTimeout)
	slog.Info("rate limiter configured",
		"client_cache_max_size", cfg.ClientCacheMaxSize,
		"client_decay_timeout", cfg.ClientDecayTimeout,
		"client_reap_interval", cfg.ClientReapInterval,
	)

	dnsResolver := &dnscache.Resolver{}
	transport := forward.NewTransport(dnsResolver, !cfg.DisableHTTP2)
	fwd := forward.New(&http.Client{Transport: transport}, forward.DefaultBaseURL, cfg.DiscordToken)

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promRegistry.MustRegister(collectors.NewGoCollector())
	metrics, err := telemetry.NewMetrics(promRegistry, cfg.MetricKey, cfg.MetricTimeout)
	if err != nil {
		return err
	}
	classifier.SetObserver(metrics)
	metricsHandler := promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{})
	slog.Info("prometheus metrics enabled", "metric_key", cfg.MetricKey, "metric_timeout", cfg.MetricTimeout)

	var tracer trace.Tracer
	var tracingShutdown func(context.Context) error
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		sampleRate := 0.1
		shutdown, err := telemetry.SetupTracing(context.Background(), endpoint, sampleRate)
		if err != nil {
			slog.Warn("tracing setup failed, continuing without tracing", "error", err)
		} else {
			tracingShutdown = shutdown
			tracer = telemetry.Tracer("discordrl/server")
			slog.Info("opentelemetry tracing enabled", "endpoint", endpoint, "sample_rate", sampleRate)
		}
	}

	handler := server.New(server.Deps{
		Classifier:     classifier,
		RateLimiter:    rateLimiter,
		Forwarder:      fwd,
		DefaultToken:   cfg.DiscordToken,
		Metrics:        metrics,
		MetricsHandler: metricsHandler,
		Tracer:         tracer,
		ReadyCheck:     func(context.Context) error { return nil },
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	runner := worker.NewRunner(
		worker.NewClientReaper(rateLimiter, metrics.TokenClientsActive, cfg.ClientReapInterval),
		worker.NewMetricReaper(metrics, cfg.MetricTimeout),
		worker.NewDNSRefresher(dnsResolver, 5*time.Minute),
	)
	workerDone := make(chan error, 1)
	go func() { workerDone <- runner.Run(workerCtx) }()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		close(errCh)
	}()

	slog.Info("discordrl ready", "addr", srv.Addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		slog.Info("shutting down", "signal", sig)
	case err, ok := <-errCh:
		if ok {
			workerCancel()
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		workerCancel()
		return err
	}

	workerCancel()
	if err := <-workerDone; err != nil {
		slog.Error("worker shutdown error", "error", err)
	}

	if tracingShutdown != nil {
		if err := tracingShutdown(shutdownCtx); err != nil {
			slog.Error("tracing shutdown error", "error", err)
		}
	}

	slog.Info("discordrl stopped")
	return nil
}
