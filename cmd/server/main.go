// Package main is the entry point for the service. It wires all dependencies
// using samber/do v2, starts the HTTP server, and handles graceful shutdown
// on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/do/v2"

	adapthttp "github.com/jsamuelsen11/core-api/internal/adapters/http"
	"github.com/jsamuelsen11/core-api/internal/adapters/http/binding"
	"github.com/jsamuelsen11/core-api/internal/adapters/http/dto"
	"github.com/jsamuelsen11/core-api/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/core-api/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/core-api/internal/adapters/http/versioning"

	"github.com/jsamuelsen11/core-api/internal/adapters/clients/acl"
	"github.com/jsamuelsen11/core-api/internal/platform/config"
	"github.com/jsamuelsen11/core-api/internal/platform/health"
	"github.com/jsamuelsen11/core-api/internal/platform/httpclient"
	"github.com/jsamuelsen11/core-api/internal/platform/logging"
	"github.com/jsamuelsen11/core-api/internal/platform/telemetry"
	"github.com/jsamuelsen11/core-api/internal/ports"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	serverShutdownTimeout = 15 * time.Second
	otelShutdownTimeout   = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load(".env")

	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		return errors.New("APP_PROFILE environment variable is required (e.g. local, dev, prod)")
	}

	// Bootstrap: config, logger, telemetry.
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx := context.Background()
	otel, err := initTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	// DI container.
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, otel.metrics)

	registerDependencies(injector, cfg, logger)

	// Resolve the server (eagerly wires the full graph).
	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}

	logger.Info("service configured",
		slog.String("name", cfg.App.Name),
		slog.String("environment", cfg.App.Environment),
		slog.String("profile", profile),
		slog.String("default_api_version", cfg.API.DefaultVersion),
	)

	// Start server in background.
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// Wait for shutdown signal or server error.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	// Graceful shutdown: drain HTTP requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}

	// Wait for Start() goroutine to return.
	<-serverErr

	// Flush telemetry.
	otelCtx, otelCancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
	defer otelCancel()

	if err := otel.Shutdown(otelCtx); err != nil {
		logger.Error("telemetry shutdown error", slog.Any("error", err))
	}

	logger.Info("shutdown complete")
	return nil
}

// otelProviders bundles OpenTelemetry provider lifecycle. All fields are nil
// when telemetry is disabled.
type otelProviders struct {
	tracer  *sdktrace.TracerProvider
	meter   *sdkmetric.MeterProvider
	metrics *telemetry.Metrics
}

// Shutdown flushes both providers. Nil-safe.
func (o *otelProviders) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracer != nil {
		if err := o.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if o.meter != nil {
		if err := o.meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

func initTelemetry(ctx context.Context, cfg *config.Config) (*otelProviders, error) {
	if !cfg.Telemetry.Enabled {
		return &otelProviders{}, nil
	}

	tp, err := telemetry.InitTracer(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	mp, err := telemetry.InitMeter(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("init meter: %w", err)
	}

	metrics, err := telemetry.NewMetrics(mp, cfg.Telemetry.ServiceName)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, fmt.Errorf("creating metrics: %w", err)
	}

	return &otelProviders{
		tracer:  tp,
		meter:   mp,
		metrics: metrics,
	}, nil
}

func registerDependencies(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(i do.Injector) (*httpclient.Client, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return httpclient.New(&cfg.Client, acl.NonceServiceName, metrics, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (*acl.NonceClient, error) {
		client := do.MustInvoke[*httpclient.Client](i)
		return acl.NewNonceClient(client, cfg.Client.NoncePath, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.HealthRegistry, error) {
		registry := health.New(health.WithCheckTimeout(cfg.Client.Timeout))
		registry.Register(do.MustInvoke[*acl.NonceClient](i))
		return registry, nil
	})

	do.Provide(injector, func(i do.Injector) (*dto.Classifier, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return dto.NewClassifier(cfg.App.IsDevelopment(), logger, dto.WithMetrics(metrics)), nil
	})

	do.Provide(injector, func(_ do.Injector) (*binding.Validator, error) {
		return binding.NewValidator()
	})

	do.Provide(injector, func(_ do.Injector) (*versioning.Negotiator, error) {
		return newNegotiator(cfg.API)
	})

	do.Provide(injector, func(i do.Injector) (*handlers.GenericHandler, error) {
		nonces := do.MustInvoke[*acl.NonceClient](i)
		errs := do.MustInvoke[*dto.Classifier](i)
		return handlers.NewGenericHandler(nonces, errs), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		registry := do.MustInvoke[ports.HealthRegistry](i)
		return handlers.NewHealthHandler(registry), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		errs := do.MustInvoke[*dto.Classifier](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		routes := adapthttp.Routes{
			Generic:   do.MustInvoke[*handlers.GenericHandler](i),
			Health:    do.MustInvoke[*handlers.HealthHandler](i),
			Versions:  do.MustInvoke[*versioning.Negotiator](i),
			Errors:    errs,
			Validator: do.MustInvoke[*binding.Validator](i),
		}

		// Timeout serves the router on its own goroutine, so it and everything
		// before it wrap the mux. Middleware that reads the matched route runs
		// inside it.
		router := adapthttp.NewRouter(routes,
			middleware.OpenTelemetry(metrics),
			middleware.Logging(logger),
		)

		return middleware.Chain(
			middleware.Recovery(errs, logger),
			middleware.RequestID(),
			middleware.CorrelationID(),
			middleware.Timeout(cfg.Server.WriteTimeout),
		)(router), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler := do.MustInvoke[nethttp.Handler](i)
		return adapthttp.NewServer(cfg.Server, handler, logger), nil
	})
}

// newNegotiator builds the version negotiator. The "/v{version}" route
// segment is always read; the query parameter and header readers are added
// when configured.
func newNegotiator(cfg config.APIConfig) (*versioning.Negotiator, error) {
	readers := []versioning.Reader{versioning.URLSegment("version")}
	if cfg.QueryParam != "" {
		readers = append(readers, versioning.QueryString(cfg.QueryParam))
	}
	if cfg.Header != "" {
		readers = append(readers, versioning.Header(cfg.Header))
	}

	return versioning.New(versioning.Options{
		Default:       cfg.DefaultVersion,
		Supported:     cfg.SupportedVersions,
		Deprecated:    cfg.DeprecatedVersions,
		AssumeDefault: cfg.AssumeDefaultVersion,
		Report:        cfg.ReportVersions,
		Reader:        versioning.Combine(readers...),
	})
}
