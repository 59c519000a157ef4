package sampleapp

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fllarpy/sampleapp/config"
	"github.com/fllarpy/sampleapp/domain"
	"github.com/fllarpy/sampleapp/exporter"
	"github.com/fllarpy/sampleapp/infrastructure/storage"
	httpinstrumentation "github.com/fllarpy/sampleapp/instrumentation/http"
	"github.com/fllarpy/sampleapp/internal/server"
	"github.com/fllarpy/sampleapp/internal/service"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Version is reported in the tracing resource.
const Version = "1.0.0"

// App is the demo service with its registry, routes and optional tracing.
type App struct {
	registry domain.Registry
	handler  http.Handler
	server   *server.Server
	tp       *sdktrace.TracerProvider
	logger   zerolog.Logger
}

// Option configures an App.
type Option func(*options)

type options struct {
	latency      service.Latency
	orderLatency service.Latency
}

// WithLatency overrides the simulated latency sources, mostly for tests.
func WithLatency(latency, orderLatency service.Latency) Option {
	return func(o *options) {
		o.latency = latency
		o.orderLatency = orderLatency
	}
}

// New wires the registry, handlers, router and server described by cfg.
func New(cfg config.Config, logger zerolog.Logger, opts ...Option) (*App, error) {
	o := options{
		latency:      service.UniformLatency,
		orderLatency: service.InverseUniformLatency,
	}
	for _, opt := range opts {
		opt(&o)
	}

	registry, err := storage.NewRegistry(cfg.Registry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create registry: %w", err)
	}

	handlers := service.NewHandlers(o.latency, o.orderLatency, logger)
	handler := server.NewRouter(registry, handlers, logger)

	app := &App{
		registry: registry,
		logger:   logger,
	}

	if cfg.Tracing.Enabled {
		app.tp, err = newTracerProvider(cfg.ServiceName, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create tracer provider: %w", err)
		}
		handler = httpinstrumentation.NewMiddleware(handler, cfg.ServiceName, app.tp)
	}

	app.handler = handler
	app.server = server.New(cfg.Server, handler, logger)

	logger.Info().
		Str("service", cfg.ServiceName).
		Str("registry", cfg.Registry.Backend).
		Bool("tracing", cfg.Tracing.Enabled).
		Msg("application initialized")
	return app, nil
}

// Handler returns the fully wired HTTP handler.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Registry returns the request counter registry.
func (a *App) Registry() domain.Registry {
	return a.registry
}

// Run serves until ctx is cancelled and then flushes pending spans.
func (a *App) Run(ctx context.Context) error {
	defer a.Shutdown(context.Background())
	return a.server.Run(ctx)
}

// Shutdown flushes and stops the tracer provider, if any.
func (a *App) Shutdown(ctx context.Context) {
	if a.tp == nil {
		return
	}
	if err := a.tp.Shutdown(ctx); err != nil {
		a.logger.Error().Err(err).Msg("error shutting down tracer provider")
	}
}

func newTracerProvider(serviceName string, logger zerolog.Logger) (*sdktrace.TracerProvider, error) {
	res, err := newResource(serviceName, Version)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter.NewSpanLogger(logger)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp, nil
}

func newResource(serviceName, serviceVersion string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
}
