// Package app contains the application setup for the catalog service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/catalog/internal/config"
	"github.com/abgdnv/catalog/internal/product"
	"github.com/abgdnv/catalog/internal/repository"
	"github.com/abgdnv/catalog/internal/store"
	grpcImpl "github.com/abgdnv/catalog/internal/transport/grpc"
	"github.com/abgdnv/catalog/internal/transport/rest"
	"github.com/abgdnv/catalog/pkg/bootstrap"
	pkgconfig "github.com/abgdnv/catalog/pkg/config"
	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/abgdnv/catalog/pkg/server"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc"
)

const serviceName = "catalog"

// ProductStore is a product repository that can report its reachability.
type ProductStore interface {
	repository.Repository[product.Product]
	repository.Pinger
}

type Dependencies struct {
	Store    ProductStore
	Health   *grpcImpl.HealthReporter
	Logger   *slog.Logger
	Gatherer prometheus.Gatherer
}

// Options carries the optional collaborators of the store decorators. Nil fields disable the matching decorator
// or fall back to a no-op provider.
type Options struct {
	Publisher      messaging.Publisher
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	Gatherer       prometheus.Gatherer
}

// OpenStore opens the backend selected by cfg.Backend. The returned func releases its resources.
func OpenStore(ctx context.Context, cfg pkgconfig.StoreConfig, logger *slog.Logger) (ProductStore, func(), error) {
	switch cfg.Backend {
	case pkgconfig.BackendMemory:
		logger.Info("Using in-memory product store")
		return repository.NewMemory(product.Identity), func() {}, nil
	case pkgconfig.BackendPostgres:
		if err := store.MigratePostgres(cfg.Database.URL); err != nil {
			return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		dbPool, err := bootstrap.NewDbPool(ctx, cfg.Database.URL, cfg.Database.Timeout)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create database connection pool: %w", err)
		}
		logger.Info("Successfully connected to the database!")
		return store.NewPgStore(dbPool), dbPool.Close, nil
	case pkgconfig.BackendSQLite:
		sqliteStore, err := store.NewSQLiteStore(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		logger.Info("Using sqlite product store", "path", cfg.SQLite.Path)
		return sqliteStore, func() { _ = sqliteStore.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend: %q", cfg.Backend)
	}
}

// SetupDependencies wraps the store with its decorators and builds the shared collaborators.
func SetupDependencies(productStore ProductStore, cfg *config.Config, opts Options, logger *slog.Logger) (*Dependencies, error) {
	var decorated ProductStore = productStore
	if opts.Publisher != nil {
		decorated = store.NewPublishing(decorated, opts.Publisher, logger)
	}

	tp := opts.TracerProvider
	if tp == nil {
		tp = tracenoop.NewTracerProvider()
	}
	mp := opts.MeterProvider
	if mp == nil {
		mp = metricnoop.NewMeterProvider()
	}
	instrumented, err := store.NewInstrumented(decorated, product.Identity, tp, mp)
	if err != nil {
		return nil, fmt.Errorf("failed to instrument store: %w", err)
	}

	return &Dependencies{
		Store:    instrumented,
		Health:   grpcImpl.NewHealthReporter(instrumented, cfg.GRPC.HealthInterval, logger),
		Logger:   logger,
		Gatherer: opts.Gatherer,
	}, nil
}

// SetupHttpHandler initializes the routes of the catalog service.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the catalog service.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	rest.NewHandler(deps.Store, deps.Logger).RegisterRoutes(mux)
	rest.NewViewHandler(deps.Store, deps.Logger).RegisterRoutes(mux)
	rest.NewHealthHandler(deps.Store, deps.Logger).RegisterRoutes(mux)
	if deps.Gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}
}

// SetupHttpServer creates and configures an HTTP server for the catalog service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	handler := otelhttp.NewHandler(SetupHttpHandler(deps), serviceName)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, handler)
}

// SetupGrpcServer initializes the gRPC server with the health service.
func SetupGrpcServer(deps *Dependencies, reflectionEnabled bool) *grpc.Server {
	return server.NewGRPCServer(deps.Logger, reflectionEnabled, deps.Health.Registration())
}
