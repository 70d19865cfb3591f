// Package grpc exposes the catalog's gRPC health service.
package grpc

import (
	"context"
	"log/slog"
	"time"

	"github.com/abgdnv/catalog/internal/repository"
	"github.com/abgdnv/catalog/pkg/server"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ProductServiceName is the health entry reported for the product catalog.
const ProductServiceName = "catalog.v1.ProductService"

// HealthReporter publishes the reachability of the product store through the standard gRPC health service.
type HealthReporter struct {
	health   *health.Server
	pinger   repository.Pinger
	interval time.Duration
	logger   *slog.Logger
}

func NewHealthReporter(pinger repository.Pinger, interval time.Duration, logger *slog.Logger) *HealthReporter {
	return &HealthReporter{
		health:   health.NewServer(),
		pinger:   pinger,
		interval: interval,
		logger:   logger.With("component", "grpc-health"),
	}
}

// Registration returns the func that registers the health service on a gRPC server.
func (h *HealthReporter) Registration() server.RegistrationFunc {
	return func(s *grpc.Server) {
		healthpb.RegisterHealthServer(s, h.health)
	}
}

// Check pings the store once and updates the reported status.
func (h *HealthReporter) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if err := h.pinger.Ping(ctx); err != nil {
		h.logger.WarnContext(ctx, "Store ping failed", "error", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ProductServiceName, status)
	return status
}

// Run checks the store every interval until ctx is done, then marks every service as not serving.
func (h *HealthReporter) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			h.health.Shutdown()
			return nil
		case <-ticker.C:
			h.Check(ctx)
		}
	}
}
