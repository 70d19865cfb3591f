package grpc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/abgdnv/catalog/pkg/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

type switchPinger struct {
	down atomic.Bool
}

func (p *switchPinger) Ping(context.Context) error {
	if p.down.Load() {
		return errors.New("connection refused")
	}
	return nil
}

func startServer(t *testing.T, reporter *HealthReporter) healthpb.HealthClient {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	lis := bufconn.Listen(1024 * 1024)
	srv := server.NewGRPCServer(logger, false, reporter.Registration())
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) { return lis.Dial() }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return healthpb.NewHealthClient(conn)
}

func TestHealthReporter_Check(t *testing.T) {
	// given
	pinger := &switchPinger{}
	reporter := NewHealthReporter(pinger, time.Hour, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	client := startServer(t, reporter)
	ctx := context.Background()

	for _, service := range []string{"", ProductServiceName} {
		// when
		reporter.Check(ctx)
		res, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})

		// then
		require.NoError(t, err)
		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, res.GetStatus(), "service %q", service)
	}

	// when
	pinger.down.Store(true)
	status := reporter.Check(ctx)
	res, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: ProductServiceName})

	// then
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, res.GetStatus())
}

func TestHealthReporter_Run(t *testing.T) {
	// given
	pinger := &switchPinger{}
	reporter := NewHealthReporter(pinger, 10*time.Millisecond, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	client := startServer(t, reporter)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	// when
	go func() { done <- reporter.Run(ctx) }()

	// then
	assert.Eventually(t, func() bool {
		res, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ProductServiceName})
		return err == nil && res.GetStatus() == healthpb.HealthCheckResponse_SERVING
	}, time.Second, 10*time.Millisecond)

	pinger.down.Store(true)
	assert.Eventually(t, func() bool {
		res, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ProductServiceName})
		return err == nil && res.GetStatus() == healthpb.HealthCheckResponse_NOT_SERVING
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("reporter did not stop")
	}
}
