package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"

	"github.com/magabrotheeeer/grant-matching/internal/grpc/client"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func startServer(t *testing.T, h *HealthServer) *client.HealthClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	h.Register(s)
	go func() {
		_ = s.Serve(lis)
	}()
	t.Cleanup(s.Stop)

	c, err := client.NewHealthClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestHealthServer_Check(t *testing.T) {
	var dbDown atomic.Bool
	dbDown.Store(true)

	h := NewHealthServer(map[string]Checker{
		"postgres": CheckerFunc(func(context.Context) error {
			if dbDown.Load() {
				return errors.New("connection refused")
			}
			return nil
		}),
		"cache": CheckerFunc(func(context.Context) error { return nil }),
	}, time.Second, newNoopLogger())
	c := startServer(t, h)
	ctx := context.Background()

	status, err := c.Check(ctx, ServiceName)
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status)

	assert.False(t, h.Check(ctx))
	status, err = c.Check(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status)

	dbDown.Store(false)
	assert.True(t, h.Check(ctx))
	status, err = c.Check(ctx, ServiceName)
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status)

	_, err = c.Check(ctx, "unknown.Service")
	assert.Error(t, err)
}

func TestHealthServer_RunStopsOnCancel(t *testing.T) {
	h := NewHealthServer(map[string]Checker{}, time.Second, newNoopLogger())
	c := startServer(t, h)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		status, err := c.Check(context.Background(), ServiceName)
		return err == nil && status == healthpb.HealthCheckResponse_SERVING
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
	status, err := c.Check(context.Background(), ServiceName)
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status)
}
