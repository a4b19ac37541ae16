// Команда healthcheck опрашивает внутренний gRPC health-сервер API и завершается
// с кодом 0, только если сервис в состоянии SERVING. Используется как HEALTHCHECK контейнера.
package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/magabrotheeeer/grant-matching/internal/config"
	"github.com/magabrotheeeer/grant-matching/internal/grpc/client"
	"github.com/magabrotheeeer/grant-matching/internal/grpc/server"
	"github.com/magabrotheeeer/grant-matching/internal/lib/sl"
)

const checkTimeout = 3 * time.Second

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	addr := cfg.AddressGRPC
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}

	hc, err := client.NewHealthClient(addr)
	if err != nil {
		logger.Error("failed to create health client", sl.Err(err))
		os.Exit(1)
	}
	defer func() { _ = hc.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	status, err := hc.Check(ctx, server.ServiceName)
	if err != nil {
		logger.Error("health check failed", slog.String("address", addr), sl.Err(err))
		os.Exit(1)
	}
	if status != healthpb.HealthCheckResponse_SERVING {
		logger.Error("service not serving", slog.String("status", status.String()))
		os.Exit(1)
	}
	logger.Info("service is serving", slog.String("address", addr))
}
