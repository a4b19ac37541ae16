// Package server реализует внутренний gRPC-сервер со службой health.
//
// HealthServer периодически проверяет зависимости (база, кеш) и выставляет
// статус SERVING или NOT_SERVING для общего статуса и службы ServiceName.
package server

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/magabrotheeeer/grant-matching/internal/lib/sl"
)

// ServiceName — имя службы в health-протоколе.
const ServiceName = "grantmatching.API"

// Checker проверяет доступность зависимости.
type Checker interface {
	Ping(ctx context.Context) error
}

// CheckerFunc позволяет использовать функцию как Checker.
type CheckerFunc func(ctx context.Context) error

// Ping вызывает f.
func (f CheckerFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthServer связывает проверки зависимостей со стандартной службой health.
type HealthServer struct {
	health   *health.Server
	checkers map[string]Checker
	timeout  time.Duration
	log      *slog.Logger
}

// NewHealthServer создаёт HealthServer. До первой проверки статус NOT_SERVING.
func NewHealthServer(checkers map[string]Checker, timeout time.Duration, log *slog.Logger) *HealthServer {
	h := &HealthServer{
		health:   health.NewServer(),
		checkers: checkers,
		timeout:  timeout,
		log:      log,
	}
	h.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return h
}

// Register добавляет службу health на gRPC-сервер.
func (h *HealthServer) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.health)
}

// Check выполняет все проверки и обновляет статус. Возвращает true, если все прошли.
func (h *HealthServer) Check(ctx context.Context) bool {
	ok := true
	for name, c := range h.checkers {
		cctx, cancel := context.WithTimeout(ctx, h.timeout)
		err := c.Ping(cctx)
		cancel()
		if err != nil {
			h.log.Warn("health check failed", slog.String("dependency", name), sl.Err(err))
			ok = false
		}
	}
	if ok {
		h.set(healthpb.HealthCheckResponse_SERVING)
	} else {
		h.set(healthpb.HealthCheckResponse_NOT_SERVING)
	}
	return ok
}

// Run проверяет зависимости каждые interval до отмены ctx, затем переводит
// службу в NOT_SERVING.
func (h *HealthServer) Run(ctx context.Context, interval time.Duration) {
	h.Check(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			h.health.Shutdown()
			return
		case <-ticker.C:
			h.Check(ctx)
		}
	}
}

func (h *HealthServer) set(status healthpb.HealthCheckResponse_ServingStatus) {
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
}
