// Package health реализует проверку готовности сервиса для балансировщика.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/grant-matching/internal/http/response"
	"github.com/magabrotheeeer/grant-matching/internal/lib/sl"
)

const checkTimeout = 2 * time.Second

// Checker проверяет доступность зависимости.
type Checker interface {
	Ping(ctx context.Context) error
}

// Handler обрабатывает GET /healthz.
type Handler struct {
	log      *slog.Logger
	checkers map[string]Checker
}

// New создает новый Handler. checkers — зависимости по имени (postgres, cache, rabbitmq).
func New(log *slog.Logger, checkers map[string]Checker) *Handler {
	return &Handler{log: log, checkers: checkers}
}

// ServeHTTP godoc
// @Summary Проверка готовности
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /healthz [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	checks := make(map[string]string, len(h.checkers))
	healthy := true
	for name, c := range h.checkers {
		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		err := c.Ping(ctx)
		cancel()
		if err != nil {
			h.log.Warn("dependency unhealthy", slog.String("op", op), slog.String("dependency", name), sl.Err(err))
			checks[name] = "down"
			healthy = false
			continue
		}
		checks[name] = "ok"
	}

	status := "ok"
	if !healthy {
		status = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	render.JSON(w, r, response.Response{
		Success: healthy,
		Data:    map[string]any{"status": status, "checks": checks},
	})
}
