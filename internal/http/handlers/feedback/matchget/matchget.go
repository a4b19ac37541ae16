// Package matchget реализует чтение оценки пользователя для результата подбора.
package matchget

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/grant-matching/internal/http/middlewarectx"
	"github.com/magabrotheeeer/grant-matching/internal/http/response"
	"github.com/magabrotheeeer/grant-matching/internal/lib/sl"
	"github.com/magabrotheeeer/grant-matching/internal/models"
)

// Handler обрабатывает GET /api/matching/{id}/feedback.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает чтение оценки. Отсутствующая оценка — nil без ошибки.
type Service interface {
	GetMatch(ctx context.Context, userID, matchID string) (*models.MatchFeedback, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Оценка результата подбора
// @Tags Feedback
// @Produce json
// @Param id path string true "ID результата подбора"
// @Success 200 {object} response.NullData "data = null, если оценки нет"
// @Failure 401 {object} response.ErrorResponse
// @Router /matching/{id}/feedback [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.feedback.matchget"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	principal, ok := middlewarectx.PrincipalFrom(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error(response.MsgUnauthorized))
		return
	}

	f, err := h.service.GetMatch(r.Context(), principal.ID, chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to get match feedback", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}
	if f == nil {
		render.JSON(w, r, response.OKNull())
		return
	}

	render.JSON(w, r, response.OKWithData(f))
}
