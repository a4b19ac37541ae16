// Package matching реализует публичную выдачу результата гостевого подбора.
//
// Пока результат не оплачен, у двух лучших совпадений скрыты все поля, кроме
// ранга, балла, категории, типа поддержки и даты окончания приёма.
package matching

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/grant-matching/internal/http/response"
	"github.com/magabrotheeeer/grant-matching/internal/lib/sl"
	"github.com/magabrotheeeer/grant-matching/internal/models"
	"github.com/magabrotheeeer/grant-matching/internal/storage/repository"
)

// Handler обрабатывает GET /api/guest/matching/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает чтение гостевого результата со скрытием.
type Service interface {
	Get(ctx context.Context, id string) (*models.GuestMatchView, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Результат гостевого подбора
// @Tags Guest
// @Produce json
// @Param id path string true "ID результата"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Failure 429 {object} response.ErrorResponse
// @Router /guest/matching/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.guest.matching"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	view, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error(response.MsgNotFound))
		return
	}
	if err != nil {
		log.Error("failed to get guest match", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	render.JSON(w, r, response.OKWithData(view))
}
