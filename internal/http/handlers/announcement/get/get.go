// Package get реализует HTTP-обработчик чтения объявления о гранте по ID.
package get

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

// Handler обрабатывает GET /api/announcements/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает чтение объявления.
type Service interface {
	Get(ctx context.Context, id string) (*models.Announcement, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить объявление
// @Tags Announcements
// @Produce json
// @Param id path string true "ID объявления"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /announcements/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.announcement.get"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	a, err := h.service.Get(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		log.Info("announcement not found", slog.String("id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error(response.MsgNotFound))
		return
	}
	if err != nil {
		log.Error("failed to get announcement", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	render.JSON(w, r, response.OKWithData(a))
}
