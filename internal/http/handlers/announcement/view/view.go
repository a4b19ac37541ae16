// Package view реализует HTTP-обработчик учёта просмотра объявления.
//
// Счётчик увеличивается в фоне: ответ не ждёт базы и всегда успешен.
package view

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/grant-matching/internal/http/response"
)

// Handler обрабатывает POST /api/announcements/{id}/view.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает фоновое увеличение счётчика просмотров.
type Service interface {
	RecordView(ctx context.Context, id string)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Учесть просмотр объявления
// @Tags Announcements
// @Produce json
// @Param id path string true "ID объявления"
// @Success 200 {object} response.Response
// @Router /announcements/{id}/view [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.service.RecordView(r.Context(), chi.URLParam(r, "id"))
	render.JSON(w, r, response.OK())
}
