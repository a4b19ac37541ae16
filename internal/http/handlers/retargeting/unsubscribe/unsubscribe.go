// Package unsubscribe реализует отказ от маркетинговых писем по ссылке из письма.
//
// Ответ всегда успешен и не сообщает, был ли адрес известен.
package unsubscribe

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/grant-matching/internal/http/response"
)

// Handler обрабатывает GET /api/retargeting/unsubscribe?email=.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает отписку адреса.
type Service interface {
	Unsubscribe(ctx context.Context, email string)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Отписаться от маркетинговых писем
// @Tags Newsletter
// @Produce json
// @Param email query string true "E-mail"
// @Success 200 {object} response.Response
// @Router /retargeting/unsubscribe [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.service.Unsubscribe(r.Context(), r.URL.Query().Get("email"))
	render.JSON(w, r, response.OK())
}
