// Package confirm реализует подтверждение подписки по ссылке из письма.
package confirm

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/grant-matching/internal/http/response"
	"github.com/magabrotheeeer/grant-matching/internal/lib/sl"
	"github.com/magabrotheeeer/grant-matching/internal/models"
	"github.com/magabrotheeeer/grant-matching/internal/services/newsletter"
	"github.com/magabrotheeeer/grant-matching/internal/storage/repository"
)

// Handler обрабатывает GET /api/newsletter/confirm?token=.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает подтверждение подписки.
type Service interface {
	Confirm(ctx context.Context, token string) (*models.NewsletterSubscriber, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Подтвердить подписку
// @Tags Newsletter
// @Produce json
// @Param token query string true "Токен из письма"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /newsletter/confirm [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.newsletter.confirm"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sub, err := h.service.Confirm(r.Context(), r.URL.Query().Get("token"))
	switch {
	case err == nil:
	case errors.Is(err, newsletter.ErrTokenRequired):
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	case errors.Is(err, repository.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error(response.MsgNotFound))
		return
	default:
		log.Error("failed to confirm subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]string{"email": sub.Email, "status": sub.Status}))
}
