// Package cancel реализует отмену подписки pro.
//
// Отмена чужой подписки доступна только администратору. Тариф сохраняется до
// конца оплаченного периода, затем планировщик переводит пользователя на free.
package cancel

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/grant-matching/internal/http/middlewarectx"
	"github.com/magabrotheeeer/grant-matching/internal/http/response"
	"github.com/magabrotheeeer/grant-matching/internal/lib/sl"
	"github.com/magabrotheeeer/grant-matching/internal/models"
	"github.com/magabrotheeeer/grant-matching/internal/services/subscription"
)

// Handler обрабатывает POST /api/subscriptions/cancel.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает отмену подписки.
type Service interface {
	Cancel(ctx context.Context, principal models.Principal, req models.CancelRequest) error
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Отменить подписку
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param request body models.CancelRequest false "user_id для отмены администратором"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /subscriptions/cancel [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.cancel"
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

	// Тело необязательно: пустой запрос отменяет собственную подписку.
	var req models.CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgInvalidBody))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err))
		return
	}

	err := h.service.Cancel(r.Context(), principal, req)
	switch {
	case err == nil:
	case errors.Is(err, subscription.ErrForbidden):
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error(response.MsgForbidden))
		return
	case errors.Is(err, subscription.ErrNotCancellable), errors.Is(err, subscription.ErrAlreadyCancelled):
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	default:
		log.Error("failed to cancel subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	render.JSON(w, r, response.OK())
}
