// Package checkout реализует HTTP-обработчик создания платежа.
//
// Тариф pro требует сессии, раскрытие гостевого результата доступно анонимно.
// Ответ содержит order_id, который фронтенд передаёт виджету шлюза.
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/grant-matching/internal/http/middlewarectx"
	"github.com/magabrotheeeer/grant-matching/internal/http/response"
	"github.com/magabrotheeeer/grant-matching/internal/lib/sl"
	"github.com/magabrotheeeer/grant-matching/internal/models"
	"github.com/magabrotheeeer/grant-matching/internal/services/payment"
	"github.com/magabrotheeeer/grant-matching/internal/storage/repository"
)

// Handler обрабатывает POST /api/payments/checkout.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает создание платежа.
type Service interface {
	Checkout(ctx context.Context, principal models.Principal, req models.CheckoutRequest) (*models.Payment, error)
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
// @Summary Создать платёж
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body models.CheckoutRequest true "Способ оплаты и продукт"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /payments/checkout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.checkout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
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

	principal, _ := middlewarectx.PrincipalFrom(r.Context())
	p, err := h.service.Checkout(r.Context(), principal, req)
	if err != nil {
		status, msg := checkoutError(err)
		if status == http.StatusInternalServerError {
			log.Error("failed to create payment", sl.Err(err))
		}
		w.WriteHeader(status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"order_id": p.OrderID,
		"amount":   p.Amount,
		"method":   p.Method,
	}))
}

func checkoutError(err error) (int, string) {
	switch {
	case errors.Is(err, payment.ErrLoginRequired):
		return http.StatusUnauthorized, response.MsgUnauthorized
	case errors.Is(err, payment.ErrGuestMatchRequired):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, payment.ErrAlreadyRevealed):
		return http.StatusConflict, err.Error()
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, response.MsgNotFound
	default:
		return http.StatusInternalServerError, response.MsgInternal
	}
}
