// Package confirm реализует подтверждение платежа Toss после редиректа покупателя.
package confirm

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/grant-matching/internal/http/response"
	"github.com/magabrotheeeer/grant-matching/internal/lib/sl"
	"github.com/magabrotheeeer/grant-matching/internal/models"
	"github.com/magabrotheeeer/grant-matching/internal/services/payment"
	"github.com/magabrotheeeer/grant-matching/internal/storage/repository"
)

// Handler обрабатывает POST /api/payments/confirm.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает подтверждение платежа.
type Service interface {
	Confirm(ctx context.Context, req models.ConfirmRequest) (*models.Payment, error)
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
// @Summary Подтвердить платёж Toss
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body models.ConfirmRequest true "paymentKey, orderId и сумма из редиректа"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 402 {object} response.ErrorResponse
// @Router /payments/confirm [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.confirm"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.ConfirmRequest
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

	p, err := h.service.Confirm(r.Context(), req)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error(response.MsgNotFound))
		return
	case errors.Is(err, payment.ErrAmountMismatch):
		log.Warn("payment amount mismatch", slog.String("order_id", req.OrderID), slog.Int64("amount", req.Amount))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(payment.ErrAmountMismatch.Error()))
		return
	case errors.Is(err, payment.ErrNotConfirmable):
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(payment.ErrNotConfirmable.Error()))
		return
	case errors.Is(err, payment.ErrConfirmFailed):
		log.Warn("payment confirmation failed", slog.String("order_id", req.OrderID), sl.Err(err))
		w.WriteHeader(http.StatusPaymentRequired)
		render.JSON(w, r, response.Error(payment.ErrConfirmFailed.Error()))
		return
	default:
		log.Error("failed to confirm payment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	log.Info("payment confirmed", slog.String("order_id", p.OrderID))
	render.JSON(w, r, response.OKWithData(p))
}
