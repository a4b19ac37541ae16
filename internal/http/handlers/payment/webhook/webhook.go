// Package webhook реализует приём уведомлений платёжных шлюзов Toss, Kakao и Naver.
//
// Шлюз берётся из пути /api/payments/webhook/{gateway}, для старого маршрута без
// параметра из заголовка X-Payment-Gateway, а если и его нет, определяется по телу.
// Тело проверяется подписью X-Webhook-Signature до разбора полей.
package webhook

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/grant-matching/internal/http/response"
	"github.com/magabrotheeeer/grant-matching/internal/lib/sl"
	"github.com/magabrotheeeer/grant-matching/internal/services/payment"
)

const (
	// GatewayHeader задаёт шлюз для маршрута без параметра.
	GatewayHeader = "X-Payment-Gateway"
	// SignatureHeader содержит hex HMAC-SHA256 тела.
	SignatureHeader = "X-Webhook-Signature"

	maxBodySize = 1 << 20
)

// Handler обрабатывает POST /api/payments/webhook[/{gateway}].
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает обработку события шлюза.
type Service interface {
	HandleWebhook(ctx context.Context, gatewayHint, signature string, body []byte) error
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Вебхук платёжного шлюза
// @Tags Payments
// @Accept json
// @Produce json
// @Param gateway path string true "toss | kakao | naver"
// @Param X-Webhook-Signature header string true "hex HMAC-SHA256 тела"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Router /payments/webhook/{gateway} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.webhook"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgInvalidBody))
		return
	}

	hint := chi.URLParam(r, "gateway")
	if hint == "" {
		hint = r.Header.Get(GatewayHeader)
	}

	err = h.service.HandleWebhook(r.Context(), hint, r.Header.Get(SignatureHeader), body)
	switch {
	case errors.Is(err, payment.ErrInvalidSignature):
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid signature"))
		return
	case errors.Is(err, payment.ErrUnknownGateway):
		log.Info("webhook ignored", slog.String("gateway", hint))
	case err != nil:
		log.Error("webhook processing failed", sl.Err(err))
	}

	render.JSON(w, r, response.OK())
}
