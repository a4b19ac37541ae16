// Package payments реализует административный список платежей.
package payments

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/grant-matching/internal/http/response"
	"github.com/magabrotheeeer/grant-matching/internal/lib/sl"
	"github.com/magabrotheeeer/grant-matching/internal/models"
)

// Handler обрабатывает GET /api/admin/payments?status=&limit=&offset=.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает выборку платежей.
type Service interface {
	List(ctx context.Context, filter models.PaymentFilter) ([]*models.Payment, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список платежей
// @Tags Admin
// @Produce json
// @Param status query string false "pending | completed | cancelled | failed"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /admin/payments [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.payments"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	filter := models.PaymentFilter{Status: q.Get("status")}
	switch models.PaymentStatus(filter.Status) {
	case "", models.PaymentPending, models.PaymentCompleted, models.PaymentCancelled, models.PaymentFailed:
	default:
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid status"))
		return
	}
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	filter.Offset, _ = strconv.Atoi(q.Get("offset"))

	list, err := h.service.List(r.Context(), filter)
	if err != nil {
		log.Error("failed to list payments", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}
	if list == nil {
		list = []*models.Payment{}
	}

	render.JSON(w, r, response.OKWithData(list))
}
