// Package approvals реализует HTTP-обработчик списка компаний для проверки администратором.
package approvals

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

// Handler обрабатывает GET /api/admin/approvals?status=&limit=&offset=.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает выборку компаний по статусу проверки.
type Service interface {
	List(ctx context.Context, status string, limit, offset int) ([]*models.Company, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список компаний на проверке
// @Tags Admin
// @Produce json
// @Param status query string false "pending | approved | rejected"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /admin/approvals [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.approvals"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	status := q.Get("status")
	switch status {
	case "", models.ApprovalPending, models.ApprovalApproved, models.ApprovalRejected:
	default:
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid status"))
		return
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	companies, err := h.service.List(r.Context(), status, limit, offset)
	if err != nil {
		log.Error("failed to list companies", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}
	if companies == nil {
		companies = []*models.Company{}
	}

	render.JSON(w, r, response.OKWithData(companies))
}
