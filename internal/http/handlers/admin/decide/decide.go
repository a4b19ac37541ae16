// Package decide реализует HTTP-обработчик решения администратора по компании.
package decide

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
	"github.com/magabrotheeeer/grant-matching/internal/storage/repository"
)

// Handler обрабатывает POST /api/admin/approvals. Права администратора проверяет
// middleware RequireAdmin.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает сохранение решения.
type Service interface {
	Decide(ctx context.Context, admin models.Principal, d models.ApprovalDecision) error
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
// @Summary Одобрить или отклонить компанию
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body models.ApprovalDecision true "Решение"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/approvals [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.decide"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	admin, ok := middlewarectx.PrincipalFrom(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error(response.MsgUnauthorized))
		return
	}

	var req models.ApprovalDecision
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

	err := h.service.Decide(r.Context(), admin, req)
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error(response.MsgNotFound))
		return
	}
	if err != nil {
		log.Error("failed to save approval", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	render.JSON(w, r, response.OK())
}
