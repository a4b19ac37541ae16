// Package record реализует запись поискового запроса для аналитики.
//
// Запись не должна мешать поиску: ответ успешен даже при сбое хранилища.
package record

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/grant-matching/internal/http/middlewarectx"
	"github.com/magabrotheeeer/grant-matching/internal/http/response"
	"github.com/magabrotheeeer/grant-matching/internal/lib/sl"
	"github.com/magabrotheeeer/grant-matching/internal/models"
)

// Handler обрабатывает POST /api/search/record.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает запись запроса.
type Service interface {
	Record(ctx context.Context, userID string, req models.SearchRecordRequest)
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
// @Summary Записать поисковый запрос
// @Tags Search
// @Accept json
// @Produce json
// @Param request body models.SearchRecordRequest true "Запрос"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Router /search/record [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.search.record"

	var req models.SearchRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Info("failed to decode request",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err))
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
	h.service.Record(r.Context(), principal.ID, req)
	render.JSON(w, r, response.OK())
}
