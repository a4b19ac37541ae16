// Package revise реализует HTTP-обработчик доработки раздела черновика.
package revise

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
	"github.com/magabrotheeeer/grant-matching/internal/services/drafting"
	"github.com/magabrotheeeer/grant-matching/internal/storage/repository"
)

// Handler обрабатывает POST /api/ai/drafts/revise.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает доработку раздела.
type Service interface {
	Revise(ctx context.Context, userID string, req models.ReviseRequest) (string, error)
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
// @Summary Доработать раздел черновика
// @Tags Drafts
// @Accept json
// @Produce json
// @Param request body models.ReviseRequest true "Раздел, текущий текст и замечания"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /ai/drafts/revise [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.draft.revise"
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

	var req models.ReviseRequest
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

	text, err := h.service.Revise(r.Context(), principal.ID, req)
	switch {
	case err == nil:
	case errors.Is(err, drafting.ErrUnknownSection):
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	case errors.Is(err, repository.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error(response.MsgNotFound))
		return
	default:
		log.Error("failed to revise draft", slog.String("section", req.Section), sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]string{
		"section": req.Section,
		"content": text,
	}))
}
