// Package generate реализует HTTP-обработчик генерации черновика заявки.
//
// Разделы генерируются по очереди. Неудачный раздел не прерывает пакет: ответ
// содержит статус каждой задачи и partial = true, клиент повторяет только
// неудавшиеся разделы.
package generate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

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

// writeMargin добавляется к BatchTimeout на чтение контекста и запись ответа.
const writeMargin = 30 * time.Second

// Handler обрабатывает POST /api/ai/drafts.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает генерацию разделов.
type Service interface {
	Generate(ctx context.Context, userID string, req models.DraftRequest) (*models.DraftResult, error)
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
// @Summary Сгенерировать черновик заявки
// @Tags Drafts
// @Accept json
// @Produce json
// @Param request body models.DraftRequest true "Объявление и разделы (пусто = все)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /ai/drafts [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.draft.generate"
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

	var req models.DraftRequest
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

	// разделы идут последовательно и не укладываются в общий WriteTimeout сервера
	deadline := time.Now().Add(drafting.BatchTimeout() + writeMargin)
	if err := http.NewResponseController(w).SetWriteDeadline(deadline); err != nil {
		log.Debug("write deadline not extended", sl.Err(err))
	}

	result, err := h.service.Generate(r.Context(), principal.ID, req)
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
		log.Error("failed to generate draft", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	render.JSON(w, r, response.OKWithData(result))
}
