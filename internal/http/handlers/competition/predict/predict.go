// Package predict реализует HTTP-обработчик прогноза конкуренции по объявлению.
package predict

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/grant-matching/internal/http/response"
	"github.com/magabrotheeeer/grant-matching/internal/lib/sl"
	"github.com/magabrotheeeer/grant-matching/internal/services/competition"
)

// Handler обрабатывает GET /api/competition/predict?announcementId=.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает расчёт прогноза.
type Service interface {
	Predict(ctx context.Context, announcementID string) (*competition.Prediction, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Прогноз конкуренции
// @Description Оценивает уровень конкуренции по объявлению: балл 0..100, уровень, факторы и советы.
// @Tags Competition
// @Produce json
// @Param announcementId query string true "ID объявления"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /competition/predict [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.competition.predict"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := r.URL.Query().Get("announcementId")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("announcementId is required"))
		return
	}

	// Отсутствующее объявление и сбой запроса дают один и тот же ответ.
	p, err := h.service.Predict(r.Context(), id)
	if err != nil {
		log.Error("failed to predict competition", slog.String("announcement_id", id), sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	render.JSON(w, r, response.OKWithData(p))
}
