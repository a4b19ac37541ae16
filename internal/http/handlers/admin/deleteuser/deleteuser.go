// Package deleteuser реализует удаление пользователя администратором.
//
// Удаляются данные пользователя в базе и учётная запись Supabase Auth.
// Платежи остаются для бухгалтерии.
package deleteuser

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/grant-matching/internal/http/middlewarectx"
	"github.com/magabrotheeeer/grant-matching/internal/http/response"
	"github.com/magabrotheeeer/grant-matching/internal/lib/sl"
	"github.com/magabrotheeeer/grant-matching/internal/services/user"
)

// Handler обрабатывает DELETE /api/admin/users/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает удаление пользователя.
type Service interface {
	Delete(ctx context.Context, adminID, userID string) error
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить пользователя
// @Tags Admin
// @Produce json
// @Param id path string true "ID пользователя"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /admin/users/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.deleteuser"
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

	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid user id"))
		return
	}

	err := h.service.Delete(r.Context(), admin.ID, id)
	if errors.Is(err, user.ErrCannotDeleteSelf) {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}
	if err != nil {
		log.Error("failed to delete user", slog.String("user_id", id), sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	render.JSON(w, r, response.OK())
}
