// Package me реализует HTTP-обработчик чтения компании текущего пользователя.
package me

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/grant-matching/internal/http/middlewarectx"
	"github.com/magabrotheeeer/grant-matching/internal/http/response"
	"github.com/magabrotheeeer/grant-matching/internal/lib/sl"
	"github.com/magabrotheeeer/grant-matching/internal/models"
	"github.com/magabrotheeeer/grant-matching/internal/storage/repository"
)

// Handler обрабатывает GET /api/companies/me.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает чтение компании пользователя.
type Service interface {
	Me(ctx context.Context, userID string) (*models.Company, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Компания текущего пользователя
// @Tags Companies
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /companies/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.company.me"
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

	c, err := h.service.Me(r.Context(), principal.ID)
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error(response.MsgNotFound))
		return
	}
	if err != nil {
		log.Error("failed to get company", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	render.JSON(w, r, response.OKWithData(c))
}
