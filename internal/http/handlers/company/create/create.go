// Package create реализует HTTP-обработчик онбординга компании пользователя.
//
// Handler принимает JSON с данными компании, валидирует их и регистрирует профиль.
// Тип организации определяется по названию, профиль ждёт одобрения администратора.
package create

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
	"github.com/magabrotheeeer/grant-matching/internal/services/company"
)

// Handler обрабатывает POST /api/companies.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает регистрацию компании.
type Service interface {
	Register(ctx context.Context, userID string, req models.CompanyRequest) (*models.Company, error)
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
// @Summary Зарегистрировать компанию
// @Tags Companies
// @Accept json
// @Produce json
// @Param request body models.CompanyRequest true "Данные компании"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /companies [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.company.create"
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

	var req models.CompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgInvalidBody))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err))
		return
	}

	c, err := h.service.Register(r.Context(), principal.ID, req)
	if errors.Is(err, company.ErrAlreadyRegistered) {
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("company already registered"))
		return
	}
	if err != nil {
		log.Error("failed to register company", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	log.Info("company registered", slog.String("company_id", c.ID), slog.String("corporation_type", c.CorporationType))
	render.JSON(w, r, response.OKWithData(c))
}
