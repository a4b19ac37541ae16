package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/grant-matching/internal/http/response"
	"github.com/magabrotheeeer/grant-matching/internal/models"
)

// AdminPolicy решает, является ли пользователь администратором.
type AdminPolicy interface {
	IsAdmin(principal models.Principal) bool
}

// RequireUser пропускает только запросы с сессией, иначе 401.
func RequireUser(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := PrincipalFrom(r.Context()); !ok {
				log.Info("unauthenticated request rejected",
					slog.String("op", "middlewarectx.RequireUser"),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("path", r.URL.Path),
				)
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error(response.MsgUnauthorized))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin пропускает только администраторов: 401 без сессии, 403 для остальных.
func RequireAdmin(policy AdminPolicy, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := log.With(
				slog.String("op", "middlewarectx.RequireAdmin"),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
			principal, ok := PrincipalFrom(r.Context())
			if !ok {
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error(response.MsgUnauthorized))
				return
			}
			if !policy.IsAdmin(principal) {
				log.Warn("admin access denied", slog.String("user_id", principal.ID))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error(response.MsgForbidden))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
