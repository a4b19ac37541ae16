// Package middlewarectx содержит HTTP middleware для сессии пользователя,
// проверки прав доступа и ограничения частоты запросов.
//
// Session извлекает access token Supabase из заголовка Authorization или cookie
// sb-access-token и кладёт пользователя в контекст запроса. Сам по себе Session
// запросы не отклоняет: это делают RequireUser и RequireAdmin.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/grant-matching/internal/lib/jwt"
	"github.com/magabrotheeeer/grant-matching/internal/lib/sl"
	"github.com/magabrotheeeer/grant-matching/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// PrincipalKey — ключ пользователя сессии в контексте.
const PrincipalKey Key = "principal"

// SessionCookie — cookie, в которой фронтенд хранит access token.
const SessionCookie = "sb-access-token"

// TokenParser проверяет токен сессии.
type TokenParser interface {
	ParseToken(tokenStr string) (*jwt.SessionClaims, error)
}

// WithPrincipal возвращает контекст с пользователем сессии.
func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

// PrincipalFrom возвращает пользователя сессии. ok = false для анонимного запроса.
func PrincipalFrom(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(models.Principal)
	if !ok || p.IsZero() {
		return models.Principal{}, false
	}
	return p, true
}

// Session возвращает middleware, который проверяет токен и добавляет пользователя в контекст.
// Невалидный или отсутствующий токен превращает запрос в анонимный.
func Session(parser TokenParser, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.Session"
			tokenStr := tokenFromRequest(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := parser.ParseToken(tokenStr)
			if err != nil {
				log.Debug("session token rejected",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					sl.Err(err),
				)
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithPrincipal(r.Context(), models.Principal{ID: claims.Subject, Email: claims.Email})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}
