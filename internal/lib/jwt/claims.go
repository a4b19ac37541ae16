package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// audienceAuthenticated — аудитория токенов вошедших пользователей Supabase.
const audienceAuthenticated = "authenticated"

// ErrMissingSubject возвращается для токена без claim sub.
var ErrMissingSubject = errors.New("token has no subject")

// SessionClaims описывает claims access token Supabase.
type SessionClaims struct {
	Email                string `json:"email"` // Почта пользователя
	Role                 string `json:"role"`  // Роль Postgres (authenticated, service_role)
	jwt.RegisteredClaims        // sub, exp, iat, aud
}

// GenerateToken создаёт токен в формате Supabase, подписанный секретным ключом.
func (j *MakerImpl) GenerateToken(userID, email string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Email: email,
		Role:  audienceAuthenticated,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Audience:  jwt.ClaimStrings{audienceAuthenticated},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken разбирает токен, проверяет алгоритм, подпись, срок действия и аудиторию.
func (j *MakerImpl) ParseToken(tokenStr string) (*SessionClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audienceAuthenticated),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingSubject)
	}
	return claims, nil
}
