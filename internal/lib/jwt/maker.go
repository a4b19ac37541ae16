// Package jwt реализует проверку и выпуск JWT токенов сессии Supabase.
//
// Supabase подписывает access token секретом проекта (HS256). Сервис только проверяет
// токены, выпуск нужен для тестов и локальной разработки.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для выпуска и разбора токенов сессии.
type Maker interface {
	// GenerateToken выпускает токен для пользователя с указанным UUID и почтой.
	GenerateToken(userID, email string) (string, error)
	// ParseToken проверяет подпись и срок действия, возвращает claims.
	ParseToken(tokenStr string) (*SessionClaims, error)
}

// MakerImpl реализует Maker с использованием секрета проекта Supabase
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // JWT secret проекта Supabase
	tokenTTL  time.Duration // Время жизни выпускаемых токенов
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
