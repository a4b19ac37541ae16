// Package models содержит доменные структуры сервиса подбора грантов:
// объявления, компании, платежи, подписки, обратную связь и гостевую воронку.
// Структуры используются в бизнес-логике, хранилище и при приёме JSON-запросов.
package models

// Principal описывает пользователя текущей сессии, извлечённого из токена Supabase.
type Principal struct {
	ID    string `json:"id"`    // UUID пользователя (claim sub)
	Email string `json:"email"` // Электронная почта пользователя
}

// IsZero сообщает, что сессия отсутствует.
func (p Principal) IsZero() bool {
	return p.ID == ""
}
