package models

import "time"

// MatchFeedback — оценка пользователем результата подбора, уникальна для (match_id, user_id).
type MatchFeedback struct {
	ID         string    `json:"id"`
	MatchID    string    `json:"match_id"`
	UserID     string    `json:"user_id"`
	Rating     int       `json:"rating"`
	IsRelevant bool      `json:"is_relevant"`
	Reasons    []string  `json:"reasons,omitempty"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// MatchFeedbackRequest используется для приёма оценки из JSON-запроса.
type MatchFeedbackRequest struct {
	Rating     int      `json:"rating" validate:"required,min=1,max=5"`
	IsRelevant bool     `json:"is_relevant"`
	Reasons    []string `json:"reasons" validate:"max=10,dive,max=100"`
	Comment    string   `json:"comment" validate:"max=1000"`
}

// Feedback — общий отзыв о сервисе.
type Feedback struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	PageURL   string    `json:"page_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedbackRequest используется для приёма отзыва из JSON-запроса.
type FeedbackRequest struct {
	Category string `json:"category" validate:"required,oneof=bug feature other"`
	Message  string `json:"message" validate:"required,max=2000"`
	PageURL  string `json:"page_url" validate:"omitempty,url"`
}
