package models

import "time"

// BusinessPlan — загруженный бизнес-план и извлечённый из него текст.
type BusinessPlan struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	Text        string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
