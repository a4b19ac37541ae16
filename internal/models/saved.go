package models

import "time"

// SavedAnnouncement — объявление, сохранённое пользователем в личный список.
type SavedAnnouncement struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	AnnouncementID string    `json:"announcement_id"`
	Memo           string    `json:"memo,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SavedUpdateRequest — частичное обновление сохранённого объявления.
type SavedUpdateRequest struct {
	ID     string  `json:"id" validate:"required,uuid"`
	Memo   *string `json:"memo" validate:"omitempty,max=1000"`
	Status *string `json:"status" validate:"omitempty,oneof=interested applying applied selected rejected"`
}
