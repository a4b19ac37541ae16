package models

import "time"

// DefaultDaysBefore — за сколько дней до окончания приёма отправлять напоминание по умолчанию.
const DefaultDaysBefore = 3

// NotificationPreference — настройки e-mail напоминаний пользователя.
type NotificationPreference struct {
	UserID           string    `json:"user_id"`
	Email            string    `json:"email"`
	EmailEnabled     bool      `json:"email_enabled"`
	DeadlineReminder bool      `json:"deadline_reminder"`
	DaysBefore       int       `json:"days_before"`
	NewMatchAlert    bool      `json:"new_match_alert"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// DefaultNotificationPreference возвращает настройки для пользователя без сохранённой записи.
func DefaultNotificationPreference(userID, email string) *NotificationPreference {
	return &NotificationPreference{
		UserID:           userID,
		Email:            email,
		EmailEnabled:     true,
		DeadlineReminder: true,
		DaysBefore:       DefaultDaysBefore,
		NewMatchAlert:    true,
	}
}

// NotificationSettingsRequest используется для приёма настроек из JSON-запроса.
type NotificationSettingsRequest struct {
	EmailEnabled     *bool `json:"email_enabled" validate:"required"`
	DeadlineReminder *bool `json:"deadline_reminder" validate:"required"`
	DaysBefore       int   `json:"days_before" validate:"required,min=1,max=30"`
	NewMatchAlert    *bool `json:"new_match_alert" validate:"required"`
}

// DeadlineReminder — сообщение очереди о приближающемся окончании приёма заявок.
type DeadlineReminder struct {
	UserID            string    `json:"user_id"`
	Email             string    `json:"email"`
	AnnouncementID    string    `json:"announcement_id"`
	AnnouncementTitle string    `json:"announcement_title"`
	Organization      string    `json:"organization"`
	ApplicationEnd    time.Time `json:"application_end"`
	DaysLeft          int       `json:"days_left"`
}
