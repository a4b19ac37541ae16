package repository

import (
	"context"

	"github.com/magabrotheeeer/grant-matching/internal/models"
)

// GetNotificationPreference возвращает настройки уведомлений пользователя.
func (s *Storage) GetNotificationPreference(ctx context.Context, userID string) (*models.NotificationPreference, error) {
	const op = "storage.GetNotificationPreference"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var p models.NotificationPreference
	err := s.DB.QueryRowContext(ctx, `SELECT user_id, email, email_enabled, deadline_reminder, days_before,
			new_match_alert, updated_at
		FROM notification_preferences WHERE user_id = $1`, userID).Scan(
		&p.UserID, &p.Email, &p.EmailEnabled, &p.DeadlineReminder, &p.DaysBefore, &p.NewMatchAlert, &p.UpdatedAt)
	if err != nil {
		return nil, wrap(op, err)
	}
	return &p, nil
}

// UpsertNotificationPreference сохраняет настройки уведомлений пользователя.
func (s *Storage) UpsertNotificationPreference(ctx context.Context, p *models.NotificationPreference) (*models.NotificationPreference, error) {
	const op = "storage.UpsertNotificationPreference"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var saved models.NotificationPreference
	err := s.DB.QueryRowContext(ctx, `INSERT INTO notification_preferences
			(user_id, email, email_enabled, deadline_reminder, days_before, new_match_alert, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET email = COALESCE(NULLIF(EXCLUDED.email, ''), notification_preferences.email),
			email_enabled = EXCLUDED.email_enabled,
			deadline_reminder = EXCLUDED.deadline_reminder,
			days_before = EXCLUDED.days_before,
			new_match_alert = EXCLUDED.new_match_alert,
			updated_at = NOW()
		RETURNING user_id, email, email_enabled, deadline_reminder, days_before, new_match_alert, updated_at`,
		p.UserID, p.Email, p.EmailEnabled, p.DeadlineReminder, p.DaysBefore, p.NewMatchAlert).Scan(
		&saved.UserID, &saved.Email, &saved.EmailEnabled, &saved.DeadlineReminder, &saved.DaysBefore,
		&saved.NewMatchAlert, &saved.UpdatedAt)
	if err != nil {
		return nil, wrap(op, err)
	}
	return &saved, nil
}
