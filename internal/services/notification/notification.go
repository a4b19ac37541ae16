// Package notification хранит настройки e-mail напоминаний пользователя.
package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/grant-matching/internal/models"
	"github.com/magabrotheeeer/grant-matching/internal/storage/repository"
)

// Repository определяет методы хранилища настроек уведомлений.
type Repository interface {
	GetNotificationPreference(ctx context.Context, userID string) (*models.NotificationPreference, error)
	UpsertNotificationPreference(ctx context.Context, p *models.NotificationPreference) (*models.NotificationPreference, error)
}

// Service реализует чтение и сохранение настроек.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создаёт сервис настроек уведомлений.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Get возвращает настройки пользователя или значения по умолчанию, если записи нет.
func (s *Service) Get(ctx context.Context, principal models.Principal) (*models.NotificationPreference, error) {
	const op = "notification.Get"

	p, err := s.repo.GetNotificationPreference(ctx, principal.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.DefaultNotificationPreference(principal.ID, principal.Email), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// Update сохраняет настройки. Адрес для напоминаний берётся из сессии.
func (s *Service) Update(ctx context.Context, principal models.Principal, req models.NotificationSettingsRequest) (*models.NotificationPreference, error) {
	const op = "notification.Update"

	p := models.DefaultNotificationPreference(principal.ID, principal.Email)
	p.DaysBefore = req.DaysBefore
	if req.EmailEnabled != nil {
		p.EmailEnabled = *req.EmailEnabled
	}
	if req.DeadlineReminder != nil {
		p.DeadlineReminder = *req.DeadlineReminder
	}
	if req.NewMatchAlert != nil {
		p.NewMatchAlert = *req.NewMatchAlert
	}

	saved, err := s.repo.UpsertNotificationPreference(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("notification settings updated",
		slog.String("user_id", principal.ID),
		slog.Int("days_before", saved.DaysBefore))
	return saved, nil
}
