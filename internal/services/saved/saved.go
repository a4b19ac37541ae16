// Package saved управляет личным списком сохранённых объявлений.
package saved

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/grant-matching/internal/models"
)

// ErrForbidden — запись принадлежит другому пользователю.
var ErrForbidden = errors.New("saved announcement belongs to another user")

// Repository определяет методы хранилища сохранённых объявлений.
type Repository interface {
	GetSavedAnnouncement(ctx context.Context, id string) (*models.SavedAnnouncement, error)
	UpdateSavedAnnouncement(ctx context.Context, id string, memo, status *string) (*models.SavedAnnouncement, error)
}

// Service реализует обновление сохранённых объявлений.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создаёт сервис.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Update меняет заметку и/или статус записи владельца. Неуказанные поля не меняются.
func (s *Service) Update(ctx context.Context, userID string, req models.SavedUpdateRequest) (*models.SavedAnnouncement, error) {
	const op = "saved.Update"

	current, err := s.repo.GetSavedAnnouncement(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if current.UserID != userID {
		return nil, ErrForbidden
	}
	if req.Memo == nil && req.Status == nil {
		return current, nil
	}

	updated, err := s.repo.UpdateSavedAnnouncement(ctx, req.ID, req.Memo, req.Status)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}
