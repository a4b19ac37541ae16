// Package user реализует удаление пользователей администратором.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrCannotDeleteSelf — администратор пытается удалить собственную учётную запись.
var ErrCannotDeleteSelf = errors.New("cannot delete yourself")

// Repository удаляет данные пользователя из базы.
type Repository interface {
	DeleteUserData(ctx context.Context, userID string) error
}

// AuthAdmin удаляет учётную запись в сервисе аутентификации.
type AuthAdmin interface {
	DeleteUser(ctx context.Context, userID string) error
}

// Service реализует удаление пользователей.
type Service struct {
	repo Repository
	auth AuthAdmin
	log  *slog.Logger
}

// New создаёт сервис.
func New(repo Repository, auth AuthAdmin, log *slog.Logger) *Service {
	return &Service{repo: repo, auth: auth, log: log}
}

// Delete удаляет данные пользователя одной транзакцией, затем учётную запись.
// Платежи сохраняются.
func (s *Service) Delete(ctx context.Context, adminID, userID string) error {
	const op = "user.Delete"

	if adminID == userID {
		return ErrCannotDeleteSelf
	}
	if err := s.repo.DeleteUserData(ctx, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.auth.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("%s: auth account: %w", op, err)
	}

	s.log.Info("user deleted", slog.String("user_id", userID), slog.String("by", adminID))
	return nil
}
