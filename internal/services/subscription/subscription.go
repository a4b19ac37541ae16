// Package subscription содержит бизнес-логику тарифов: просмотр, отмену и
// понижение истёкших отменённых подписок до free.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/grant-matching/internal/models"
	"github.com/magabrotheeeer/grant-matching/internal/storage/repository"
)

var (
	// ErrForbidden — отмена чужой подписки без прав администратора.
	ErrForbidden = errors.New("forbidden")
	// ErrNotCancellable — подписки нет или она бесплатная.
	ErrNotCancellable = errors.New("subscription is not cancellable")
	// ErrAlreadyCancelled — подписка уже отменена.
	ErrAlreadyCancelled = errors.New("subscription already cancelled")
)

// Repository определяет методы для работы с подписками в хранилище.
type Repository interface {
	// GetSubscription возвращает подписку пользователя.
	GetSubscription(ctx context.Context, userID string) (*models.Subscription, error)
	// CancelSubscription помечает подписку отменённой.
	CancelSubscription(ctx context.Context, userID string, at time.Time) error
	// DowngradeExpired понижает отменённые подписки с истёкшим периодом.
	DowngradeExpired(ctx context.Context, now time.Time) (int64, error)
}

// Policy решает, является ли пользователь администратором.
type Policy interface {
	IsAdmin(principal models.Principal) bool
}

// Service реализует бизнес-логику работы с подписками.
type Service struct {
	repo   Repository
	policy Policy
	log    *slog.Logger
	now    func() time.Time
}

// New создает новый экземпляр Service.
func New(repo Repository, policy Policy, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		policy: policy,
		log:    log,
		now:    time.Now,
	}
}

// Me возвращает подписку пользователя. Без записи пользователь на тарифе free.
// Поле Plan содержит действующий тариф с учётом окончания периода.
func (s *Service) Me(ctx context.Context, userID string) (*models.Subscription, error) {
	const op = "subscription.Me"

	sub, err := s.repo.GetSubscription(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.FreeSubscription(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sub.Plan = sub.EffectivePlan(s.now())
	return sub, nil
}

// Cancel отменяет подписку. Пустой req.UserID означает собственную подписку,
// отмена чужой доступна только администратору. Тариф сохраняется до конца периода.
func (s *Service) Cancel(ctx context.Context, principal models.Principal, req models.CancelRequest) error {
	const op = "subscription.Cancel"

	target := req.UserID
	if target == "" {
		target = principal.ID
	}
	if target != principal.ID && !s.policy.IsAdmin(principal) {
		return ErrForbidden
	}

	sub, err := s.repo.GetSubscription(ctx, target)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotCancellable
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if sub.Plan != models.PlanPro {
		return ErrNotCancellable
	}
	if sub.Status == models.SubscriptionCancelled {
		return ErrAlreadyCancelled
	}

	if err := s.repo.CancelSubscription(ctx, target, s.now()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("subscription cancelled",
		slog.String("user_id", target),
		slog.String("by", principal.ID))
	return nil
}

// DowngradeExpired переводит на free отменённые подписки, чей период закончился.
func (s *Service) DowngradeExpired(ctx context.Context) (int64, error) {
	const op = "subscription.DowngradeExpired"

	n, err := s.repo.DowngradeExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if n > 0 {
		s.log.Info("expired subscriptions downgraded", slog.Int64("count", n))
	}
	return n, nil
}
