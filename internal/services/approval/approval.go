// Package approval реализует проверку компаний администраторами.
package approval

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/grant-matching/internal/models"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// Repository определяет методы хранилища для проверки компаний.
type Repository interface {
	ListCompaniesByStatus(ctx context.Context, status string, limit, offset int) ([]*models.Company, error)
	UpdateApproval(ctx context.Context, companyID, status, reason, decidedBy string, at time.Time) error
}

// Service реализует список заявок и решения по ним.
type Service struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

// New создаёт сервис проверки компаний.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

// List возвращает компании с указанным статусом, по умолчанию ожидающие проверки.
func (s *Service) List(ctx context.Context, status string, limit, offset int) ([]*models.Company, error) {
	if status == "" {
		status = models.ApprovalPending
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListCompaniesByStatus(ctx, status, limit, offset)
}

// Decide сохраняет решение администратора. Причина сохраняется только при отказе.
func (s *Service) Decide(ctx context.Context, admin models.Principal, d models.ApprovalDecision) error {
	const op = "approval.Decide"

	reason := d.Reason
	if d.Status == models.ApprovalApproved {
		reason = ""
	}
	if err := s.repo.UpdateApproval(ctx, d.CompanyID, d.Status, reason, admin.Email, s.now()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("company approval decided",
		slog.String("company_id", d.CompanyID),
		slog.String("status", d.Status),
		slog.String("admin", admin.Email))
	return nil
}
