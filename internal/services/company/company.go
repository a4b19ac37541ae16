// Package company регистрирует профили компаний пользователей.
package company

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/grant-matching/internal/lib/corptype"
	"github.com/magabrotheeeer/grant-matching/internal/models"
	"github.com/magabrotheeeer/grant-matching/internal/storage/repository"
)

// ErrAlreadyRegistered — у пользователя уже есть профиль компании.
var ErrAlreadyRegistered = errors.New("company already registered")

// Repository определяет методы хранилища компаний.
type Repository interface {
	CreateCompany(ctx context.Context, c *models.Company) (*models.Company, error)
	GetCompanyByUser(ctx context.Context, userID string) (*models.Company, error)
}

// Service реализует онбординг компании.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создаёт сервис компаний.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Register создаёт профиль компании пользователя со статусом pending.
// Форма юрлица выводится из названия и типа налогоплательщика.
func (s *Service) Register(ctx context.Context, userID string, req models.CompanyRequest) (*models.Company, error) {
	const op = "company.Register"

	name := strings.TrimSpace(req.Name)
	c := &models.Company{
		UserID:          userID,
		Name:            name,
		BusinessNumber:  req.BusinessNumber,
		TaxType:         req.TaxType,
		CorporationType: string(corptype.Infer(name, corptype.TaxType(req.TaxType))),
		Industry:        req.Industry,
		Region:          req.Region,
		EmployeeCount:   req.EmployeeCount,
		AnnualRevenue:   req.AnnualRevenue,
		FoundedYear:     req.FoundedYear,
		ApprovalStatus:  models.ApprovalPending,
	}

	created, err := s.repo.CreateCompany(ctx, c)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("company registered",
		slog.String("company_id", created.ID),
		slog.String("corporation_type", created.CorporationType))
	return created, nil
}

// Me возвращает профиль компании пользователя.
func (s *Service) Me(ctx context.Context, userID string) (*models.Company, error) {
	return s.repo.GetCompanyByUser(ctx, userID)
}
