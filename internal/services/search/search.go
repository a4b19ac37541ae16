// Package search записывает поисковые запросы для аналитики.
package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/grant-matching/internal/lib/sl"
	"github.com/magabrotheeeer/grant-matching/internal/models"
)

// Repository определяет метод хранилища поисковых запросов.
type Repository interface {
	CreateSearchQuery(ctx context.Context, q *models.SearchQuery) error
}

// Service записывает запросы.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создаёт сервис.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Record сохраняет запрос. Запись аналитики не должна мешать поиску,
// поэтому ошибка только логируется.
func (s *Service) Record(ctx context.Context, userID string, req models.SearchRecordRequest) {
	q := &models.SearchQuery{
		UserID:      userID,
		Query:       strings.TrimSpace(req.Query),
		Filters:     req.Filters,
		ResultCount: req.ResultCount,
	}
	if err := s.repo.CreateSearchQuery(ctx, q); err != nil {
		s.log.Warn("failed to record search query", slog.String("op", "search.Record"), sl.Err(err))
	}
}
