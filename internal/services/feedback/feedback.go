// Package feedback сохраняет оценки результатов подбора и отзывы о сервисе.
package feedback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/grant-matching/internal/models"
	"github.com/magabrotheeeer/grant-matching/internal/storage/repository"
)

// Repository определяет методы хранилища отзывов.
type Repository interface {
	UpsertMatchFeedback(ctx context.Context, f *models.MatchFeedback) (*models.MatchFeedback, error)
	GetMatchFeedback(ctx context.Context, matchID, userID string) (*models.MatchFeedback, error)
	CreateFeedback(ctx context.Context, f *models.Feedback) (string, error)
}

// Service реализует приём отзывов.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создаёт сервис отзывов.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// SubmitMatch создаёт или заменяет оценку пользователя для результата подбора.
func (s *Service) SubmitMatch(ctx context.Context, userID, matchID string, req models.MatchFeedbackRequest) (*models.MatchFeedback, error) {
	const op = "feedback.SubmitMatch"

	reasons := make([]string, 0, len(req.Reasons))
	for _, r := range req.Reasons {
		if r = strings.TrimSpace(r); r != "" {
			reasons = append(reasons, r)
		}
	}

	f, err := s.repo.UpsertMatchFeedback(ctx, &models.MatchFeedback{
		MatchID:    matchID,
		UserID:     userID,
		Rating:     req.Rating,
		IsRelevant: req.IsRelevant,
		Reasons:    reasons,
		Comment:    strings.TrimSpace(req.Comment),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return f, nil
}

// GetMatch возвращает оценку пользователя или nil, если её нет.
func (s *Service) GetMatch(ctx context.Context, userID, matchID string) (*models.MatchFeedback, error) {
	const op = "feedback.GetMatch"

	f, err := s.repo.GetMatchFeedback(ctx, matchID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return f, nil
}

// Submit сохраняет отзыв о сервисе. userID пуст для анонимного отзыва.
func (s *Service) Submit(ctx context.Context, userID string, req models.FeedbackRequest) (string, error) {
	const op = "feedback.Submit"

	id, err := s.repo.CreateFeedback(ctx, &models.Feedback{
		UserID:   userID,
		Category: req.Category,
		Message:  strings.TrimSpace(req.Message),
		PageURL:  req.PageURL,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("feedback received", slog.String("id", id), slog.String("category", req.Category))
	return id, nil
}
