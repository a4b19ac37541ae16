package competition

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/grant-matching/internal/models"
)

// Repository определяет данные, нужные для прогноза.
type Repository interface {
	GetAnnouncement(ctx context.Context, id string) (*models.Announcement, error)
	SimilarStats(ctx context.Context, a *models.Announcement) (models.SimilarStats, error)
}

// Service собирает входные данные и вызывает Predict.
type Service struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

// New создаёт сервис прогноза конкуренции.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

// Predict загружает объявление и статистику похожих объявлений и рассчитывает прогноз.
func (s *Service) Predict(ctx context.Context, announcementID string) (*Prediction, error) {
	const op = "competition.Predict"

	a, err := s.repo.GetAnnouncement(ctx, announcementID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	stats, err := s.repo.SimilarStats(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	p := Predict(Input{Announcement: a, Stats: stats, Now: s.now()})
	s.log.Debug("competition predicted",
		slog.String("announcement_id", a.ID),
		slog.String("level", string(p.Level)),
		slog.Int("score", p.Score))
	return &p, nil
}
