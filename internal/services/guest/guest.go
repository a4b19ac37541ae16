// Package guest отдаёт результаты подбора гостевой воронки и скрывает
// два лучших совпадения до оплаты.
package guest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/grant-matching/internal/lib/sl"
	"github.com/magabrotheeeer/grant-matching/internal/models"
	"github.com/magabrotheeeer/grant-matching/internal/storage/repository"
)

// Placeholder заменяет скрытые поля.
const Placeholder = "★★★★★"

// hiddenRanks — число лучших совпадений, скрываемых до оплаты.
const hiddenRanks = 2

// Repository определяет методы чтения гостевых данных.
type Repository interface {
	GetGuestMatch(ctx context.Context, id string) (*models.GuestMatch, error)
	GetGuestLead(ctx context.Context, id string) (*models.GuestLead, error)
}

// Service реализует просмотр гостевого результата.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создаёт сервис гостевой воронки.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Get возвращает результат подбора с применённым скрытием.
// Отсутствие лида не мешает показу совпадений.
func (s *Service) Get(ctx context.Context, id string) (*models.GuestMatchView, error) {
	const op = "guest.Get"

	m, err := s.repo.GetGuestMatch(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lead, err := s.repo.GetGuestLead(ctx, m.LeadID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		s.log.Warn("guest lead missing", slog.String("lead_id", m.LeadID), sl.Err(err))
	}

	items := Redact(m.Matches, m.TopRevealed)
	return &models.GuestMatchView{
		ID:          m.ID,
		Lead:        lead,
		Matches:     items,
		Total:       len(items),
		TopRevealed: m.TopRevealed,
	}, nil
}

// Redact возвращает копию списка, в которой у совпадений с rank 0 и 1 все поля,
// кроме rank, score, category, support_type и application_end, заменены заглушкой.
// Если revealed = true, список возвращается без изменений. Исходный срез не меняется.
func Redact(items []models.GuestMatchItem, revealed bool) []models.GuestMatchItem {
	result := make([]models.GuestMatchItem, len(items))
	copy(result, items)
	if revealed {
		return result
	}

	for i := range result {
		if result[i].Rank < 0 || result[i].Rank >= hiddenRanks {
			continue
		}
		result[i].AnnouncementID = Placeholder
		result[i].Title = Placeholder
		result[i].Organization = Placeholder
		result[i].SupportAmount = Placeholder
		result[i].Region = Placeholder
		result[i].Summary = Placeholder
		result[i].MatchReason = Placeholder
	}
	return result
}
