package repository

import (
	"context"

	"github.com/lib/pq"

	"github.com/magabrotheeeer/grant-matching/internal/models"
)

const matchFeedbackColumns = `id, match_id, user_id, rating, is_relevant, reasons, comment, created_at, updated_at`

func scanMatchFeedback(row rowScanner) (*models.MatchFeedback, error) {
	var f models.MatchFeedback
	err := row.Scan(&f.ID, &f.MatchID, &f.UserID, &f.Rating, &f.IsRelevant, pq.Array(&f.Reasons), &f.Comment,
		&f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// UpsertMatchFeedback создаёт или перезаписывает оценку пользователя для результата подбора.
func (s *Storage) UpsertMatchFeedback(ctx context.Context, f *models.MatchFeedback) (*models.MatchFeedback, error) {
	const op = "storage.UpsertMatchFeedback"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	reasons := f.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	query := `INSERT INTO match_feedback (match_id, user_id, rating, is_relevant, reasons, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (match_id, user_id) DO UPDATE
		SET rating = EXCLUDED.rating, is_relevant = EXCLUDED.is_relevant, reasons = EXCLUDED.reasons,
			comment = EXCLUDED.comment, updated_at = NOW()
		RETURNING ` + matchFeedbackColumns
	saved, err := scanMatchFeedback(s.DB.QueryRowContext(ctx, query,
		f.MatchID, f.UserID, f.Rating, f.IsRelevant, pq.Array(reasons), f.Comment))
	if err != nil {
		return nil, wrap(op, err)
	}
	return saved, nil
}

// GetMatchFeedback возвращает оценку пользователя для результата подбора.
func (s *Storage) GetMatchFeedback(ctx context.Context, matchID, userID string) (*models.MatchFeedback, error) {
	const op = "storage.GetMatchFeedback"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + matchFeedbackColumns + ` FROM match_feedback WHERE match_id = $1 AND user_id = $2`
	f, err := scanMatchFeedback(s.DB.QueryRowContext(ctx, query, matchID, userID))
	if err != nil {
		return nil, wrap(op, err)
	}
	return f, nil
}

// CreateFeedback сохраняет отзыв о сервисе. UserID может быть пустым для анонимного отзыва.
func (s *Storage) CreateFeedback(ctx context.Context, f *models.Feedback) (string, error) {
	const op = "storage.CreateFeedback"
	if err := checkCtx(ctx, op); err != nil {
		return "", err
	}

	var id string
	err := s.DB.QueryRowContext(ctx, `INSERT INTO feedback (user_id, category, message, page_url)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		nullString(f.UserID), f.Category, f.Message, f.PageURL).Scan(&id)
	if err != nil {
		return "", wrap(op, err)
	}
	return id, nil
}
