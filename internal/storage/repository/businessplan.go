package repository

import (
	"context"

	"github.com/magabrotheeeer/grant-matching/internal/models"
)

// CreateBusinessPlan сохраняет загруженный бизнес-план вместе с извлечённым текстом.
func (s *Storage) CreateBusinessPlan(ctx context.Context, p *models.BusinessPlan) (*models.BusinessPlan, error) {
	const op = "storage.CreateBusinessPlan"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	saved := *p
	err := s.DB.QueryRowContext(ctx, `INSERT INTO business_plans (user_id, filename, content_type, size_bytes, text)
		VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		p.UserID, p.Filename, p.ContentType, p.SizeBytes, p.Text).Scan(&saved.ID, &saved.CreatedAt)
	if err != nil {
		return nil, wrap(op, err)
	}
	return &saved, nil
}

// LatestBusinessPlan возвращает последний загруженный бизнес-план пользователя.
func (s *Storage) LatestBusinessPlan(ctx context.Context, userID string) (*models.BusinessPlan, error) {
	const op = "storage.LatestBusinessPlan"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var p models.BusinessPlan
	err := s.DB.QueryRowContext(ctx, `SELECT id, user_id, filename, content_type, size_bytes, text, created_at
		FROM business_plans WHERE user_id = $1
		ORDER BY created_at DESC LIMIT 1`, userID).Scan(
		&p.ID, &p.UserID, &p.Filename, &p.ContentType, &p.SizeBytes, &p.Text, &p.CreatedAt)
	if err != nil {
		return nil, wrap(op, err)
	}
	return &p, nil
}
