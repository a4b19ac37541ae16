package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/magabrotheeeer/grant-matching/internal/models"
)

// CreateSearchQuery записывает поисковый запрос для аналитики.
func (s *Storage) CreateSearchQuery(ctx context.Context, q *models.SearchQuery) error {
	const op = "storage.CreateSearchQuery"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	filters := []byte("{}")
	if len(q.Filters) > 0 {
		var err error
		if filters, err = json.Marshal(q.Filters); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	_, err := s.DB.ExecContext(ctx, `INSERT INTO search_queries (user_id, query, filters, result_count)
		VALUES ($1, $2, $3::jsonb, $4)`, nullString(q.UserID), q.Query, string(filters), q.ResultCount)
	if err != nil {
		return wrap(op, err)
	}
	return nil
}
