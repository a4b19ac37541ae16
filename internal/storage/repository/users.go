package repository

import (
	"context"
	"fmt"
)

// userOwnedDeletes удаляют данные, принадлежащие пользователю.
var userOwnedDeletes = []string{
	`DELETE FROM match_feedback WHERE user_id = $1`,
	`DELETE FROM saved_announcements WHERE user_id = $1`,
	`DELETE FROM business_plans WHERE user_id = $1`,
	`DELETE FROM notification_preferences WHERE user_id = $1`,
	`DELETE FROM subscriptions WHERE user_id = $1`,
	`DELETE FROM companies WHERE user_id = $1`,
}

// userDetaches обезличивают аналитику пользователя. Платежи не трогаются:
// они нужны для бухгалтерии и сверки со шлюзами.
var userDetaches = []string{
	`UPDATE feedback SET user_id = NULL WHERE user_id = $1`,
	`UPDATE search_queries SET user_id = NULL WHERE user_id = $1`,
}

// DeleteUserData удаляет данные пользователя в одной транзакции.
func (s *Storage) DeleteUserData(ctx context.Context, userID string) error {
	const op = "storage.DeleteUserData"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, q := range append(append([]string{}, userOwnedDeletes...), userDetaches...) {
		if _, err := tx.ExecContext(ctx, q, userID); err != nil {
			return wrap(op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
