package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/magabrotheeeer/grant-matching/internal/models"
)

const subscriptionColumns = `user_id, plan, status, billing_key, current_period_end, cancelled_at, updated_at`

func scanSubscription(row rowScanner) (*models.Subscription, error) {
	var (
		sub                    models.Subscription
		periodEnd, cancelledAt sql.NullTime
	)
	err := row.Scan(&sub.UserID, &sub.Plan, &sub.Status, &sub.BillingKey, &periodEnd, &cancelledAt, &sub.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if periodEnd.Valid {
		sub.CurrentPeriodEnd = &periodEnd.Time
	}
	if cancelledAt.Valid {
		sub.CancelledAt = &cancelledAt.Time
	}
	return &sub, nil
}

// GetSubscription возвращает подписку пользователя.
func (s *Storage) GetSubscription(ctx context.Context, userID string) (*models.Subscription, error) {
	const op = "storage.GetSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE user_id = $1`
	sub, err := scanSubscription(s.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, wrap(op, err)
	}
	return sub, nil
}

// ActivatePro включает тариф pro до periodEnd и снимает отмену.
func (s *Storage) ActivatePro(ctx context.Context, userID string, periodEnd time.Time) error {
	const op = "storage.ActivatePro"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	query := `INSERT INTO subscriptions (user_id, plan, status, current_period_end, updated_at)
		VALUES ($1, 'pro', 'active', $2, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET plan = 'pro', status = 'active', current_period_end = EXCLUDED.current_period_end,
			cancelled_at = NULL, updated_at = NOW()`
	if _, err := s.DB.ExecContext(ctx, query, userID, periodEnd); err != nil {
		return wrap(op, err)
	}
	return nil
}

// CancelSubscription помечает подписку отменённой. Тариф сохраняется до конца периода.
func (s *Storage) CancelSubscription(ctx context.Context, userID string, at time.Time) error {
	const op = "storage.CancelSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE subscriptions
		SET status = 'cancelled', cancelled_at = $2, updated_at = $2
		WHERE user_id = $1`, userID, at)
	if err != nil {
		return wrap(op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return wrap(op, sql.ErrNoRows)
	}
	return nil
}

// DowngradeExpired переводит на free отменённые подписки с истёкшим периодом.
func (s *Storage) DowngradeExpired(ctx context.Context, now time.Time) (int64, error) {
	const op = "storage.DowngradeExpired"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE subscriptions
		SET plan = 'free', status = 'active', current_period_end = NULL, cancelled_at = NULL, billing_key = '',
			updated_at = $1
		WHERE plan = 'pro' AND status = 'cancelled' AND current_period_end IS NOT NULL AND current_period_end <= $1`, now)
	if err != nil {
		return 0, wrap(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrap(op, err)
	}
	return n, nil
}
