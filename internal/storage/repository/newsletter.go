package repository

import (
	"context"
	"database/sql"

	"github.com/magabrotheeeer/grant-matching/internal/models"
)

const newsletterColumns = `id, email, token, status, confirmed_at, created_at`

func scanSubscriber(row rowScanner) (*models.NewsletterSubscriber, error) {
	var (
		sub         models.NewsletterSubscriber
		confirmedAt sql.NullTime
	)
	if err := row.Scan(&sub.ID, &sub.Email, &sub.Token, &sub.Status, &confirmedAt, &sub.CreatedAt); err != nil {
		return nil, err
	}
	if confirmedAt.Valid {
		sub.ConfirmedAt = &confirmedAt.Time
	}
	return &sub, nil
}

// UpsertNewsletterSubscriber регистрирует подписку с токеном подтверждения.
// Для уже подтверждённого адреса запись не меняется, для остальных выставляется
// статус pending и новый токен.
func (s *Storage) UpsertNewsletterSubscriber(ctx context.Context, email, token string) (*models.NewsletterSubscriber, error) {
	const op = "storage.UpsertNewsletterSubscriber"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `INSERT INTO newsletter_subscribers (email, token, status)
		VALUES ($1, $2, 'pending')
		ON CONFLICT (email) DO UPDATE
		SET token = CASE WHEN newsletter_subscribers.status = 'confirmed'
				THEN newsletter_subscribers.token ELSE EXCLUDED.token END,
			status = CASE WHEN newsletter_subscribers.status = 'confirmed'
				THEN 'confirmed' ELSE 'pending' END
		RETURNING ` + newsletterColumns
	sub, err := scanSubscriber(s.DB.QueryRowContext(ctx, query, email, token))
	if err != nil {
		return nil, wrap(op, err)
	}
	return sub, nil
}

// ConfirmNewsletter подтверждает подписку по токену. Повторное подтверждение
// сохраняет исходное время confirmed_at.
func (s *Storage) ConfirmNewsletter(ctx context.Context, token string) (*models.NewsletterSubscriber, error) {
	const op = "storage.ConfirmNewsletter"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `UPDATE newsletter_subscribers
		SET status = 'confirmed', confirmed_at = COALESCE(confirmed_at, NOW())
		WHERE token = $1
		RETURNING ` + newsletterColumns
	sub, err := scanSubscriber(s.DB.QueryRowContext(ctx, query, token))
	if err != nil {
		return nil, wrap(op, err)
	}
	return sub, nil
}

// UnsubscribeNewsletter отписывает адрес от рассылки.
func (s *Storage) UnsubscribeNewsletter(ctx context.Context, email string) (int64, error) {
	const op = "storage.UnsubscribeNewsletter"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE newsletter_subscribers SET status = 'unsubscribed'
		WHERE lower(email) = lower($1) AND status <> 'unsubscribed'`, email)
	if err != nil {
		return 0, wrap(op, err)
	}
	return res.RowsAffected()
}
