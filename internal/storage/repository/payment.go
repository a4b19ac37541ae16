package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/grant-matching/internal/models"
)

const paymentColumns = `id, COALESCE(user_id::text, ''), amount, method, order_id, status, payment_key, metadata,
	created_at, updated_at`

func scanPayment(row rowScanner) (*models.Payment, error) {
	var (
		p        models.Payment
		metadata []byte
	)
	err := row.Scan(&p.ID, &p.UserID, &p.Amount, &p.Method, &p.OrderID, &p.Status, &p.PaymentKey, &metadata,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &p.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
	}
	return &p, nil
}

// CreatePayment сохраняет новый платёж в статусе из p.Status.
func (s *Storage) CreatePayment(ctx context.Context, p *models.Payment) (*models.Payment, error) {
	const op = "storage.CreatePayment"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	metadata, err := json.Marshal(p.Metadata)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if p.Metadata == nil {
		metadata = []byte("{}")
	}

	query := `INSERT INTO payments (user_id, amount, method, order_id, status, metadata)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb)
		RETURNING ` + paymentColumns
	created, err := scanPayment(s.DB.QueryRowContext(ctx, query,
		nullString(p.UserID), p.Amount, p.Method, p.OrderID, p.Status, string(metadata)))
	if err != nil {
		return nil, wrap(op, err)
	}
	return created, nil
}

// GetPaymentByOrderID возвращает платёж по идентификатору заказа.
func (s *Storage) GetPaymentByOrderID(ctx context.Context, orderID string) (*models.Payment, error) {
	const op = "storage.GetPaymentByOrderID"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE order_id = $1`
	p, err := scanPayment(s.DB.QueryRowContext(ctx, query, orderID))
	if err != nil {
		return nil, wrap(op, err)
	}
	return p, nil
}

// UpdatePaymentStatus переводит платёж в status. Повторная запись того же статуса
// ничего не меняет: changed = false и возвращается текущее состояние платежа.
// Пустой paymentKey сохраняет уже записанный ключ.
func (s *Storage) UpdatePaymentStatus(ctx context.Context, orderID string, status models.PaymentStatus, paymentKey string) (*models.Payment, bool, error) {
	const op = "storage.UpdatePaymentStatus"
	if err := checkCtx(ctx, op); err != nil {
		return nil, false, err
	}

	query := `UPDATE payments
		SET status = $2, payment_key = COALESCE(NULLIF($3, ''), payment_key), updated_at = NOW()
		WHERE order_id = $1 AND status IS DISTINCT FROM $2
		RETURNING ` + paymentColumns
	p, err := scanPayment(s.DB.QueryRowContext(ctx, query, orderID, status, paymentKey))
	if err == nil {
		return p, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, wrap(op, err)
	}

	current, err := s.GetPaymentByOrderID(ctx, orderID)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return current, false, nil
}

// ListPayments возвращает платежи, новые первыми. Пустой Status выбирает все статусы.
func (s *Storage) ListPayments(ctx context.Context, filter models.PaymentFilter) ([]*models.Payment, error) {
	const op = "storage.ListPayments"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + paymentColumns + ` FROM payments
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, filter.Status, filter.Limit, filter.Offset)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, wrap(op, err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return result, nil
}
