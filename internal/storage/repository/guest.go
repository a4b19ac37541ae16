package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/magabrotheeeer/grant-matching/internal/models"
)

// GetGuestMatch возвращает сохранённый результат подбора для гостя.
func (s *Storage) GetGuestMatch(ctx context.Context, id string) (*models.GuestMatch, error) {
	const op = "storage.GetGuestMatch"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var (
		m       models.GuestMatch
		matches []byte
	)
	err := s.DB.QueryRowContext(ctx, `SELECT id, lead_id, matches, top_revealed, created_at
		FROM guest_matches WHERE id = $1`, id).Scan(&m.ID, &m.LeadID, &matches, &m.TopRevealed, &m.CreatedAt)
	if err != nil {
		return nil, wrap(op, err)
	}
	if err := json.Unmarshal(matches, &m.Matches); err != nil {
		return nil, fmt.Errorf("%s: decode matches: %w", op, err)
	}
	return &m, nil
}

// GetGuestLead возвращает гостевой лид.
func (s *Storage) GetGuestLead(ctx context.Context, id string) (*models.GuestLead, error) {
	const op = "storage.GetGuestLead"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var l models.GuestLead
	err := s.DB.QueryRowContext(ctx, `SELECT id, email, company_name, industry, region, marketing_opt_out, created_at
		FROM guest_leads WHERE id = $1`, id).Scan(
		&l.ID, &l.Email, &l.CompanyName, &l.Industry, &l.Region, &l.MarketingOptOut, &l.CreatedAt)
	if err != nil {
		return nil, wrap(op, err)
	}
	return &l, nil
}

// SetTopRevealed открывает два лучших совпадения гостевого результата.
func (s *Storage) SetTopRevealed(ctx context.Context, guestMatchID string) error {
	const op = "storage.SetTopRevealed"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE guest_matches SET top_revealed = TRUE WHERE id = $1`, guestMatchID)
	if err != nil {
		return wrap(op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return wrap(op, sql.ErrNoRows)
	}
	return nil
}

// OptOutGuestLeads отключает маркетинговые письма для всех лидов с этой почтой.
func (s *Storage) OptOutGuestLeads(ctx context.Context, email string) (int64, error) {
	const op = "storage.OptOutGuestLeads"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE guest_leads SET marketing_opt_out = TRUE
		WHERE lower(email) = lower($1) AND NOT marketing_opt_out`, email)
	if err != nil {
		return 0, wrap(op, err)
	}
	return res.RowsAffected()
}
