package repository

import (
	"context"

	"github.com/magabrotheeeer/grant-matching/internal/models"
)

const savedColumns = `id, user_id, announcement_id, memo, status, created_at, updated_at`

func scanSaved(row rowScanner) (*models.SavedAnnouncement, error) {
	var sa models.SavedAnnouncement
	err := row.Scan(&sa.ID, &sa.UserID, &sa.AnnouncementID, &sa.Memo, &sa.Status, &sa.CreatedAt, &sa.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &sa, nil
}

// GetSavedAnnouncement возвращает сохранённое объявление по id.
func (s *Storage) GetSavedAnnouncement(ctx context.Context, id string) (*models.SavedAnnouncement, error) {
	const op = "storage.GetSavedAnnouncement"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	sa, err := scanSaved(s.DB.QueryRowContext(ctx, `SELECT `+savedColumns+` FROM saved_announcements WHERE id = $1`, id))
	if err != nil {
		return nil, wrap(op, err)
	}
	return sa, nil
}

// UpdateSavedAnnouncement меняет заметку и/или статус. nil-поля остаются прежними.
func (s *Storage) UpdateSavedAnnouncement(ctx context.Context, id string, memo, status *string) (*models.SavedAnnouncement, error) {
	const op = "storage.UpdateSavedAnnouncement"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `UPDATE saved_announcements
		SET memo = COALESCE($2, memo), status = COALESCE($3, status), updated_at = NOW()
		WHERE id = $1
		RETURNING ` + savedColumns
	sa, err := scanSaved(s.DB.QueryRowContext(ctx, query, id, memo, status))
	if err != nil {
		return nil, wrap(op, err)
	}
	return sa, nil
}
