package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/magabrotheeeer/grant-matching/internal/models"
)

const announcementColumns = `id, title, organization, category, support_type, support_amount, support_amount_text,
	region, application_start, application_end, eligibility, evaluation_criteria, description, content_url,
	tags, status, application_count, view_count, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnnouncement(row rowScanner) (*models.Announcement, error) {
	var (
		a                models.Announcement
		amount           sql.NullInt64
		start, end       sql.NullTime
		applicationCount sql.NullInt32
		eligibility      []byte
		criteria         []byte
	)
	err := row.Scan(&a.ID, &a.Title, &a.Organization, &a.Category, &a.SupportType, &amount, &a.SupportAmountText,
		&a.Region, &start, &end, &eligibility, &criteria, &a.Description, &a.ContentURL,
		pq.Array(&a.Tags), &a.Status, &applicationCount, &a.ViewCount, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	if amount.Valid {
		a.SupportAmount = &amount.Int64
	}
	if start.Valid {
		a.ApplicationStart = &start.Time
	}
	if end.Valid {
		a.ApplicationEnd = &end.Time
	}
	if applicationCount.Valid {
		n := int(applicationCount.Int32)
		a.ApplicationCount = &n
	}
	if len(eligibility) > 0 {
		a.Eligibility = eligibility
	}
	if len(criteria) > 0 {
		a.EvaluationCriteria = criteria
	}
	return &a, nil
}

// GetAnnouncement возвращает объявление по id.
func (s *Storage) GetAnnouncement(ctx context.Context, id string) (*models.Announcement, error) {
	const op = "storage.GetAnnouncement"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + announcementColumns + ` FROM announcements WHERE id = $1`
	a, err := scanAnnouncement(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, wrap(op, err)
	}
	return a, nil
}

// IncrementViewCount увеличивает счётчик просмотров объявления на единицу.
func (s *Storage) IncrementViewCount(ctx context.Context, id string) error {
	const op = "storage.IncrementViewCount"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE announcements SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return wrap(op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return wrap(op, sql.ErrNoRows)
	}
	return nil
}

// SimilarStats собирает статистику по объявлениям той же организации или категории,
// не считая само объявление.
func (s *Storage) SimilarStats(ctx context.Context, a *models.Announcement) (models.SimilarStats, error) {
	const op = "storage.SimilarStats"
	var stats models.SimilarStats
	if err := checkCtx(ctx, op); err != nil {
		return stats, err
	}

	query := `SELECT
			COUNT(*) FILTER (WHERE organization = NULLIF($2, '')),
			COUNT(*) FILTER (WHERE category = NULLIF($3, '') AND status = 'active'),
			COUNT(application_count),
			COALESCE(AVG(application_count), 0)::float8
		FROM announcements
		WHERE id <> $1 AND (organization = NULLIF($2, '') OR category = NULLIF($3, ''))`
	err := s.DB.QueryRowContext(ctx, query, a.ID, a.Organization, a.Category).Scan(
		&stats.SameOrganizationCount,
		&stats.SameCategoryActive,
		&stats.TrackedSamples,
		&stats.AverageApplicationCount,
	)
	if err != nil {
		return stats, wrap(op, err)
	}
	return stats, nil
}

// ListDeadlineReminders возвращает напоминания для сохранённых объявлений, приём по которым
// заканчивается ровно через days_before дней от today. Учитываются только пользователи,
// включившие e-mail и напоминания о сроках, и объявления, по которым заявка ещё не подана.
func (s *Storage) ListDeadlineReminders(ctx context.Context, today time.Time) ([]models.DeadlineReminder, error) {
	const op = "storage.ListDeadlineReminders"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT sa.user_id, np.email, a.id, a.title, a.organization, a.application_end, np.days_before
		FROM saved_announcements sa
		JOIN announcements a ON a.id = sa.announcement_id
		JOIN notification_preferences np ON np.user_id = sa.user_id
		WHERE np.email_enabled AND np.deadline_reminder AND np.email <> ''
			AND a.status = 'active'
			AND sa.status IN ('interested', 'applying')
			AND a.application_end = $1::date + np.days_before
		ORDER BY sa.user_id, a.application_end`
	rows, err := s.DB.QueryContext(ctx, query, today.Format(time.DateOnly))
	if err != nil {
		return nil, wrap(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.DeadlineReminder
	for rows.Next() {
		var r models.DeadlineReminder
		if err := rows.Scan(&r.UserID, &r.Email, &r.AnnouncementID, &r.AnnouncementTitle,
			&r.Organization, &r.ApplicationEnd, &r.DaysLeft); err != nil {
			return nil, wrap(op, err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return result, nil
}
