package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/grant-matching/internal/models"
)

func newMock(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewWithDB(db), mock
}

func q(fragment string) string {
	return regexp.QuoteMeta(fragment)
}

var announcementCols = []string{"id", "title", "organization", "category", "support_type", "support_amount",
	"support_amount_text", "region", "application_start", "application_end", "eligibility", "evaluation_criteria",
	"description", "content_url", "tags", "status", "application_count", "view_count", "created_at"}

func TestStorage_GetAnnouncement(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		id      string
		setup   func(m sqlmock.Sqlmock)
		wantErr error
		check   func(t *testing.T, a *models.Announcement)
	}{
		{
			name: "found with nullable fields",
			id:   "a1",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(q("FROM announcements WHERE id = $1")).WithArgs("a1").
					WillReturnRows(sqlmock.NewRows(announcementCols).AddRow(
						"a1", "창업지원", "중소벤처기업부", "창업", "자금", int64(100000000), "1억원",
						"서울", nil, end, []byte(`{"age":"39세 이하"}`), []byte(`{}`),
						"설명", "https://example.com/a1", []byte(`{AI,창업}`), "active", nil, 12, created))
			},
			check: func(t *testing.T, a *models.Announcement) {
				require.NotNil(t, a.SupportAmount)
				assert.Equal(t, int64(100000000), *a.SupportAmount)
				assert.Nil(t, a.ApplicationStart)
				require.NotNil(t, a.ApplicationEnd)
				assert.True(t, end.Equal(*a.ApplicationEnd))
				assert.Nil(t, a.ApplicationCount)
				assert.Equal(t, []string{"AI", "창업"}, a.Tags)
				assert.JSONEq(t, `{"age":"39세 이하"}`, string(a.Eligibility))
				assert.Equal(t, 12, a.ViewCount)
			},
		},
		{
			name: "not found",
			id:   "missing",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(q("FROM announcements WHERE id = $1")).WithArgs("missing").
					WillReturnRows(sqlmock.NewRows(announcementCols))
			},
			wantErr: ErrNotFound,
		},
		{
			name: "invalid uuid is not found",
			id:   "not-a-uuid",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(q("FROM announcements WHERE id = $1")).WithArgs("not-a-uuid").
					WillReturnError(&pgconn.PgError{Code: "22P02"})
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMock(t)
			tt.setup(mock)

			a, err := s.GetAnnouncement(context.Background(), tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, a)
		})
	}
}

func TestStorage_IncrementViewCount(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec(q("UPDATE announcements SET view_count = view_count + 1")).WithArgs("a1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("UPDATE announcements SET view_count = view_count + 1")).WithArgs("a2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.IncrementViewCount(context.Background(), "a1"))
	assert.ErrorIs(t, s.IncrementViewCount(context.Background(), "a2"), ErrNotFound)
}

func TestStorage_SimilarStats(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(q("COUNT(*) FILTER (WHERE organization = NULLIF($2, ''))")).
		WithArgs("a1", "중소벤처기업부", "창업").
		WillReturnRows(sqlmock.NewRows([]string{"org", "cat", "tracked", "avg"}).AddRow(4, 7, 3, 52.5))

	stats, err := s.SimilarStats(context.Background(), &models.Announcement{ID: "a1", Organization: "중소벤처기업부", Category: "창업"})
	require.NoError(t, err)
	assert.Equal(t, models.SimilarStats{
		SameOrganizationCount:   4,
		SameCategoryActive:      7,
		TrackedSamples:          3,
		AverageApplicationCount: 52.5,
	}, stats)
}

func TestStorage_CreateCompany_Duplicate(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(q("INSERT INTO companies")).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "companies_user_id_key"})

	_, err := s.CreateCompany(context.Background(), &models.Company{UserID: "u1", Name: "그랜트", ApprovalStatus: models.ApprovalPending})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestStorage_UpdateApproval(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	t.Run("updated", func(t *testing.T) {
		s, mock := newMock(t)
		mock.ExpectExec(q("UPDATE companies")).
			WithArgs("c1", models.ApprovalApproved, "", "admin@grantmatch.kr", at).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.UpdateApproval(context.Background(), "c1", models.ApprovalApproved, "", "admin@grantmatch.kr", at))
	})

	t.Run("unknown company", func(t *testing.T) {
		s, mock := newMock(t)
		mock.ExpectExec(q("UPDATE companies")).WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.UpdateApproval(context.Background(), "c404", models.ApprovalRejected, "서류 미비", "admin@grantmatch.kr", at)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

var paymentCols = []string{"id", "user_id", "amount", "method", "order_id", "status", "payment_key", "metadata",
	"created_at", "updated_at"}

func paymentRow(status string) *sqlmock.Rows {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(paymentCols).AddRow("p1", "u1", int64(29000), "toss", "order-1", status, "pk",
		[]byte(`{"product":"pro"}`), now, now)
}

func TestStorage_UpdatePaymentStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("status changed", func(t *testing.T) {
		s, mock := newMock(t)
		mock.ExpectQuery(q("status IS DISTINCT FROM $2")).
			WithArgs("order-1", models.PaymentCompleted, "pk").
			WillReturnRows(paymentRow("completed"))

		p, changed, err := s.UpdatePaymentStatus(ctx, "order-1", models.PaymentCompleted, "pk")
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, models.PaymentCompleted, p.Status)
		assert.Equal(t, "pro", p.Metadata[models.MetaProduct])
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		s, mock := newMock(t)
		mock.ExpectQuery(q("status IS DISTINCT FROM $2")).WillReturnRows(sqlmock.NewRows(paymentCols))
		mock.ExpectQuery(q("FROM payments WHERE order_id = $1")).WithArgs("order-1").
			WillReturnRows(paymentRow("completed"))

		p, changed, err := s.UpdatePaymentStatus(ctx, "order-1", models.PaymentCompleted, "")
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, "order-1", p.OrderID)
	})

	t.Run("unknown order", func(t *testing.T) {
		s, mock := newMock(t)
		mock.ExpectQuery(q("status IS DISTINCT FROM $2")).WillReturnRows(sqlmock.NewRows(paymentCols))
		mock.ExpectQuery(q("FROM payments WHERE order_id = $1")).WillReturnRows(sqlmock.NewRows(paymentCols))

		_, _, err := s.UpdatePaymentStatus(ctx, "order-x", models.PaymentFailed, "")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStorage_ListPayments(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(q("FROM payments")).WithArgs("completed", 20, 40).WillReturnRows(paymentRow("completed"))

	list, err := s.ListPayments(context.Background(), models.PaymentFilter{Status: "completed", Limit: 20, Offset: 40})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(29000), list[0].Amount)
}

func TestStorage_DowngradeExpired(t *testing.T) {
	s, mock := newMock(t)
	now := time.Date(2024, 6, 1, 0, 15, 0, 0, time.UTC)
	mock.ExpectExec(q("SET plan = 'free'")).WithArgs(now).WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := s.DowngradeExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestStorage_DeleteUserData(t *testing.T) {
	t.Run("commit", func(t *testing.T) {
		s, mock := newMock(t)
		mock.ExpectBegin()
		for _, stmt := range append(append([]string{}, userOwnedDeletes...), userDetaches...) {
			mock.ExpectExec(q(stmt)).WithArgs("u1").WillReturnResult(sqlmock.NewResult(0, 1))
		}
		mock.ExpectCommit()

		require.NoError(t, s.DeleteUserData(context.Background(), "u1"))
	})

	t.Run("rollback on failure", func(t *testing.T) {
		s, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(q(userOwnedDeletes[0])).WithArgs("u1").WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(q(userOwnedDeletes[1])).WithArgs("u1").WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		err := s.DeleteUserData(context.Background(), "u1")
		assert.ErrorContains(t, err, "storage.DeleteUserData")
	})
}

func TestStorage_UpdateSavedAnnouncement(t *testing.T) {
	s, mock := newMock(t)
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	status := "applying"
	mock.ExpectQuery(q("SET memo = COALESCE($2, memo)")).
		WithArgs("s1", nil, "applying").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "announcement_id", "memo", "status", "created_at", "updated_at"}).
			AddRow("s1", "u1", "a1", "", "applying", now, now))

	sa, err := s.UpdateSavedAnnouncement(context.Background(), "s1", nil, &status)
	require.NoError(t, err)
	assert.Equal(t, "applying", sa.Status)
}

func TestStorage_ListDeadlineReminders(t *testing.T) {
	s, mock := newMock(t)
	today := time.Date(2024, 3, 28, 9, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(q("JOIN notification_preferences np")).WithArgs("2024-03-28").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "email", "id", "title", "organization", "application_end", "days_before"}).
			AddRow("u1", "user@example.com", "a1", "창업지원", "중기부", end, 3))

	list, err := s.ListDeadlineReminders(context.Background(), today)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.DeadlineReminder{
		UserID: "u1", Email: "user@example.com", AnnouncementID: "a1", AnnouncementTitle: "창업지원",
		Organization: "중기부", ApplicationEnd: end, DaysLeft: 3,
	}, list[0])
}

func TestStorage_CanceledContext(t *testing.T) {
	s, _ := newMock(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.GetSubscription(ctx, "u1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStorage_CancelSubscription(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec(q("SET status = 'cancelled'")).WithArgs("u1", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("SET status = 'cancelled'")).WithArgs("u2", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.CancelSubscription(context.Background(), "u1", time.Now()))
	assert.ErrorIs(t, s.CancelSubscription(context.Background(), "u2", time.Now()), ErrNotFound)
}
