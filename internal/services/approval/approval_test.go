package approval

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/grant-matching/internal/models"
	"github.com/magabrotheeeer/grant-matching/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ListCompaniesByStatus(ctx context.Context, status string, limit, offset int) ([]*models.Company, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Company), args.Error(1)
}

func (m *RepoMock) UpdateApproval(ctx context.Context, companyID, status, reason, decidedBy string, at time.Time) error {
	return m.Called(ctx, companyID, status, reason, decidedBy, at).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_List(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		limit      int
		offset     int
		wantStatus string
		wantLimit  int
		wantOffset int
	}{
		{name: "defaults", wantStatus: "pending", wantLimit: 50},
		{name: "explicit", status: "approved", limit: 10, offset: 20, wantStatus: "approved", wantLimit: 10, wantOffset: 20},
		{name: "capped", status: "rejected", limit: 5000, offset: -3, wantStatus: "rejected", wantLimit: 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			repo.On("ListCompaniesByStatus", mock.Anything, tt.wantStatus, tt.wantLimit, tt.wantOffset).
				Return([]*models.Company{{ID: "c1"}}, nil).Once()
			svc := New(repo, newNoopLogger())

			got, err := svc.List(context.Background(), tt.status, tt.limit, tt.offset)
			require.NoError(t, err)
			assert.Len(t, got, 1)
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Decide(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	admin := models.Principal{ID: "admin-id", Email: "admin@example.com"}

	tests := []struct {
		name       string
		decision   models.ApprovalDecision
		wantReason string
		repoErr    error
		wantErr    error
	}{
		{
			name:     "approve drops reason",
			decision: models.ApprovalDecision{CompanyID: "c1", Status: "approved", Reason: "ignored"},
		},
		{
			name:       "reject keeps reason",
			decision:   models.ApprovalDecision{CompanyID: "c1", Status: "rejected", Reason: "사업자번호 불일치"},
			wantReason: "사업자번호 불일치",
		},
		{
			name:     "unknown company",
			decision: models.ApprovalDecision{CompanyID: "c1", Status: "approved"},
			repoErr:  repository.ErrNotFound,
			wantErr:  repository.ErrNotFound,
		},
		{
			name:     "storage failure",
			decision: models.ApprovalDecision{CompanyID: "c1", Status: "approved"},
			repoErr:  errors.New("db down"),
			wantErr:  errors.New("db down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			repo.On("UpdateApproval", mock.Anything, "c1", tt.decision.Status, tt.wantReason, "admin@example.com", now).
				Return(tt.repoErr).Once()
			svc := New(repo, newNoopLogger())
			svc.now = func() time.Time { return now }

			err := svc.Decide(context.Background(), admin, tt.decision)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}
