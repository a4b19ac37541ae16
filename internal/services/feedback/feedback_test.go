package feedback

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/grant-matching/internal/models"
	"github.com/magabrotheeeer/grant-matching/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) UpsertMatchFeedback(ctx context.Context, f *models.MatchFeedback) (*models.MatchFeedback, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MatchFeedback), args.Error(1)
}

func (m *RepoMock) GetMatchFeedback(ctx context.Context, matchID, userID string) (*models.MatchFeedback, error) {
	args := m.Called(ctx, matchID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MatchFeedback), args.Error(1)
}

func (m *RepoMock) CreateFeedback(ctx context.Context, f *models.Feedback) (string, error) {
	args := m.Called(ctx, f)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_SubmitMatch(t *testing.T) {
	repo := new(RepoMock)
	expected := &models.MatchFeedback{
		MatchID:    "m1",
		UserID:     "u1",
		Rating:     4,
		IsRelevant: true,
		Reasons:    []string{"지역 일치", "업종 일치"},
		Comment:    "좋아요",
	}
	repo.On("UpsertMatchFeedback", mock.Anything, expected).Return(&models.MatchFeedback{ID: "f1"}, nil).Once()
	svc := New(repo, newNoopLogger())

	got, err := svc.SubmitMatch(context.Background(), "u1", "m1", models.MatchFeedbackRequest{
		Rating:     4,
		IsRelevant: true,
		Reasons:    []string{" 지역 일치 ", "", "업종 일치"},
		Comment:    " 좋아요 ",
	})
	require.NoError(t, err)
	assert.Equal(t, "f1", got.ID)
	repo.AssertExpectations(t)
}

func TestService_GetMatch(t *testing.T) {
	tests := []struct {
		name    string
		repoRes *models.MatchFeedback
		repoErr error
		wantNil bool
		wantErr bool
	}{
		{name: "found", repoRes: &models.MatchFeedback{ID: "f1"}},
		{name: "absent is null", repoErr: repository.ErrNotFound, wantNil: true},
		{name: "storage failure", repoErr: errors.New("db down"), wantNil: true, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			if tt.repoRes != nil {
				repo.On("GetMatchFeedback", mock.Anything, "m1", "u1").Return(tt.repoRes, nil).Once()
			} else {
				repo.On("GetMatchFeedback", mock.Anything, "m1", "u1").Return(nil, tt.repoErr).Once()
			}
			svc := New(repo, newNoopLogger())

			got, err := svc.GetMatch(context.Background(), "u1", "m1")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			if tt.wantNil {
				assert.Nil(t, got)
			} else {
				assert.Equal(t, tt.repoRes, got)
			}
		})
	}
}

func TestService_Submit(t *testing.T) {
	repo := new(RepoMock)
	repo.On("CreateFeedback", mock.Anything, &models.Feedback{Category: "bug", Message: "버튼이 안 눌려요"}).
		Return("fb1", nil).Once()
	svc := New(repo, newNoopLogger())

	id, err := svc.Submit(context.Background(), "", models.FeedbackRequest{Category: "bug", Message: "버튼이 안 눌려요\n"})
	require.NoError(t, err)
	assert.Equal(t, "fb1", id)
	repo.AssertExpectations(t)
}
