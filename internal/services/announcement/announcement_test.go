package announcement

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

	"github.com/magabrotheeeer/grant-matching/internal/cache"
	"github.com/magabrotheeeer/grant-matching/internal/models"
	"github.com/magabrotheeeer/grant-matching/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetAnnouncement(ctx context.Context, id string) (*models.Announcement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Announcement), args.Error(1)
}

func (m *RepoMock) IncrementViewCount(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *CacheMock) Invalidate(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_Get(t *testing.T) {
	a := &models.Announcement{ID: "a1", Title: "청년창업사관학교", Status: models.AnnouncementStatusActive}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, c *CacheMock)
		wantErr    error
	}{
		{
			name: "cache miss loads from repository",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", mock.Anything, "announcement:a1", mock.Anything).Return(false, nil).Once()
				r.On("GetAnnouncement", mock.Anything, "a1").Return(a, nil).Once()
				c.On("Set", mock.Anything, "announcement:a1", a, time.Minute).Return(nil).Once()
			},
		},
		{
			name: "cache failure falls back to repository",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", mock.Anything, "announcement:a1", mock.Anything).Return(false, errors.New("redis down")).Once()
				r.On("GetAnnouncement", mock.Anything, "a1").Return(a, nil).Once()
				c.On("Set", mock.Anything, "announcement:a1", a, time.Minute).Return(errors.New("redis down")).Once()
			},
		},
		{
			name: "not found is not cached",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", mock.Anything, "announcement:a1", mock.Anything).Return(false, nil).Once()
				r.On("GetAnnouncement", mock.Anything, "a1").Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: repository.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			c := new(CacheMock)
			tt.setupMocks(repo, c)
			svc := New(repo, c, time.Minute, newNoopLogger())

			got, err := svc.Get(context.Background(), "a1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				c.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.Equal(t, a, got)
			}
			repo.AssertExpectations(t)
			c.AssertExpectations(t)
		})
	}
}

func TestService_Get_CacheHit(t *testing.T) {
	repo := new(RepoMock)
	a := &models.Announcement{ID: "a1", Title: "기술개발", Tags: []string{"R&D"}}
	repo.On("GetAnnouncement", mock.Anything, "a1").Return(a, nil).Once()

	svc := New(repo, cache.NewMemory(time.Minute), time.Minute, newNoopLogger())

	first, err := svc.Get(context.Background(), "a1")
	require.NoError(t, err)
	second, err := svc.Get(context.Background(), "a1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	repo.AssertNumberOfCalls(t, "GetAnnouncement", 1)
}

func TestService_RecordView(t *testing.T) {
	tests := []struct {
		name   string
		result error
	}{
		{name: "success", result: nil},
		{name: "failure is swallowed", result: errors.New("db down")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			repo.On("IncrementViewCount", mock.Anything, "a1").Return(tt.result).Once()
			svc := New(repo, cache.NewMemory(time.Minute), time.Minute, newNoopLogger())

			ctx, cancel := context.WithCancel(context.Background())
			svc.RecordView(ctx, "a1")
			cancel()
			svc.Close()

			repo.AssertExpectations(t)
		})
	}
}
