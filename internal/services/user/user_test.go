package user

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) DeleteUserData(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type AuthMock struct{ mock.Mock }

func (m *AuthMock) DeleteUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_Delete(t *testing.T) {
	tests := []struct {
		name       string
		adminID    string
		setupMocks func(r *RepoMock, a *AuthMock)
		wantErr    bool
		wantIs     error
	}{
		{
			name:    "success",
			adminID: "admin",
			setupMocks: func(r *RepoMock, a *AuthMock) {
				r.On("DeleteUserData", mock.Anything, "u1").Return(nil).Once()
				a.On("DeleteUser", mock.Anything, "u1").Return(nil).Once()
			},
		},
		{
			name:       "self delete",
			adminID:    "u1",
			setupMocks: func(_ *RepoMock, _ *AuthMock) {},
			wantErr:    true,
			wantIs:     ErrCannotDeleteSelf,
		},
		{
			name:    "database failure keeps auth account",
			adminID: "admin",
			setupMocks: func(r *RepoMock, _ *AuthMock) {
				r.On("DeleteUserData", mock.Anything, "u1").Return(errors.New("db down")).Once()
			},
			wantErr: true,
		},
		{
			name:    "auth failure",
			adminID: "admin",
			setupMocks: func(r *RepoMock, a *AuthMock) {
				r.On("DeleteUserData", mock.Anything, "u1").Return(nil).Once()
				a.On("DeleteUser", mock.Anything, "u1").Return(errors.New("supabase 500")).Once()
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			a := new(AuthMock)
			tt.setupMocks(repo, a)

			err := New(repo, a, newNoopLogger()).Delete(context.Background(), tt.adminID, "u1")
			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantIs != nil {
					assert.ErrorIs(t, err, tt.wantIs)
				}
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
			a.AssertExpectations(t)
		})
	}
}
