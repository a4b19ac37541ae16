package deleteuser

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/grant-matching/internal/http/middlewarectx"
	"github.com/magabrotheeeer/grant-matching/internal/models"
	"github.com/magabrotheeeer/grant-matching/internal/services/user"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Delete(ctx context.Context, adminID, userID string) error {
	return m.Called(ctx, adminID, userID).Error(0)
}

const (
	adminID  = "0b5c8f8e-1d1f-4a55-9a57-6a0f3a1b2c3d"
	targetID = "6f9619ff-8b86-d011-b42d-00cf4fc964ff"
)

func TestHandler(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		mockSetup  func(m *ServiceMock)
		wantStatus int
		wantBody   string
	}{
		{
			name: "deleted",
			id:   targetID,
			mockSetup: func(m *ServiceMock) {
				m.On("Delete", mock.Anything, adminID, targetID).Return(nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"success":true`,
		},
		{
			name: "self delete",
			id:   adminID,
			mockSetup: func(m *ServiceMock) {
				m.On("Delete", mock.Anything, adminID, adminID).Return(user.ErrCannotDeleteSelf)
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   `"error":"cannot delete yourself"`,
		},
		{
			name:       "invalid id",
			id:         "nope",
			mockSetup:  func(_ *ServiceMock) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "auth api failure",
			id:   targetID,
			mockSetup: func(m *ServiceMock) {
				m.On("Delete", mock.Anything, adminID, targetID).Return(errors.New("supabase: 500"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			tt.mockSetup(svc)

			req := httptest.NewRequest(http.MethodDelete, "/api/admin/users/"+tt.id, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = middlewarectx.WithPrincipal(ctx, models.Principal{ID: adminID, Email: "admin@grant.kr"})
			w := httptest.NewRecorder()

			New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc).ServeHTTP(w, req.WithContext(ctx))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}
