package getsettings

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/grant-matching/internal/http/middlewarectx"
	"github.com/magabrotheeeer/grant-matching/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Get(ctx context.Context, principal models.Principal) (*models.NotificationPreference, error) {
	args := m.Called(ctx, principal)
	p, _ := args.Get(0).(*models.NotificationPreference)
	return p, args.Error(1)
}

func TestHandler(t *testing.T) {
	user := models.Principal{ID: "u1", Email: "u@grant.kr"}

	tests := []struct {
		name       string
		result     *models.NotificationPreference
		err        error
		wantStatus int
		wantBody   string
	}{
		{name: "defaults", result: models.DefaultNotificationPreference("u1", "u@grant.kr"), wantStatus: http.StatusOK, wantBody: `"days_before":3`},
		{name: "storage error", err: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			svc.On("Get", mock.Anything, user).Return(tt.result, tt.err)

			r := httptest.NewRequest(http.MethodGet, "/api/notifications/settings", nil)
			r = r.WithContext(middlewarectx.WithPrincipal(r.Context(), user))
			w := httptest.NewRecorder()
			New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc).ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}
