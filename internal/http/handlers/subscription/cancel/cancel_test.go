package cancel

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/grant-matching/internal/http/middlewarectx"
	"github.com/magabrotheeeer/grant-matching/internal/models"
	"github.com/magabrotheeeer/grant-matching/internal/services/subscription"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Cancel(ctx context.Context, principal models.Principal, req models.CancelRequest) error {
	return m.Called(ctx, principal, req).Error(0)
}

const otherID = "6f9619ff-8b86-d011-b42d-00cf4fc964ff"

func TestHandler(t *testing.T) {
	user := models.Principal{ID: "u1", Email: "u@grant.kr"}

	tests := []struct {
		name       string
		body       string
		err        error
		call       bool
		wantReq    models.CancelRequest
		wantStatus int
		wantBody   string
	}{
		{name: "own with empty body", body: "", call: true, wantStatus: http.StatusOK, wantBody: `{"success":true}`},
		{name: "own with empty object", body: `{}`, call: true, wantStatus: http.StatusOK},
		{name: "someone else without admin", body: `{"user_id":"` + otherID + `"}`, call: true, wantReq: models.CancelRequest{UserID: otherID}, err: subscription.ErrForbidden, wantStatus: http.StatusForbidden},
		{name: "free plan", body: `{}`, call: true, err: subscription.ErrNotCancellable, wantStatus: http.StatusBadRequest, wantBody: `not cancellable`},
		{name: "already cancelled", body: `{}`, call: true, err: subscription.ErrAlreadyCancelled, wantStatus: http.StatusBadRequest, wantBody: `already cancelled`},
		{name: "invalid user id", body: `{"user_id":"x"}`, wantStatus: http.StatusBadRequest},
		{name: "storage error", body: `{}`, call: true, err: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.call {
				svc.On("Cancel", mock.Anything, user, tt.wantReq).Return(tt.err)
			}

			r := httptest.NewRequest(http.MethodPost, "/api/subscriptions/cancel", strings.NewReader(tt.body))
			r = r.WithContext(middlewarectx.WithPrincipal(r.Context(), user))
			w := httptest.NewRecorder()
			New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc).ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}
