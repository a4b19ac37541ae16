package site

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
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Submit(ctx context.Context, userID string, req models.FeedbackRequest) (string, error) {
	args := m.Called(ctx, userID, req)
	return args.String(0), args.Error(1)
}

func TestHandler(t *testing.T) {
	const body = `{"category":"bug","message":"버튼이 안 눌려요"}`
	want := models.FeedbackRequest{Category: "bug", Message: "버튼이 안 눌려요"}

	tests := []struct {
		name       string
		body       string
		principal  *models.Principal
		userID     string
		err        error
		call       bool
		wantStatus int
		wantBody   string
	}{
		{name: "anonymous", body: body, call: true, wantStatus: http.StatusOK, wantBody: `"id":"f1"`},
		{name: "with session", body: body, principal: &models.Principal{ID: "u1"}, userID: "u1", call: true, wantStatus: http.StatusOK},
		{name: "unknown category", body: `{"category":"praise","message":"x"}`, wantStatus: http.StatusBadRequest},
		{name: "bad page url", body: `{"category":"bug","message":"x","page_url":"not a url"}`, wantStatus: http.StatusBadRequest},
		{name: "storage error", body: body, call: true, err: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.call {
				id := "f1"
				if tt.err != nil {
					id = ""
				}
				svc.On("Submit", mock.Anything, tt.userID, want).Return(id, tt.err)
			}

			r := httptest.NewRequest(http.MethodPost, "/api/feedback", strings.NewReader(tt.body))
			if tt.principal != nil {
				r = r.WithContext(middlewarectx.WithPrincipal(r.Context(), *tt.principal))
			}
			w := httptest.NewRecorder()
			New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc).ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}
