package update

import (
	"context"
	"errors"
	"fmt"
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
	"github.com/magabrotheeeer/grant-matching/internal/services/saved"
	"github.com/magabrotheeeer/grant-matching/internal/storage/repository"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Update(ctx context.Context, userID string, req models.SavedUpdateRequest) (*models.SavedAnnouncement, error) {
	args := m.Called(ctx, userID, req)
	s, _ := args.Get(0).(*models.SavedAnnouncement)
	return s, args.Error(1)
}

const savedID = "c56a4180-65aa-42ec-a945-5fd21dec0538"

func TestHandler(t *testing.T) {
	body := `{"id":"` + savedID + `","status":"applying"}`

	tests := []struct {
		name       string
		body       string
		call       bool
		result     *models.SavedAnnouncement
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "updated",
			body:       body,
			call:       true,
			result:     &models.SavedAnnouncement{ID: savedID, Status: "applying"},
			wantStatus: http.StatusOK,
			wantBody:   `"status":"applying"`,
		},
		{name: "unknown status", body: `{"id":"` + savedID + `","status":"won"}`, wantStatus: http.StatusBadRequest},
		{name: "missing id", body: `{"status":"applied"}`, wantStatus: http.StatusBadRequest},
		{name: "not owner", body: body, call: true, err: saved.ErrForbidden, wantStatus: http.StatusForbidden},
		{name: "unknown record", body: body, call: true, err: fmt.Errorf("saved.Update: %w", repository.ErrNotFound), wantStatus: http.StatusNotFound},
		{name: "storage error", body: body, call: true, err: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.call {
				svc.On("Update", mock.Anything, "u1", mock.MatchedBy(func(r models.SavedUpdateRequest) bool {
					return r.ID == savedID && r.Status != nil && *r.Status == "applying" && r.Memo == nil
				})).Return(tt.result, tt.err)
			}

			r := httptest.NewRequest(http.MethodPatch, "/api/saved-announcements/update", strings.NewReader(tt.body))
			r = r.WithContext(middlewarectx.WithPrincipal(r.Context(), models.Principal{ID: "u1"}))
			w := httptest.NewRecorder()
			New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc).ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}
