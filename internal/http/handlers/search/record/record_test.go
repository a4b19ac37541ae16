package record

import (
	"context"
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

func (m *ServiceMock) Record(ctx context.Context, userID string, req models.SearchRecordRequest) {
	m.Called(ctx, userID, req)
}

func TestHandler(t *testing.T) {
	const body = `{"query":"청년 창업","filters":{"region":"서울"},"result_count":12}`
	want := models.SearchRecordRequest{Query: "청년 창업", Filters: map[string]string{"region": "서울"}, ResultCount: 12}

	tests := []struct {
		name       string
		body       string
		principal  *models.Principal
		userID     string
		call       bool
		wantStatus int
	}{
		{name: "anonymous", body: body, call: true, wantStatus: http.StatusOK},
		{name: "with session", body: body, principal: &models.Principal{ID: "u1"}, userID: "u1", call: true, wantStatus: http.StatusOK},
		{name: "empty query", body: `{"query":""}`, wantStatus: http.StatusBadRequest},
		{name: "negative count", body: `{"query":"a","result_count":-1}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.call {
				svc.On("Record", mock.Anything, tt.userID, want).Once()
			}

			r := httptest.NewRequest(http.MethodPost, "/api/search/record", strings.NewReader(tt.body))
			if tt.principal != nil {
				r = r.WithContext(middlewarectx.WithPrincipal(r.Context(), *tt.principal))
			}
			w := httptest.NewRecorder()
			New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc).ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}
