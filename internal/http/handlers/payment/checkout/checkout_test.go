package checkout

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
	"github.com/magabrotheeeer/grant-matching/internal/services/payment"
	"github.com/magabrotheeeer/grant-matching/internal/storage/repository"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Checkout(ctx context.Context, principal models.Principal, req models.CheckoutRequest) (*models.Payment, error) {
	args := m.Called(ctx, principal, req)
	p, _ := args.Get(0).(*models.Payment)
	return p, args.Error(1)
}

const guestMatchID = "3b241101-e2bb-4255-8caf-4136c566a962"

func TestHandler(t *testing.T) {
	user := models.Principal{ID: "u1", Email: "u@grant.kr"}
	tests := []struct {
		name       string
		body       string
		principal  *models.Principal
		mockSetup  func(m *ServiceMock)
		wantStatus int
		wantBody   string
	}{
		{
			name:      "pro with session",
			body:      `{"method":"toss","product":"pro"}`,
			principal: &user,
			mockSetup: func(m *ServiceMock) {
				m.On("Checkout", mock.Anything, user, models.CheckoutRequest{Method: "toss", Product: "pro"}).
					Return(&models.Payment{OrderID: "GM-01", Amount: 29000, Method: "toss"}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"order_id":"GM-01"`,
		},
		{
			name: "anonymous guest reveal",
			body: `{"method":"kakao","product":"guest_reveal","guest_match_id":"` + guestMatchID + `"}`,
			mockSetup: func(m *ServiceMock) {
				m.On("Checkout", mock.Anything, models.Principal{}, mock.Anything).
					Return(&models.Payment{OrderID: "GM-02", Amount: 4900, Method: "kakao"}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"amount":4900`,
		},
		{
			name:       "unknown method",
			body:       `{"method":"paypal","product":"pro"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `field Method must be one of`,
		},
		{
			name: "anonymous pro",
			body: `{"method":"toss","product":"pro"}`,
			mockSetup: func(m *ServiceMock) {
				m.On("Checkout", mock.Anything, models.Principal{}, mock.Anything).Return(nil, payment.ErrLoginRequired)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "already revealed",
			body: `{"method":"toss","product":"guest_reveal","guest_match_id":"` + guestMatchID + `"}`,
			mockSetup: func(m *ServiceMock) {
				m.On("Checkout", mock.Anything, models.Principal{}, mock.Anything).Return(nil, payment.ErrAlreadyRevealed)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "unknown guest match",
			body: `{"method":"toss","product":"guest_reveal","guest_match_id":"` + guestMatchID + `"}`,
			mockSetup: func(m *ServiceMock) {
				m.On("Checkout", mock.Anything, models.Principal{}, mock.Anything).
					Return(nil, fmt.Errorf("payment.Checkout: %w", repository.ErrNotFound))
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "storage error",
			body: `{"method":"toss","product":"pro"}`,
			mockSetup: func(m *ServiceMock) {
				m.On("Checkout", mock.Anything, models.Principal{}, mock.Anything).Return(nil, errors.New("db down"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.mockSetup != nil {
				tt.mockSetup(svc)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/payments/checkout", strings.NewReader(tt.body))
			if tt.principal != nil {
				req = req.WithContext(middlewarectx.WithPrincipal(req.Context(), *tt.principal))
			}
			w := httptest.NewRecorder()
			New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}
