package matching

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/grant-matching/internal/models"
	"github.com/magabrotheeeer/grant-matching/internal/services/guest"
	"github.com/magabrotheeeer/grant-matching/internal/storage/repository"
)

type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) GetGuestMatch(ctx context.Context, id string) (*models.GuestMatch, error) {
	args := m.Called(ctx, id)
	gm, _ := args.Get(0).(*models.GuestMatch)
	return gm, args.Error(1)
}

func (m *RepoMock) GetGuestLead(ctx context.Context, id string) (*models.GuestLead, error) {
	args := m.Called(ctx, id)
	l, _ := args.Get(0).(*models.GuestLead)
	return l, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func item(rank int, title string) models.GuestMatchItem {
	return models.GuestMatchItem{
		Rank: rank, Score: 90 - float64(rank), Category: "R&D", SupportType: "보조금", ApplicationEnd: "2024-03-31",
		AnnouncementID: "a" + title, Title: title, Organization: "중기부", Summary: "요약",
	}
}

func serve(repo *RepoMock) *httptest.ResponseRecorder {
	log := newNoopLogger()
	r := chi.NewRouter()
	r.Get("/api/guest/matching/{id}", New(log, guest.New(repo, log)).ServeHTTP)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/guest/matching/g1", nil))
	return w
}

type body struct {
	Success bool                  `json:"success"`
	Data    models.GuestMatchView `json:"data"`
}

func TestHandler_RedactsTopTwo(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetGuestMatch", mock.Anything, "g1").Return(&models.GuestMatch{
		ID: "g1", LeadID: "l1",
		Matches: []models.GuestMatchItem{item(0, "first"), item(1, "second"), item(2, "third")},
	}, nil)
	repo.On("GetGuestLead", mock.Anything, "l1").Return(&models.GuestLead{ID: "l1", CompanyName: "그랜트"}, nil)

	w := serve(repo)
	require.Equal(t, http.StatusOK, w.Code)

	var got body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Data.Matches, 3)
	for _, m := range got.Data.Matches[:2] {
		assert.Equal(t, guest.Placeholder, m.Title)
		assert.Equal(t, guest.Placeholder, m.Organization)
		assert.Equal(t, "R&D", m.Category)
		assert.Equal(t, "2024-03-31", m.ApplicationEnd)
	}
	assert.Equal(t, "third", got.Data.Matches[2].Title)
	assert.False(t, got.Data.TopRevealed)
}

func TestHandler_Revealed(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetGuestMatch", mock.Anything, "g1").Return(&models.GuestMatch{
		ID: "g1", LeadID: "l1", TopRevealed: true,
		Matches: []models.GuestMatchItem{item(0, "first")},
	}, nil)
	repo.On("GetGuestLead", mock.Anything, "l1").Return(nil, repository.ErrNotFound)

	w := serve(repo)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"first"`)
}

func TestHandler_NotFound(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetGuestMatch", mock.Anything, "g1").Return(nil, repository.ErrNotFound)

	w := serve(repo)
	assert.Equal(t, http.StatusNotFound, w.Code)
	repo.AssertNotCalled(t, "GetGuestLead", mock.Anything, mock.Anything)
}
