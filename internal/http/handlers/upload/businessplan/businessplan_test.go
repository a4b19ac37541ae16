package businessplan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/grant-matching/internal/http/middlewarectx"
	"github.com/magabrotheeeer/grant-matching/internal/lib/textextract"
	"github.com/magabrotheeeer/grant-matching/internal/models"
	"github.com/magabrotheeeer/grant-matching/internal/services/upload"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) BusinessPlan(ctx context.Context, userID, filename, contentType string, data []byte) (*models.BusinessPlan, error) {
	args := m.Called(ctx, userID, filename, contentType, data)
	p, _ := args.Get(0).(*models.BusinessPlan)
	return p, args.Error(1)
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestHandler(t *testing.T) {
	content := []byte("# 사업계획서\n본 사업은")

	tests := []struct {
		name       string
		field      string
		filename   string
		content    []byte
		call       bool
		result     *models.BusinessPlan
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name: "markdown", field: FormField, filename: "plan.md", content: content, call: true,
			result:     &models.BusinessPlan{ID: "p1", Filename: "plan.md", SizeBytes: int64(len(content)), Text: "사업계획서"},
			wantStatus: http.StatusOK,
			wantBody:   `"text_chars":5`,
		},
		{name: "wrong field", field: "document", filename: "plan.md", content: content, wantStatus: http.StatusBadRequest, wantBody: `file is required`},
		{name: "unsupported", field: FormField, filename: "plan.docx", content: content, call: true, err: textextract.ErrUnsupportedFormat, wantStatus: http.StatusBadRequest, wantBody: `unsupported file format`},
		{name: "bad encoding", field: FormField, filename: "plan.txt", content: content, call: true, err: fmt.Errorf("upload.BusinessPlan: %w", textextract.ErrInvalidEncoding), wantStatus: http.StatusBadRequest, wantBody: `not valid UTF-8`},
		{name: "storage error", field: FormField, filename: "plan.md", content: content, call: true, err: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.call {
				svc.On("BusinessPlan", mock.Anything, "u1", tt.filename, "application/octet-stream", tt.content).Return(tt.result, tt.err)
			}

			body, ct := multipartBody(t, tt.field, tt.filename, tt.content)
			r := httptest.NewRequest(http.MethodPost, "/api/upload/business-plan", body)
			r.Header.Set("Content-Type", ct)
			r = r.WithContext(middlewarectx.WithPrincipal(r.Context(), models.Principal{ID: "u1"}))
			w := httptest.NewRecorder()
			New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc).ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}

type planRepo struct {
	saved []*models.BusinessPlan
}

func (r *planRepo) CreateBusinessPlan(_ context.Context, p *models.BusinessPlan) (*models.BusinessPlan, error) {
	stored := *p
	stored.ID = "p1"
	r.saved = append(r.saved, &stored)
	return &stored, nil
}

func TestHandler_WithUploadService(t *testing.T) {
	tests := []struct {
		name       string
		filename   string
		content    []byte
		wantStatus int
		wantBody   string
		wantText   string
	}{
		{name: "garbage pdf", filename: "garbage.pdf", content: []byte("this is not a pdf"), wantStatus: http.StatusBadRequest, wantBody: `file could not be read`},
		{name: "truncated pdf", filename: "cut.pdf", content: []byte("%PDF-1.4\n1 0 obj\n<<"), wantStatus: http.StatusBadRequest, wantBody: `file could not be read`},
		{name: "nul bytes stripped", filename: "nul.txt", content: []byte("abc\x00def"), wantStatus: http.StatusOK, wantBody: `"text_chars":6`, wantText: "abcdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := slog.New(slog.NewTextHandler(io.Discard, nil))
			repo := &planRepo{}

			body, ct := multipartBody(t, FormField, tt.filename, tt.content)
			r := httptest.NewRequest(http.MethodPost, "/api/upload/business-plan", body)
			r.Header.Set("Content-Type", ct)
			r = r.WithContext(middlewarectx.WithPrincipal(r.Context(), models.Principal{ID: "u1"}))
			w := httptest.NewRecorder()
			New(log, upload.New(repo, log)).ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			if tt.wantText == "" {
				assert.Empty(t, repo.saved)
				return
			}
			require.Len(t, repo.saved, 1)
			assert.Equal(t, tt.wantText, repo.saved[0].Text)
		})
	}
}

func TestHandler_TooLarge(t *testing.T) {
	svc := new(ServiceMock)
	body, ct := multipartBody(t, FormField, "big.txt", bytes.Repeat([]byte("a"), upload.MaxFileSize+multipartOverhead))
	r := httptest.NewRequest(http.MethodPost, "/api/upload/business-plan", body)
	r.Header.Set("Content-Type", ct)
	r = r.WithContext(middlewarectx.WithPrincipal(r.Context(), models.Principal{ID: "u1"}))
	w := httptest.NewRecorder()

	New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc).ServeHTTP(w, r)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	svc.AssertNotCalled(t, "BusinessPlan", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
