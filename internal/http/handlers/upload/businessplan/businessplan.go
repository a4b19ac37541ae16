// Package businessplan реализует загрузку бизнес-плана (.pdf, .txt, .md до 10 МБ).
//
// Из файла извлекается текст, который потом используется как контекст генерации черновиков.
package businessplan

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/grant-matching/internal/http/middlewarectx"
	"github.com/magabrotheeeer/grant-matching/internal/http/response"
	"github.com/magabrotheeeer/grant-matching/internal/lib/sl"
	"github.com/magabrotheeeer/grant-matching/internal/lib/textextract"
	"github.com/magabrotheeeer/grant-matching/internal/models"
	"github.com/magabrotheeeer/grant-matching/internal/services/upload"
)

// FormField — поле multipart-формы с файлом.
const FormField = "file"

// multipartOverhead — запас на заголовки частей формы сверх размера файла.
const multipartOverhead = 1 << 20

// Handler обрабатывает POST /api/upload/business-plan.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает сохранение бизнес-плана.
type Service interface {
	BusinessPlan(ctx context.Context, userID, filename, contentType string, data []byte) (*models.BusinessPlan, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Загрузить бизнес-план
// @Tags Upload
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Файл .pdf, .txt или .md до 10 МБ"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 413 {object} response.ErrorResponse
// @Router /upload/business-plan [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.upload.businessplan"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	principal, ok := middlewarectx.PrincipalFrom(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error(response.MsgUnauthorized))
		return
	}

	if r.ContentLength > upload.MaxFileSize+multipartOverhead {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		render.JSON(w, r, response.Error(upload.ErrTooLarge.Error()))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, upload.MaxFileSize+multipartOverhead)
	file, header, err := r.FormFile(FormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			render.JSON(w, r, response.Error(upload.ErrTooLarge.Error()))
			return
		}
		log.Info("file field missing", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("file is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, upload.MaxFileSize+1))
	if err != nil {
		log.Error("failed to read upload", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgInvalidBody))
		return
	}

	plan, err := h.service.BusinessPlan(r.Context(), principal.ID, header.Filename, header.Header.Get("Content-Type"), data)
	switch {
	case err == nil:
	case errors.Is(err, upload.ErrTooLarge):
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		render.JSON(w, r, response.Error(err.Error()))
		return
	case errors.Is(err, upload.ErrEmptyFile),
		errors.Is(err, textextract.ErrUnsupportedFormat),
		errors.Is(err, textextract.ErrInvalidEncoding),
		errors.Is(err, textextract.ErrUnreadable):
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(rootMessage(err)))
		return
	default:
		log.Error("failed to store business plan", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"id":         plan.ID,
		"filename":   plan.Filename,
		"size_bytes": plan.SizeBytes,
		"text_chars": len([]rune(plan.Text)),
	}))
}

func rootMessage(err error) string {
	for _, known := range []error{upload.ErrEmptyFile, textextract.ErrUnsupportedFormat, textextract.ErrInvalidEncoding, textextract.ErrUnreadable} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return response.MsgInvalidBody
}
