// Package upload принимает бизнес-планы и извлекает из них текст для черновиков.
package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/magabrotheeeer/grant-matching/internal/lib/textextract"
	"github.com/magabrotheeeer/grant-matching/internal/models"
)

// MaxFileSize — предельный размер загружаемого файла.
const MaxFileSize = 10 << 20

// ErrTooLarge — файл больше MaxFileSize.
var ErrTooLarge = errors.New("file exceeds 10MB")

// ErrEmptyFile — файл без содержимого.
var ErrEmptyFile = errors.New("file is empty")

// Repository сохраняет бизнес-планы.
type Repository interface {
	CreateBusinessPlan(ctx context.Context, p *models.BusinessPlan) (*models.BusinessPlan, error)
}

// Service обрабатывает загрузки.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создаёт сервис загрузки.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// BusinessPlan проверяет файл, извлекает текст и сохраняет его.
// Ошибки формата оборачивают textextract.ErrUnsupportedFormat или textextract.ErrInvalidEncoding.
func (s *Service) BusinessPlan(ctx context.Context, userID, filename, contentType string, data []byte) (*models.BusinessPlan, error) {
	const op = "upload.BusinessPlan"

	if len(data) > MaxFileSize {
		return nil, ErrTooLarge
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	name := filepath.Base(filename)
	if !textextract.Supported(name) {
		return nil, textextract.ErrUnsupportedFormat
	}

	text, err := textextract.Extract(name, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	saved, err := s.repo.CreateBusinessPlan(ctx, &models.BusinessPlan{
		UserID:      userID,
		Filename:    name,
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
		Text:        text,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("business plan uploaded",
		slog.String("id", saved.ID),
		slog.Int64("size", saved.SizeBytes),
		slog.Int("text_len", len(text)))
	return saved, nil
}
