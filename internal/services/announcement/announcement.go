// Package announcement отдаёт объявления через кеш и учитывает просмотры.
package announcement

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/grant-matching/internal/lib/sl"
	"github.com/magabrotheeeer/grant-matching/internal/models"
)

// viewTimeout ограничивает фоновое обновление счётчика.
const viewTimeout = 5 * time.Second

// Repository определяет методы хранилища объявлений.
type Repository interface {
	GetAnnouncement(ctx context.Context, id string) (*models.Announcement, error)
	IncrementViewCount(ctx context.Context, id string) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Service реализует чтение объявлений с кешированием.
type Service struct {
	repo  Repository
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
	wg    sync.WaitGroup
}

// New создаёт сервис объявлений. ttl — время жизни объявления в кеше.
func New(repo Repository, cache Cache, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

func cacheKey(id string) string {
	return "announcement:" + id
}

// Get возвращает объявление по ID, используя кеш или репозиторий.
// Сбой кеша не мешает чтению из базы.
func (s *Service) Get(ctx context.Context, id string) (*models.Announcement, error) {
	key := cacheKey(id)

	var cached models.Announcement
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", key), sl.Err(err))
	}
	if found && err == nil {
		return &cached, nil
	}

	a, err := s.repo.GetAnnouncement(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, a, s.ttl); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", key), sl.Err(err))
	}
	return a, nil
}

// RecordView увеличивает счётчик просмотров в фоне. Вызывающий не ждёт результата,
// ошибки только логируются.
func (s *Service) RecordView(ctx context.Context, id string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), viewTimeout)
		defer cancel()

		if err := s.repo.IncrementViewCount(bg, id); err != nil {
			s.log.Warn("failed to increment view count", slog.String("announcement_id", id), sl.Err(err))
		}
	}()
}

// Close дожидается завершения фоновых обновлений.
func (s *Service) Close() {
	s.wg.Wait()
}
