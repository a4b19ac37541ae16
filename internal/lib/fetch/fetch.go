// Package fetch загружает внешние страницы через кеш, чтобы одинаковые запросы
// в пределах TTL не уходили в сеть повторно.
package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/magabrotheeeer/grant-matching/internal/lib/sl"
)

// maxBodySize ограничивает размер загружаемой страницы.
const maxBodySize = 2 << 20

// Cache — хранилище ответов.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Doer выполняет HTTP запросы, обычно это *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher загружает тело ответа по GET с кешированием на ttl.
type Fetcher struct {
	client Doer
	cache  Cache
	ttl    time.Duration
	log    *slog.Logger
}

// New создаёт Fetcher.
func New(client Doer, cache Cache, ttl time.Duration, log *slog.Logger) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{client: client, cache: cache, ttl: ttl, log: log}
}

// Fetch возвращает тело ответа url. Успешные ответы (2xx) сохраняются в кеш,
// ошибки не кешируются. Сбой кеша не мешает загрузке.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	const op = "fetch.Fetch"
	key := cacheKey(url)

	var cached string
	found, err := f.cache.Get(ctx, key, &cached)
	if err != nil {
		f.log.Warn("failed to read page cache", slog.String("op", op), sl.Err(err))
	} else if found {
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	text := string(body)
	if err := f.cache.Set(ctx, key, text, f.ttl); err != nil {
		f.log.Warn("failed to cache page", slog.String("op", op), sl.Err(err))
	}
	return text, nil
}

func cacheKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return "fetch:" + hex.EncodeToString(sum[:])
}
