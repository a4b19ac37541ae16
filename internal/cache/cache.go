// Package cache предоставляет кеш с JSON-сериализацией значений и двумя реализациями:
// общий для всех инстансов Redis и локальный для процесса in-memory кеш.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/grant-matching/internal/config"
)

// Имена бэкендов в конфиге.
const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Cache — кеш ключ-значение. Get декодирует сохранённое значение в result и
// сообщает, найден ли ключ. Промах кеша ошибкой не считается.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// New создаёт кеш по настройке cache.backend.
func New(ctx context.Context, cfg *config.Config) (Cache, error) {
	const op = "cache.New"
	switch cfg.Backend {
	case BackendRedis, "":
		c, err := InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return c, nil
	case BackendMemory:
		return NewMemory(time.Minute), nil
	default:
		return nil, fmt.Errorf("%s: unknown backend %q", op, cfg.Backend)
	}
}
