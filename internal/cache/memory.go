package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory — кеш в памяти процесса. Значения хранятся в JSON, как и в Redis,
// чтобы вызывающий код не зависел от бэкенда и не делил изменяемые объекты.
type Memory struct {
	c *gocache.Cache
}

// NewMemory создаёт кеш, удаляющий просроченные записи каждые cleanup.
func NewMemory(cleanup time.Duration) *Memory {
	return &Memory{c: gocache.New(gocache.NoExpiration, cleanup)}
}

// Get читает значение по ключу и декодирует его в result.
func (m *Memory) Get(_ context.Context, key string, result any) (bool, error) {
	raw, ok := m.c.Get(key)
	if !ok {
		return false, nil
	}
	data, ok := raw.([]byte)
	if !ok {
		return false, fmt.Errorf("cache.Memory.Get: unexpected value type %T", raw)
	}
	if err := json.Unmarshal(data, result); err != nil {
		return false, fmt.Errorf("cache.Memory.Get: %w", err)
	}
	return true, nil
}

// Set сохраняет значение на ttl. Нулевой ttl означает хранение без срока.
func (m *Memory) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache.Memory.Set: %w", err)
	}
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	m.c.Set(key, data, ttl)
	return nil
}

// Invalidate удаляет ключ.
func (m *Memory) Invalidate(_ context.Context, key string) error {
	m.c.Delete(key)
	return nil
}
