package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/grant-matching/internal/config"
)

// Redis хранит значения в Redis в виде JSON.
type Redis struct {
	Db *redis.Client
}

// InitServer подключается к Redis и проверяет соединение.
func InitServer(ctx context.Context, cfg config.RedisConnection) (*Redis, error) {
	const op = "cache.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Redis{Db: db}, nil
}

// Get читает значение по ключу и декодирует его в result.
func (c *Redis) Get(ctx context.Context, key string, result any) (bool, error) {
	const op = "cache.Redis.Get"
	val, err := c.Db.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(val, result); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// Set сохраняет значение на ttl.
func (c *Redis) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	const op = "cache.Redis.Set"
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := c.Db.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Invalidate удаляет ключ.
func (c *Redis) Invalidate(ctx context.Context, key string) error {
	if err := c.Db.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache.Redis.Invalidate: %w", err)
	}
	return nil
}

// Close закрывает клиент Redis.
func (c *Redis) Close() error {
	return c.Db.Close()
}
