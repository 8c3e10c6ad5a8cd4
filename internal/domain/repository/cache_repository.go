package repository

import (
	"context"
	"time"
)

// CacheRepository - кэш для неизменяемых ответов (результаты оптимизации)
type CacheRepository interface {
	// Get возвращает значение по ключу, nil если ключа нет
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет ключ
	Delete(ctx context.Context, key string) error
}
