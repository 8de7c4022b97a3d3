package repository

import (
	"context"
	"time"
)

// CacheRepository - key-value хранилище для страниц таблицы лидеров и токенов сброса пароля.
// Отсутствующий ключ возвращается как apperrors.ErrNotFound.
type CacheRepository interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	// Increment атомарно увеличивает счетчик, используется для версии ключей кеша
	Increment(ctx context.Context, key string) (int64, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GetJSON(ctx context.Context, key string, dest interface{}) error
}
