package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

const cacheOpTimeout = 2 * time.Second

// CacheRepo реализует repository.CacheRepository поверх Redis
type CacheRepo struct {
	client redis.UniversalClient
}

// NewCacheRepo создает новый репозиторий кеша
func NewCacheRepo(client redis.UniversalClient) (*CacheRepo, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil for CacheRepo")
	}
	return &CacheRepo{client: client}, nil
}

// opContext ограничивает одну операцию с Redis, не теряя отмену родительского контекста
func (r *CacheRepo) opContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, cacheOpTimeout)
}

// Set сохраняет значение в кеше
func (r *CacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	ctx, cancel := r.opContext(ctx)
	defer cancel()
	return r.client.Set(ctx, key, value, ttl).Err()
}

// Get получает значение из кеша. Отсутствующий ключ - ErrNotFound.
func (r *CacheRepo) Get(ctx context.Context, key string) (string, error) {
	ctx, cancel := r.opContext(ctx)
	defer cancel()
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", apperrors.ErrNotFound
	}
	return val, err
}

// Delete удаляет значение из кеша
func (r *CacheRepo) Delete(ctx context.Context, key string) error {
	ctx, cancel := r.opContext(ctx)
	defer cancel()
	return r.client.Del(ctx, key).Err()
}

// Increment увеличивает значение на 1
func (r *CacheRepo) Increment(ctx context.Context, key string) (int64, error) {
	ctx, cancel := r.opContext(ctx)
	defer cancel()
	return r.client.Incr(ctx, key).Result()
}

// SetJSON сохраняет значение в формате JSON
func (r *CacheRepo) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	ctx, cancel := r.opContext(ctx)
	defer cancel()
	return r.client.Set(ctx, key, data, ttl).Err()
}

// GetJSON читает JSON-значение в dest
func (r *CacheRepo) GetJSON(ctx context.Context, key string, dest interface{}) error {
	ctx, cancel := r.opContext(ctx)
	defer cancel()
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return apperrors.ErrNotFound
		}
		return err
	}
	return json.Unmarshal(data, dest)
}
