package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/yourusername/quiz-api/internal/logger"
)

// RateLimitConfig содержит настройки rate limiting
type RateLimitConfig struct {
	// MaxRequests - максимальное количество запросов за Window
	MaxRequests int
	// Window - временное окно для подсчёта запросов
	Window time.Duration
	// KeyPrefix - префикс для ключей в Redis
	KeyPrefix string
}

// StrictAuthRateLimitConfig - лимит для login и forgot-password (защита от перебора)
func StrictAuthRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxRequests: 5,
		Window:      time.Minute,
		KeyPrefix:   "rl:account:strict",
	}
}

// RateLimiter создаёт middleware для rate limiting на основе Redis
type RateLimiter struct {
	redisClient redis.UniversalClient
}

// NewRateLimiter создает новый RateLimiter
func NewRateLimiter(redisClient redis.UniversalClient) *RateLimiter {
	return &RateLimiter{redisClient: redisClient}
}

// Limit возвращает Gin middleware с заданной конфигурацией.
// Ключ формируется из IP и шаблона маршрута. При недоступном Redis запрос пропускается.
func (rl *RateLimiter) Limit(cfg RateLimitConfig) gin.HandlerFunc {
	log := logger.Get().Named("RateLimiter")

	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		key := fmt.Sprintf("%s:%s:%s", cfg.KeyPrefix, c.ClientIP(), path)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		count, err := rl.redisClient.Incr(ctx, key).Result()
		if err != nil {
			log.Warn("redis error, allowing request", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		if count == 1 {
			if err := rl.redisClient.Expire(ctx, key, cfg.Window).Err(); err != nil {
				log.Warn("failed to set ttl", zap.String("key", key), zap.Error(err))
			}
		}

		remaining := cfg.MaxRequests - int(count)
		if remaining < 0 {
			remaining = 0
		}
		ttl, _ := rl.redisClient.TTL(ctx, key).Result()
		retryAfter := int(ttl.Seconds())
		if retryAfter < 0 {
			retryAfter = int(cfg.Window.Seconds())
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.MaxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(retryAfter))

		if int(count) > cfg.MaxRequests {
			log.Info("rate limit exceeded",
				zap.String("ip", c.ClientIP()), zap.String("path", path),
				zap.Int64("count", count), zap.Int("limit", cfg.MaxRequests))

			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"detail":      "Request was throttled.",
				"retry_after": retryAfter,
			})
			return
		}
		c.Next()
	}
}
