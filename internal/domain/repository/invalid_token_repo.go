package repository

import (
	"context"
	"time"
)

// InvalidTokenRepository хранит моменты выхода пользователей из системы
type InvalidTokenRepository interface {
	// AddInvalidToken отмечает, что токены пользователя, выпущенные до invalidationTime, недействительны
	AddInvalidToken(ctx context.Context, userID uint, invalidationTime time.Time) error

	// IsTokenInvalid проверяет, был ли токен выпущен до последней инвалидации
	IsTokenInvalid(ctx context.Context, userID uint, tokenIssuedAt time.Time) (bool, error)

	// CleanupOldInvalidTokens удаляет записи старше cutoffTime
	CleanupOldInvalidTokens(ctx context.Context, cutoffTime time.Time) (int64, error)
}
