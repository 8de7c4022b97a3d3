package postgres

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/logger"
)

// InvalidTokenRepo реализует repository.InvalidTokenRepository
type InvalidTokenRepo struct {
	db *gorm.DB
}

// NewInvalidTokenRepo создает новый репозиторий инвалидированных токенов
func NewInvalidTokenRepo(db *gorm.DB) *InvalidTokenRepo {
	return &InvalidTokenRepo{db: db}
}

// AddInvalidToken обновляет момент инвалидации (INSERT ... ON CONFLICT DO UPDATE)
func (r *InvalidTokenRepo) AddInvalidToken(ctx context.Context, userID uint, invalidationTime time.Time) error {
	row := entity.InvalidToken{UserID: userID, InvalidatedAt: invalidationTime}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"invalidation_time"}),
	}).Create(&row).Error
	if err != nil {
		logger.Get().Named("InvalidTokenRepo").Error("add invalid token failed", zap.Uint("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

// IsTokenInvalid проверяет, инвалидирован ли токен пользователя
func (r *InvalidTokenRepo) IsTokenInvalid(ctx context.Context, userID uint, tokenIssuedAt time.Time) (bool, error) {
	var row entity.InvalidToken
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Запись не найдена - токен валиден
			return false, nil
		}
		return false, err
	}
	return row.Rejects(tokenIssuedAt), nil
}

// CleanupOldInvalidTokens удаляет записи, инвалидированные раньше cutoffTime
func (r *InvalidTokenRepo) CleanupOldInvalidTokens(ctx context.Context, cutoffTime time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("invalidation_time < ?", cutoffTime).Delete(&entity.InvalidToken{})
	return result.RowsAffected, result.Error
}
