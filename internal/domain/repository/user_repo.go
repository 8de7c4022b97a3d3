package repository

import (
	"context"

	"github.com/yourusername/quiz-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uint) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	// UpdateProfile обновляет указанные поля без изменения пароля
	UpdateProfile(ctx context.Context, userID uint, updates map[string]interface{}) error
	UpdatePassword(ctx context.Context, userID uint, newPassword string) error
	List(ctx context.Context, limit, offset int) ([]entity.User, int64, error)
	Delete(ctx context.Context, id uint) error
}
