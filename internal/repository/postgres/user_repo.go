package postgres

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/logger"
)

// UserRepo реализует repository.UserRepository
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepo создает новый репозиторий пользователей
func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create создает нового пользователя
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	return mapError(r.db.WithContext(ctx).Create(user).Error, "user")
}

// GetByID возвращает пользователя по ID
func (r *UserRepo) GetByID(ctx context.Context, id uint) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, mapError(err, "user")
	}
	return &user, nil
}

// GetByEmail возвращает пользователя по email
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&user).Error; err != nil {
		return nil, mapError(err, "user")
	}
	return &user, nil
}

// GetByUsername возвращает пользователя по имени пользователя
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, mapError(err, "user")
	}
	return &user, nil
}

// UpdateProfile обновляет профиль пользователя без изменения пароля
func (r *UserRepo) UpdateProfile(ctx context.Context, userID uint, updates map[string]interface{}) error {
	delete(updates, "password")
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now()

	result := r.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", userID).Updates(updates)
	return affectedOrNotFound(result, "user")
}

// UpdatePassword хеширует и сохраняет новый пароль.
// Запрос идёт в обход хука BeforeSave, чтобы не хешировать дважды.
func (r *UserRepo) UpdatePassword(ctx context.Context, userID uint, newPassword string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Get().Named("UserRepo").Error("password hashing failed", zap.Uint("user_id", userID), zap.Error(err))
		return err
	}

	result := r.db.WithContext(ctx).Exec(
		"UPDATE users SET password = ?, updated_at = ? WHERE id = ?",
		string(hashedPassword), time.Now(), userID,
	)
	return affectedOrNotFound(result, "user")
}

// List возвращает страницу пользователей и их общее количество
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]entity.User, int64, error) {
	var (
		users []entity.User
		total int64
	)
	db := r.db.WithContext(ctx).Model(&entity.User{})
	if err := db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Order("id").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Delete удаляет пользователя
func (r *UserRepo) Delete(ctx context.Context, id uint) error {
	return affectedOrNotFound(r.db.WithContext(ctx).Delete(&entity.User{}, id), "user")
}
