package entity

import (
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yourusername/quiz-api/internal/logger"
)

// User представляет учётную запись пользователя
type User struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Username    string `gorm:"size:150;not null;uniqueIndex" json:"username"`
	Email       string `gorm:"size:254;not null;uniqueIndex" json:"email"`
	Password    string `gorm:"size:128;not null" json:"-"`
	FirstName   string `gorm:"size:150;not null;default:''" json:"first_name"`
	LastName    string `gorm:"size:150;not null;default:''" json:"last_name"`
	IsStaff     bool   `gorm:"not null;default:false" json:"is_staff"`
	IsSuperuser bool   `gorm:"not null;default:false" json:"is_superuser"`
	IsActive    bool   `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (User) TableName() string {
	return "users"
}

// FullName возвращает имя и фамилию через пробел
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// isBcryptHash проверяет префиксы bcrypt ("$2a$", "$2b$", "$2y$")
func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// BeforeSave хеширует пароль перед сохранением, только если он ещё не bcrypt-хеш
func (u *User) BeforeSave(tx *gorm.DB) error {
	if len(u.Password) == 0 || isBcryptHash(u.Password) {
		return nil
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Get().Named("User.BeforeSave").Error("password hashing failed",
			zap.String("username", u.Username), zap.Error(err))
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword проверяет, соответствует ли переданный пароль хешу
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}
