package entity

import (
	"time"
)

// InvalidToken хранит момент выхода пользователя из системы.
// Все токены пользователя, выпущенные раньше InvalidatedAt, отклоняются.
type InvalidToken struct {
	UserID        uint      `gorm:"primaryKey" json:"user_id"`
	InvalidatedAt time.Time `gorm:"column:invalidation_time;not null" json:"invalidated_at"`
}

// TableName задает имя таблицы для GORM
func (InvalidToken) TableName() string {
	return "invalid_tokens"
}

// Rejects возвращает true для токена, выпущенного до инвалидации
func (it *InvalidToken) Rejects(issuedAt time.Time) bool {
	return issuedAt.Before(it.InvalidatedAt)
}
