package entity

import (
	"time"
)

// Participant - текущая (последняя) попытка пользователя пройти викторину.
// На пару (user, quiz) приходится не более одной строки.
type Participant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_participants_user_quiz" json:"user_id"`
	QuizID    uint      `gorm:"not null;uniqueIndex:idx_participants_user_quiz;index" json:"quiz_id"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Quiz      *Quiz     `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"-"`
	StartTime time.Time `gorm:"not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null;index" json:"end_time"`
	// Score не задан (NULL), пока попытка не отправлена
	Score     *int      `json:"score"`
	HasPassed bool      `gorm:"not null;default:false" json:"has_passed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Participant) TableName() string {
	return "participants"
}

// IsSubmitted возвращает true, если у попытки есть результат
func (p *Participant) IsSubmitted() bool {
	return p.Score != nil
}

// AcceptsSubmissionAt проверяет, что now не позже end_time + tolerance
func (p *Participant) AcceptsSubmissionAt(now time.Time, tolerance time.Duration) bool {
	return !now.After(p.EndTime.Add(tolerance))
}
