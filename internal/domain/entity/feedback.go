package entity

import "time"

const (
	MinFeedbackRating = 1
	MaxFeedbackRating = 5
)

// Feedback - отзыв участника о викторине
type Feedback struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	ParticipantID uint         `gorm:"not null;index" json:"participant_id"`
	Participant   *Participant `gorm:"foreignKey:ParticipantID;constraint:OnDelete:CASCADE" json:"-"`
	QuizID        uint         `gorm:"not null;index" json:"quiz_id"`
	Quiz          *Quiz        `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"-"`
	Rating        int          `gorm:"not null" json:"rating"`
	Comment       string       `gorm:"type:text;not null" json:"comment"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Feedback) TableName() string {
	return "feedbacks"
}

// IsValidRating проверяет диапазон оценки 1..5
func IsValidRating(r int) bool {
	return r >= MinFeedbackRating && r <= MaxFeedbackRating
}

// AuthorID возвращает ID пользователя, оставившего отзыв. Participant должен быть загружен.
func (f *Feedback) AuthorID() uint {
	if f.Participant == nil {
		return 0
	}
	return f.Participant.UserID
}
