package entity

import (
	"time"
)

// Типы вопросов
const (
	QuestionTypeMultipleChoice = "MC"
	QuestionTypeTrueFalse      = "TF"
	QuestionTypeOpenEnded      = "OE"
)

// IsValidQuestionType проверяет код типа вопроса
func IsValidQuestionType(t string) bool {
	switch t {
	case QuestionTypeMultipleChoice, QuestionTypeTrueFalse, QuestionTypeOpenEnded:
		return true
	}
	return false
}

// Question представляет вопрос викторины
type Question struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	QuizID    uint      `gorm:"not null;index" json:"quiz_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Type      string    `gorm:"size:2;not null" json:"type"`
	Points    int       `gorm:"not null;default:1" json:"points"`
	Answers   []Answer  `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"answers,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// IsCorrectAnswer проверяет, что answerID - правильный ответ этого вопроса.
// Answers должны быть загружены.
func (q *Question) IsCorrectAnswer(answerID uint) bool {
	for _, a := range q.Answers {
		if a.ID == answerID {
			return a.IsCorrect
		}
	}
	return false
}

// Answer - вариант ответа на вопрос
type Answer struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	QuestionID uint   `gorm:"not null;index" json:"question_id"`
	Text       string `gorm:"size:255;not null" json:"text"`
	IsCorrect  bool   `gorm:"not null;default:false" json:"is_correct"`
}

// TableName определяет имя таблицы для GORM
func (Answer) TableName() string {
	return "answers"
}
