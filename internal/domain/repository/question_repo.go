package repository

import (
	"context"

	"github.com/yourusername/quiz-api/internal/domain/entity"
)

// QuestionRepository определяет методы для работы с вопросами
type QuestionRepository interface {
	// Create сохраняет вопрос вместе с вложенными ответами
	Create(ctx context.Context, question *entity.Question) error
	// GetByID возвращает вопрос с ответами
	GetByID(ctx context.Context, id uint) (*entity.Question, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Update(ctx context.Context, question *entity.Question) error
	Delete(ctx context.Context, id uint) error
	ListByQuiz(ctx context.Context, quizID uint, limit, offset int) ([]entity.Question, int64, error)
}

// AnswerRepository определяет методы для работы с вариантами ответа
type AnswerRepository interface {
	Create(ctx context.Context, answer *entity.Answer) error
	GetByID(ctx context.Context, id uint) (*entity.Answer, error)
	// GetForQuestion возвращает ответ, только если он принадлежит вопросу
	GetForQuestion(ctx context.Context, answerID, questionID uint) (*entity.Answer, error)
	Update(ctx context.Context, answer *entity.Answer) error
	Delete(ctx context.Context, id uint) error
	ListByQuestion(ctx context.Context, questionID uint) ([]entity.Answer, error)
}
