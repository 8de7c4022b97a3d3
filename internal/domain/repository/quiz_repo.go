package repository

import (
	"context"

	"github.com/yourusername/quiz-api/internal/domain/entity"
)

// QuizFilters определяет фильтры списка викторин
type QuizFilters struct {
	Title      string   // Поиск по вхождению в название, без учёта регистра
	Categories []string // Викторина должна иметь каждую из категорий
	Tags       []string // Викторина должна иметь каждую из меток
}

// QuizRepository определяет методы для работы с викторинами
type QuizRepository interface {
	// Create сохраняет викторину вместе с вложенными вопросами, ответами и связями в одной транзакции
	Create(ctx context.Context, quiz *entity.Quiz) error
	// GetByID возвращает викторину с категориями и метками
	GetByID(ctx context.Context, id uint) (*entity.Quiz, error)
	// GetWithQuestions возвращает викторину с вопросами и их ответами
	GetWithQuestions(ctx context.Context, id uint) (*entity.Quiz, error)
	Exists(ctx context.Context, id uint) (bool, error)
	// Update сохраняет поля викторины и заменяет связи с категориями и метками
	Update(ctx context.Context, quiz *entity.Quiz) error
	Delete(ctx context.Context, id uint) error
	ListWithFilters(ctx context.Context, filters QuizFilters, limit, offset int) ([]entity.Quiz, int64, error)
}
