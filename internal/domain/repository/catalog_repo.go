package repository

import (
	"context"

	"github.com/yourusername/quiz-api/internal/domain/entity"
)

// CategoryRepository определяет методы для работы с категориями
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id uint) (*entity.Category, error)
	// GetByNames возвращает категории с указанными именами (без учёта регистра)
	GetByNames(ctx context.Context, names []string) ([]entity.Category, error)
	// NameTaken проверяет имя без учёта регистра, исключая запись excludeID
	NameTaken(ctx context.Context, name string, excludeID uint) (bool, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]entity.Category, error)
}

// TagRepository определяет методы для работы с метками
type TagRepository interface {
	Create(ctx context.Context, tag *entity.Tag) error
	GetByID(ctx context.Context, id uint) (*entity.Tag, error)
	GetByNames(ctx context.Context, names []string) ([]entity.Tag, error)
	NameTaken(ctx context.Context, name string, excludeID uint) (bool, error)
	Update(ctx context.Context, tag *entity.Tag) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]entity.Tag, error)
}
