package postgres

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/domain/repository"
)

const (
	quizHasCategorySQL = "SELECT qc.quiz_id FROM quiz_categories qc JOIN categories c ON c.id = qc.category_id WHERE LOWER(c.name) = ?"
	quizHasTagSQL      = "SELECT qt.quiz_id FROM quiz_tags qt JOIN tags t ON t.id = qt.tag_id WHERE LOWER(t.name) = ?"
)

// QuizRepo реализует repository.QuizRepository
type QuizRepo struct {
	db *gorm.DB
}

// NewQuizRepo создает новый репозиторий викторин
func NewQuizRepo(db *gorm.DB) *QuizRepo {
	return &QuizRepo{db: db}
}

// Create создает викторину вместе со связями и вложенными вопросами/ответами
func (r *QuizRepo) Create(ctx context.Context, quiz *entity.Quiz) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(quiz).Error
	})
	return mapError(err, "quiz")
}

// GetByID возвращает викторину с категориями и метками
func (r *QuizRepo) GetByID(ctx context.Context, id uint) (*entity.Quiz, error) {
	var quiz entity.Quiz
	err := r.db.WithContext(ctx).
		Preload("Categories", func(db *gorm.DB) *gorm.DB { return db.Order("categories.id") }).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id") }).
		First(&quiz, id).Error
	if err != nil {
		return nil, mapError(err, "quiz")
	}
	return &quiz, nil
}

// GetWithQuestions возвращает викторину вместе с вопросами и ответами
func (r *QuizRepo) GetWithQuestions(ctx context.Context, id uint) (*entity.Quiz, error) {
	var quiz entity.Quiz
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("questions.id") }).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB { return db.Order("answers.id") }).
		First(&quiz, id).Error
	if err != nil {
		return nil, mapError(err, "quiz")
	}
	return &quiz, nil
}

// Exists проверяет существование викторины
func (r *QuizRepo) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Quiz{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update обновляет поля викторины и заменяет связи с категориями и метками в одной транзакции
func (r *QuizRepo) Update(ctx context.Context, quiz *entity.Quiz) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.Quiz{}).Where("id = ?", quiz.ID).Updates(map[string]interface{}{
			"title":                    quiz.Title,
			"description":              quiz.Description,
			"time_limit":               quiz.TimeLimit,
			"passing_marks_percentage": quiz.PassingMarksPercentage,
		})
		if err := affectedOrNotFound(result, "quiz"); err != nil {
			return err
		}

		model := &entity.Quiz{ID: quiz.ID}
		if err := replaceAssociation(tx, model, "Categories", quiz.Categories, len(quiz.Categories)); err != nil {
			return err
		}
		return replaceAssociation(tx, model, "Tags", quiz.Tags, len(quiz.Tags))
	})
}

func replaceAssociation(tx *gorm.DB, model *entity.Quiz, name string, values interface{}, n int) error {
	if n == 0 {
		return tx.Model(model).Association(name).Clear()
	}
	return tx.Model(model).Association(name).Replace(values)
}

// Delete удаляет викторину, вопросы и ответы удаляются каскадно
func (r *QuizRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		quiz := &entity.Quiz{ID: id}
		if err := tx.Model(quiz).Association("Categories").Clear(); err != nil {
			return err
		}
		if err := tx.Model(quiz).Association("Tags").Clear(); err != nil {
			return err
		}
		return affectedOrNotFound(tx.Delete(&entity.Quiz{}, id), "quiz")
	})
}

// ListWithFilters возвращает страницу викторин (id DESC) с фильтрами и total count
func (r *QuizRepo) ListWithFilters(ctx context.Context, filters repository.QuizFilters, limit, offset int) ([]entity.Quiz, int64, error) {
	var (
		quizzes []entity.Quiz
		total   int64
	)

	query := r.db.WithContext(ctx).Model(&entity.Quiz{})

	if title := strings.TrimSpace(filters.Title); title != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(title)+"%")
	}
	for _, name := range lowerNames(filters.Categories) {
		query = query.Where("id IN ("+quizHasCategorySQL+")", name)
	}
	for _, name := range lowerNames(filters.Tags) {
		query = query.Where("id IN ("+quizHasTagSQL+")", name)
	}

	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Categories", func(db *gorm.DB) *gorm.DB { return db.Order("categories.id") }).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id") }).
		Order("id DESC").Limit(limit).Offset(offset).
		Find(&quizzes).Error
	if err != nil {
		return nil, 0, err
	}
	return quizzes, total, nil
}

var _ repository.QuizRepository = (*QuizRepo)(nil)
