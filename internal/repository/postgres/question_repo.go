package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/yourusername/quiz-api/internal/domain/entity"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// Create создает вопрос вместе с вложенными ответами
func (r *QuestionRepo) Create(ctx context.Context, question *entity.Question) error {
	return mapError(r.db.WithContext(ctx).Create(question).Error, "question")
}

// GetByID возвращает вопрос с ответами
func (r *QuestionRepo) GetByID(ctx context.Context, id uint) (*entity.Question, error) {
	var question entity.Question
	err := r.db.WithContext(ctx).
		Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("answers.id") }).
		First(&question, id).Error
	if err != nil {
		return nil, mapError(err, "question")
	}
	return &question, nil
}

// Exists проверяет существование вопроса
func (r *QuestionRepo) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Question{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update обновляет текст, тип и баллы вопроса. Ответы не затрагиваются.
func (r *QuestionRepo) Update(ctx context.Context, question *entity.Question) error {
	result := r.db.WithContext(ctx).Model(&entity.Question{}).Where("id = ?", question.ID).Updates(map[string]interface{}{
		"text":   question.Text,
		"type":   question.Type,
		"points": question.Points,
	})
	return affectedOrNotFound(result, "question")
}

// Delete удаляет вопрос, ответы удаляются каскадно
func (r *QuestionRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&entity.Answer{}).Error; err != nil {
			return err
		}
		return affectedOrNotFound(tx.Delete(&entity.Question{}, id), "question")
	})
}

// ListByQuiz возвращает страницу вопросов викторины с ответами
func (r *QuestionRepo) ListByQuiz(ctx context.Context, quizID uint, limit, offset int) ([]entity.Question, int64, error) {
	var (
		questions []entity.Question
		total     int64
	)
	query := r.db.WithContext(ctx).Model(&entity.Question{}).Where("quiz_id = ?", quizID)
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.
		Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("answers.id") }).
		Order("id").Limit(limit).Offset(offset).
		Find(&questions).Error
	if err != nil {
		return nil, 0, err
	}
	return questions, total, nil
}

// AnswerRepo реализует repository.AnswerRepository
type AnswerRepo struct {
	db *gorm.DB
}

// NewAnswerRepo создает новый репозиторий ответов
func NewAnswerRepo(db *gorm.DB) *AnswerRepo {
	return &AnswerRepo{db: db}
}

func (r *AnswerRepo) Create(ctx context.Context, answer *entity.Answer) error {
	return mapError(r.db.WithContext(ctx).Create(answer).Error, "answer")
}

func (r *AnswerRepo) GetByID(ctx context.Context, id uint) (*entity.Answer, error) {
	var answer entity.Answer
	if err := r.db.WithContext(ctx).First(&answer, id).Error; err != nil {
		return nil, mapError(err, "answer")
	}
	return &answer, nil
}

// GetForQuestion возвращает ответ, принадлежащий вопросу
func (r *AnswerRepo) GetForQuestion(ctx context.Context, answerID, questionID uint) (*entity.Answer, error) {
	var answer entity.Answer
	err := r.db.WithContext(ctx).Where("id = ? AND question_id = ?", answerID, questionID).First(&answer).Error
	if err != nil {
		return nil, mapError(err, "answer")
	}
	return &answer, nil
}

func (r *AnswerRepo) Update(ctx context.Context, answer *entity.Answer) error {
	result := r.db.WithContext(ctx).Model(&entity.Answer{}).Where("id = ?", answer.ID).Updates(map[string]interface{}{
		"text":       answer.Text,
		"is_correct": answer.IsCorrect,
	})
	return affectedOrNotFound(result, "answer")
}

func (r *AnswerRepo) Delete(ctx context.Context, id uint) error {
	return affectedOrNotFound(r.db.WithContext(ctx).Delete(&entity.Answer{}, id), "answer")
}

func (r *AnswerRepo) ListByQuestion(ctx context.Context, questionID uint) ([]entity.Answer, error) {
	var answers []entity.Answer
	err := r.db.WithContext(ctx).Where("question_id = ?", questionID).Order("id").Find(&answers).Error
	return answers, err
}
