package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/yourusername/quiz-api/internal/domain/entity"
)

// FeedbackRepo реализует repository.FeedbackRepository
type FeedbackRepo struct {
	db *gorm.DB
}

// NewFeedbackRepo создает новый репозиторий отзывов
func NewFeedbackRepo(db *gorm.DB) *FeedbackRepo {
	return &FeedbackRepo{db: db}
}

func (r *FeedbackRepo) Create(ctx context.Context, feedback *entity.Feedback) error {
	return mapError(r.db.WithContext(ctx).Omit("Participant", "Quiz").Create(feedback).Error, "feedback")
}

func (r *FeedbackRepo) GetByID(ctx context.Context, id uint) (*entity.Feedback, error) {
	var feedback entity.Feedback
	if err := r.db.WithContext(ctx).Preload("Participant.User").First(&feedback, id).Error; err != nil {
		return nil, mapError(err, "feedback")
	}
	return &feedback, nil
}

// Update обновляет оценку и комментарий
func (r *FeedbackRepo) Update(ctx context.Context, feedback *entity.Feedback) error {
	result := r.db.WithContext(ctx).Model(&entity.Feedback{}).Where("id = ?", feedback.ID).Updates(map[string]interface{}{
		"rating":  feedback.Rating,
		"comment": feedback.Comment,
	})
	return affectedOrNotFound(result, "feedback")
}

func (r *FeedbackRepo) Delete(ctx context.Context, id uint) error {
	return affectedOrNotFound(r.db.WithContext(ctx).Delete(&entity.Feedback{}, id), "feedback")
}

// ListByQuiz возвращает страницу отзывов о викторине, новые первыми
func (r *FeedbackRepo) ListByQuiz(ctx context.Context, quizID uint, limit, offset int) ([]entity.Feedback, int64, error) {
	var (
		feedbacks []entity.Feedback
		total     int64
	)
	query := r.db.WithContext(ctx).Model(&entity.Feedback{}).Where("quiz_id = ?", quizID)
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Preload("Participant.User").Order("id DESC").Limit(limit).Offset(offset).Find(&feedbacks).Error
	if err != nil {
		return nil, 0, err
	}
	return feedbacks, total, nil
}
