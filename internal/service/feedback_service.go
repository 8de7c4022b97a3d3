package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/domain/repository"
	"github.com/yourusername/quiz-api/internal/handler/dto"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

const (
	MsgFeedbackRequiresAttempt = "You can provide feedback after taking the quiz"
	MsgRatingOutOfRange        = "Ensure this value is between 1 and 5."
)

// FeedbackService управляет отзывами о викторинах
type FeedbackService struct {
	quizRepo        repository.QuizRepository
	participantRepo repository.ParticipantRepository
	feedbackRepo    repository.FeedbackRepository
}

// NewFeedbackService создает новый сервис отзывов
func NewFeedbackService(
	quizRepo repository.QuizRepository,
	participantRepo repository.ParticipantRepository,
	feedbackRepo repository.FeedbackRepository,
) *FeedbackService {
	return &FeedbackService{
		quizRepo:        quizRepo,
		participantRepo: participantRepo,
		feedbackRepo:    feedbackRepo,
	}
}

// CreateFeedback сохраняет отзыв пользователя, у которого есть попытка по этой викторине
func (s *FeedbackService) CreateFeedback(ctx context.Context, userID, quizID uint, in dto.FeedbackRequest) (*entity.Feedback, error) {
	if err := validateFeedback(in); err != nil {
		return nil, err
	}

	exists, err := s.quizRepo.Exists(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to check quiz: %w", err)
	}
	if !exists {
		return nil, apperrors.NewValidationError("error", MsgInvalidQuizID)
	}

	participant, err := s.participantRepo.GetByUserAndQuiz(ctx, userID, quizID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationError(nonFieldErrors, MsgFeedbackRequiresAttempt)
		}
		return nil, fmt.Errorf("failed to load participant: %w", err)
	}

	feedback := &entity.Feedback{
		ParticipantID: participant.ID,
		QuizID:        quizID,
		Rating:        in.Rating,
		Comment:       strings.TrimSpace(in.Comment),
	}
	if err := s.feedbackRepo.Create(ctx, feedback); err != nil {
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}
	return s.feedbackRepo.GetByID(ctx, feedback.ID)
}

// GetFeedback возвращает отзыв вместе с автором
func (s *FeedbackService) GetFeedback(ctx context.Context, id uint) (*entity.Feedback, error) {
	return s.feedbackRepo.GetByID(ctx, id)
}

// UpdateFeedback меняет оценку и комментарий. Права проверяются до вызова.
func (s *FeedbackService) UpdateFeedback(ctx context.Context, feedback *entity.Feedback, in dto.FeedbackRequest) (*entity.Feedback, error) {
	if err := validateFeedback(in); err != nil {
		return nil, err
	}
	feedback.Rating = in.Rating
	feedback.Comment = strings.TrimSpace(in.Comment)
	if err := s.feedbackRepo.Update(ctx, feedback); err != nil {
		return nil, fmt.Errorf("failed to update feedback: %w", err)
	}
	return feedback, nil
}

// DeleteFeedback удаляет отзыв
func (s *FeedbackService) DeleteFeedback(ctx context.Context, id uint) error {
	return s.feedbackRepo.Delete(ctx, id)
}

// ListFeedbacks возвращает страницу отзывов викторины, новые первыми
func (s *FeedbackService) ListFeedbacks(ctx context.Context, quizID uint, limit, offset int) ([]entity.Feedback, int64, error) {
	return s.feedbackRepo.ListByQuiz(ctx, quizID, limit, offset)
}

func validateFeedback(in dto.FeedbackRequest) error {
	verr := &apperrors.ValidationError{}
	if !entity.IsValidRating(in.Rating) {
		verr.Add("rating", MsgRatingOutOfRange)
	}
	if strings.TrimSpace(in.Comment) == "" {
		verr.Add("comment", MsgFieldBlank)
	}
	if !verr.Empty() {
		return verr
	}
	return nil
}
