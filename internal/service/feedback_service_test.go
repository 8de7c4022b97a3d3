package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/handler/dto"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

func newFeedbackFixture() (*FeedbackService, *MockQuizRepository, *MockParticipantRepository, *MockFeedbackRepository) {
	quizRepo := new(MockQuizRepository)
	participantRepo := new(MockParticipantRepository)
	feedbackRepo := new(MockFeedbackRepository)
	return NewFeedbackService(quizRepo, participantRepo, feedbackRepo), quizRepo, participantRepo, feedbackRepo
}

func TestFeedbackService_CreateFeedback(t *testing.T) {
	// Arrange
	svc, quizRepo, participantRepo, feedbackRepo := newFeedbackFixture()
	quizRepo.On("Exists", mock.Anything, uint(1)).Return(true, nil)
	participantRepo.On("GetByUserAndQuiz", mock.Anything, uint(3), uint(1)).Return(&entity.Participant{ID: 5, UserID: 3, QuizID: 1}, nil)
	feedbackRepo.On("Create", mock.Anything, mock.MatchedBy(func(f *entity.Feedback) bool {
		return f.ParticipantID == 5 && f.Rating == 4 && f.Comment == "Nice"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Feedback).ID = 11
	}).Return(nil)
	stored := &entity.Feedback{ID: 11, Rating: 4, Comment: "Nice", Participant: &entity.Participant{User: &entity.User{Username: "alice"}}}
	feedbackRepo.On("GetByID", mock.Anything, uint(11)).Return(stored, nil)

	// Act
	feedback, err := svc.CreateFeedback(context.Background(), 3, 1, dto.FeedbackRequest{Rating: 4, Comment: " Nice "})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "alice", dto.NewFeedbackResponse(feedback).Participant, "В ответе должен быть автор")
}

func TestFeedbackService_CreateFeedback_Rejections(t *testing.T) {
	t.Run("оценка вне диапазона", func(t *testing.T) {
		svc, quizRepo, _, _ := newFeedbackFixture()

		_, err := svc.CreateFeedback(context.Background(), 3, 1, dto.FeedbackRequest{Rating: 6, Comment: "x"})

		var verr *apperrors.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, MsgRatingOutOfRange, verr.Message("rating"))
		quizRepo.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
	})

	t.Run("викторина не найдена", func(t *testing.T) {
		svc, quizRepo, _, _ := newFeedbackFixture()
		quizRepo.On("Exists", mock.Anything, uint(9)).Return(false, nil)

		_, err := svc.CreateFeedback(context.Background(), 3, 9, dto.FeedbackRequest{Rating: 3, Comment: "x"})

		var verr *apperrors.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, MsgInvalidQuizID, verr.Message("error"))
	})

	t.Run("попытки не было", func(t *testing.T) {
		svc, quizRepo, participantRepo, feedbackRepo := newFeedbackFixture()
		quizRepo.On("Exists", mock.Anything, uint(1)).Return(true, nil)
		participantRepo.On("GetByUserAndQuiz", mock.Anything, uint(3), uint(1)).Return(nil, apperrors.ErrNotFound)

		_, err := svc.CreateFeedback(context.Background(), 3, 1, dto.FeedbackRequest{Rating: 3, Comment: "x"})

		var verr *apperrors.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, MsgFeedbackRequiresAttempt, verr.Message(nonFieldErrors))
		feedbackRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestFeedbackService_UpdateFeedback(t *testing.T) {
	svc, _, _, feedbackRepo := newFeedbackFixture()
	feedback := &entity.Feedback{ID: 11, Rating: 2, Comment: "meh"}
	feedbackRepo.On("Update", mock.Anything, feedback).Return(nil)

	updated, err := svc.UpdateFeedback(context.Background(), feedback, dto.FeedbackRequest{Rating: 5, Comment: "great"})

	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, "great", updated.Comment)
}
