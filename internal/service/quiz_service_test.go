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

type quizFixture struct {
	quizRepo     *MockQuizRepository
	questionRepo *MockQuestionRepository
	answerRepo   *MockAnswerRepository
	categoryRepo *MockCategoryRepository
	tagRepo      *MockTagRepository
	service      *QuizService
}

func newQuizFixture() *quizFixture {
	f := &quizFixture{
		quizRepo:     new(MockQuizRepository),
		questionRepo: new(MockQuestionRepository),
		answerRepo:   new(MockAnswerRepository),
		categoryRepo: new(MockCategoryRepository),
		tagRepo:      new(MockTagRepository),
	}
	f.service = NewQuizService(f.quizRepo, f.questionRepo, f.answerRepo, f.categoryRepo, f.tagRepo, 240)
	return f
}

func validQuizInput() dto.QuizInput {
	return dto.QuizInput{
		Title:                  "Go basics",
		TimeLimit:              intPtr(10),
		PassingMarksPercentage: intPtr(50),
		Categories:             []string{"Science"},
		Tags:                   []string{"easy"},
		Questions: []dto.QuestionInput{
			{Text: "2+2?", Type: entity.QuestionTypeMultipleChoice, Answers: []dto.AnswerInput{{Text: "4", IsCorrect: true}, {Text: "5"}}},
		},
	}
}

func TestQuizService_CreateQuiz(t *testing.T) {
	// Arrange
	f := newQuizFixture()
	f.categoryRepo.On("GetByNames", mock.Anything, []string{"Science"}).Return([]entity.Category{{ID: 1, Name: "Science"}}, nil)
	f.tagRepo.On("GetByNames", mock.Anything, []string{"easy"}).Return([]entity.Tag{{ID: 2, Name: "easy"}}, nil)
	f.quizRepo.On("Create", mock.Anything, mock.MatchedBy(func(q *entity.Quiz) bool {
		return q.CreatedByID == 7 && len(q.Questions) == 1 && q.Questions[0].Points == 1 && len(q.Questions[0].Answers) == 2
	})).Return(nil)

	// Act
	quiz, err := f.service.CreateQuiz(context.Background(), 7, validQuizInput())

	// Assert
	require.NoError(t, err, "Создание викторины не должно возвращать ошибку")
	assert.Equal(t, []string{"Science"}, quiz.CategoryNames())
	assert.Equal(t, 50, quiz.PassingMarksPercentage)
	f.quizRepo.AssertExpectations(t)
}

func TestQuizService_CreateQuiz_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(in *dto.QuizInput)
		field   string
		wantMsg string
	}{
		{name: "нулевой лимит", mutate: func(in *dto.QuizInput) { in.TimeLimit = intPtr(0) }, field: "time_limit", wantMsg: MsgTimeLimitTooShort},
		{name: "слишком большой лимит", mutate: func(in *dto.QuizInput) { in.TimeLimit = intPtr(241) }, field: "time_limit", wantMsg: "Time limit should be less than 240 minutes (4 hours)"},
		{name: "лимит не задан", mutate: func(in *dto.QuizInput) { in.TimeLimit = nil }, field: "time_limit", wantMsg: MsgFieldRequired},
		{name: "процент больше 100", mutate: func(in *dto.QuizInput) { in.PassingMarksPercentage = intPtr(101) }, field: "passing_marks_percentage", wantMsg: MsgPercentageTooHigh},
		{name: "неизвестная категория", mutate: func(in *dto.QuizInput) { in.Categories = []string{"Science", "Art"} }, field: "categories", wantMsg: "Object with name=Art does not exist."},
		{name: "метки не заданы", mutate: func(in *dto.QuizInput) { in.Tags = nil }, field: "tags", wantMsg: MsgFieldRequired},
		{name: "неверный тип вопроса", mutate: func(in *dto.QuizInput) { in.Questions[0].Type = "XX" }, field: "questions", wantMsg: `"XX" is not a valid choice.`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newQuizFixture()
			f.categoryRepo.On("GetByNames", mock.Anything, mock.Anything).Return([]entity.Category{{ID: 1, Name: "Science"}}, nil)
			f.tagRepo.On("GetByNames", mock.Anything, mock.Anything).Return([]entity.Tag{{ID: 2, Name: "easy"}}, nil)
			in := validQuizInput()
			tt.mutate(&in)

			_, err := f.service.CreateQuiz(context.Background(), 7, in)

			var verr *apperrors.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantMsg, verr.Message(tt.field))
			f.quizRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestQuizService_UpdateQuiz_KeepsAssociations(t *testing.T) {
	// Arrange
	f := newQuizFixture()
	existing := &entity.Quiz{
		ID: 1, Title: "Old", TimeLimit: 10, PassingMarksPercentage: 50,
		Categories: []entity.Category{{ID: 1, Name: "Science"}},
		Tags:       []entity.Tag{{ID: 2, Name: "easy"}},
	}
	f.quizRepo.On("GetByID", mock.Anything, uint(1)).Return(existing, nil)
	f.quizRepo.On("Update", mock.Anything, mock.MatchedBy(func(q *entity.Quiz) bool {
		return q.Title == "New" && q.PassingMarksPercentage == 80 && len(q.Tags) == 1 && len(q.Categories) == 1
	})).Return(nil)

	// Act
	_, err := f.service.UpdateQuiz(context.Background(), 1, dto.QuizInput{Title: "New", PassingMarksPercentage: intPtr(80)})

	// Assert
	require.NoError(t, err)
	f.quizRepo.AssertExpectations(t)
	f.tagRepo.AssertNotCalled(t, "GetByNames", mock.Anything, mock.Anything)
}

func TestQuizService_CreateQuestion(t *testing.T) {
	t.Run("викторина не найдена", func(t *testing.T) {
		f := newQuizFixture()
		f.quizRepo.On("Exists", mock.Anything, uint(9)).Return(false, nil)

		_, err := f.service.CreateQuestion(context.Background(), 9, dto.QuestionInput{Text: "Q", Type: entity.QuestionTypeTrueFalse})

		var verr *apperrors.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, MsgInvalidQuizID, verr.Message("error"))
	})

	t.Run("баллы меньше 1", func(t *testing.T) {
		f := newQuizFixture()

		_, err := f.service.CreateQuestion(context.Background(), 1, dto.QuestionInput{Text: "Q", Type: entity.QuestionTypeTrueFalse, Points: intPtr(0)})

		var verr *apperrors.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, MsgPointsTooLow, verr.Message("points"))
	})

	t.Run("вопрос с ответами", func(t *testing.T) {
		f := newQuizFixture()
		f.quizRepo.On("Exists", mock.Anything, uint(1)).Return(true, nil)
		f.questionRepo.On("Create", mock.Anything, mock.MatchedBy(func(q *entity.Question) bool {
			return q.QuizID == 1 && q.Points == 3 && len(q.Answers) == 1
		})).Return(nil)

		question, err := f.service.CreateQuestion(context.Background(), 1, dto.QuestionInput{
			Text: "Q", Type: entity.QuestionTypeTrueFalse, Points: intPtr(3), Answers: []dto.AnswerInput{{Text: "yes", IsCorrect: true}},
		})

		require.NoError(t, err)
		assert.Equal(t, uint(1), question.QuizID)
	})
}

func TestQuizService_CreateAnswer_UnknownQuestion(t *testing.T) {
	f := newQuizFixture()
	f.questionRepo.On("Exists", mock.Anything, uint(5)).Return(false, nil)

	_, err := f.service.CreateAnswer(context.Background(), 5, dto.AnswerInput{Text: "a"})

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, MsgInvalidQuestionID, verr.Message("error"))
}

func TestMissingName(t *testing.T) {
	assert.Equal(t, "", missingName([]string{"science", "HISTORY"}, []string{"Science", "History"}), "Сравнение без учёта регистра")
	assert.Equal(t, "Art", missingName([]string{"Science", "Art"}, []string{"Science"}))
}

func TestQuizService_DeleteQuiz(t *testing.T) {
	t.Run("сбрасывает кеш лидеров", func(t *testing.T) {
		f := newQuizFixture()
		leaderboard := new(MockLeaderboardInvalidator)
		f.service.WithLeaderboard(leaderboard)
		f.quizRepo.On("Delete", mock.Anything, uint(1)).Return(nil)
		leaderboard.On("Invalidate").Return(nil).Once()

		require.NoError(t, f.service.DeleteQuiz(context.Background(), 1))
		leaderboard.AssertExpectations(t)
	})

	t.Run("несуществующая викторина", func(t *testing.T) {
		f := newQuizFixture()
		leaderboard := new(MockLeaderboardInvalidator)
		f.service.WithLeaderboard(leaderboard)
		f.quizRepo.On("Delete", mock.Anything, uint(9)).Return(apperrors.ErrNotFound)

		assert.ErrorIs(t, f.service.DeleteQuiz(context.Background(), 9), apperrors.ErrNotFound)
		leaderboard.AssertNotCalled(t, "Invalidate")
	})
}
