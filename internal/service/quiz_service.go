package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/domain/repository"
	"github.com/yourusername/quiz-api/internal/handler/dto"
	"github.com/yourusername/quiz-api/internal/logger"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

const (
	MsgTimeLimitTooShort   = "Time limit should be more than 1 minute"
	MsgInvalidQuestionID   = "Invalid question ID"
	MsgPercentageTooLow    = "Ensure this value is greater than or equal to 0."
	MsgPercentageTooHigh   = "Ensure this value is less than or equal to 100."
	MsgPointsTooLow        = "Ensure this value is greater than or equal to 1."
	defaultMaxTimeLimitMin = 240
)

// QuizService управляет викторинами, вопросами и ответами
type QuizService struct {
	quizRepo        repository.QuizRepository
	questionRepo    repository.QuestionRepository
	answerRepo      repository.AnswerRepository
	categoryRepo    repository.CategoryRepository
	tagRepo         repository.TagRepository
	maxTimeLimitMin int
	leaderboard     LeaderboardInvalidator
}

// NewQuizService создает новый сервис викторин
func NewQuizService(
	quizRepo repository.QuizRepository,
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	categoryRepo repository.CategoryRepository,
	tagRepo repository.TagRepository,
	maxTimeLimitMin int,
) *QuizService {
	if maxTimeLimitMin <= 0 {
		maxTimeLimitMin = defaultMaxTimeLimitMin
	}
	return &QuizService{
		quizRepo:        quizRepo,
		questionRepo:    questionRepo,
		answerRepo:      answerRepo,
		categoryRepo:    categoryRepo,
		tagRepo:         tagRepo,
		maxTimeLimitMin: maxTimeLimitMin,
	}
}

// WithLeaderboard включает сброс кеша лидеров при изменении и удалении викторин
func (s *QuizService) WithLeaderboard(inv LeaderboardInvalidator) *QuizService {
	s.leaderboard = inv
	return s
}

// CreateQuiz создает викторину вместе с вложенными вопросами и ответами
func (s *QuizService) CreateQuiz(ctx context.Context, creatorID uint, in dto.QuizInput) (*entity.Quiz, error) {
	quiz := &entity.Quiz{CreatedByID: creatorID}
	if err := s.applyQuizInput(ctx, quiz, in, true); err != nil {
		return nil, err
	}

	for _, qin := range in.Questions {
		quiz.Questions = append(quiz.Questions, newQuestion(qin))
	}

	if err := s.quizRepo.Create(ctx, quiz); err != nil {
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}
	logger.Get().Named("QuizService").Info("quiz created",
		zap.Uint("quiz_id", quiz.ID), zap.Uint("created_by", creatorID), zap.Int("questions", len(quiz.Questions)))
	return quiz, nil
}

// UpdateQuiz обновляет поля викторины. Если tags или categories не переданы, связи сохраняются.
func (s *QuizService) UpdateQuiz(ctx context.Context, quizID uint, in dto.QuizInput) (*entity.Quiz, error) {
	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if err := s.applyQuizInput(ctx, quiz, in, false); err != nil {
		return nil, err
	}
	if err := s.quizRepo.Update(ctx, quiz); err != nil {
		return nil, fmt.Errorf("failed to update quiz: %w", err)
	}
	// Название и категории викторины видны в таблице лидеров и участвуют в фильтрах
	invalidateLeaderboard(ctx, s.leaderboard, "QuizService")
	return s.quizRepo.GetByID(ctx, quizID)
}

// applyQuizInput валидирует вход и переносит его в quiz. Все ошибки собираются в одну ValidationError.
func (s *QuizService) applyQuizInput(ctx context.Context, quiz *entity.Quiz, in dto.QuizInput, creating bool) error {
	verr := &apperrors.ValidationError{}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		verr.Add("title", MsgFieldBlank)
	}

	switch {
	case in.TimeLimit == nil:
		if creating {
			verr.Add("time_limit", MsgFieldRequired)
		}
	case *in.TimeLimit < 1:
		verr.Add("time_limit", MsgTimeLimitTooShort)
	case *in.TimeLimit > s.maxTimeLimitMin:
		verr.Add("time_limit", fmt.Sprintf("Time limit should be less than %d minutes (%d hours)", s.maxTimeLimitMin, s.maxTimeLimitMin/60))
	}

	if in.PassingMarksPercentage != nil {
		if *in.PassingMarksPercentage < 0 {
			verr.Add("passing_marks_percentage", MsgPercentageTooLow)
		} else if *in.PassingMarksPercentage > 100 {
			verr.Add("passing_marks_percentage", MsgPercentageTooHigh)
		}
	}

	var (
		categories []entity.Category
		tags       []entity.Tag
	)
	if in.Categories != nil {
		found, err := s.categoryRepo.GetByNames(ctx, in.Categories)
		if err != nil {
			return fmt.Errorf("failed to resolve categories: %w", err)
		}
		if missing := missingName(in.Categories, categoryNames(found)); missing != "" {
			verr.Add("categories", fmt.Sprintf("Object with name=%s does not exist.", missing))
		}
		categories = found
	} else if creating {
		verr.Add("categories", MsgFieldRequired)
	}
	if in.Tags != nil {
		found, err := s.tagRepo.GetByNames(ctx, in.Tags)
		if err != nil {
			return fmt.Errorf("failed to resolve tags: %w", err)
		}
		if missing := missingName(in.Tags, tagNames(found)); missing != "" {
			verr.Add("tags", fmt.Sprintf("Object with name=%s does not exist.", missing))
		}
		tags = found
	} else if creating {
		verr.Add("tags", MsgFieldRequired)
	}

	if creating {
		for _, q := range in.Questions {
			if msg := validateQuestionInput(q); msg != "" {
				verr.Add("questions", msg)
				break
			}
		}
	}

	if !verr.Empty() {
		return verr
	}

	quiz.Title = title
	quiz.Description = in.Description
	if in.TimeLimit != nil {
		quiz.TimeLimit = *in.TimeLimit
	}
	if in.PassingMarksPercentage != nil {
		quiz.PassingMarksPercentage = *in.PassingMarksPercentage
	}
	if in.Categories != nil {
		quiz.Categories = categories
	}
	if in.Tags != nil {
		quiz.Tags = tags
	}
	return nil
}

// GetQuiz возвращает викторину с категориями и метками
func (s *QuizService) GetQuiz(ctx context.Context, quizID uint) (*entity.Quiz, error) {
	return s.quizRepo.GetByID(ctx, quizID)
}

// DeleteQuiz удаляет викторину
func (s *QuizService) DeleteQuiz(ctx context.Context, quizID uint) error {
	if err := s.quizRepo.Delete(ctx, quizID); err != nil {
		return err
	}
	// Попытки удаляются каскадно
	invalidateLeaderboard(ctx, s.leaderboard, "QuizService")
	return nil
}

// ListQuizzes возвращает страницу викторин по фильтрам
func (s *QuizService) ListQuizzes(ctx context.Context, filters repository.QuizFilters, limit, offset int) ([]entity.Quiz, int64, error) {
	return s.quizRepo.ListWithFilters(ctx, filters, limit, offset)
}

// CreateQuestion добавляет вопрос с ответами в викторину
func (s *QuizService) CreateQuestion(ctx context.Context, quizID uint, in dto.QuestionInput) (*entity.Question, error) {
	if msg := validateQuestionInput(in); msg != "" {
		return nil, apperrors.NewValidationError(questionField(in), msg)
	}
	exists, err := s.quizRepo.Exists(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to check quiz: %w", err)
	}
	if !exists {
		return nil, apperrors.NewValidationError("error", MsgInvalidQuizID)
	}

	question := newQuestion(in)
	question.QuizID = quizID
	if err := s.questionRepo.Create(ctx, &question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}
	return &question, nil
}

// GetQuestion возвращает вопрос с ответами
func (s *QuizService) GetQuestion(ctx context.Context, questionID uint) (*entity.Question, error) {
	return s.questionRepo.GetByID(ctx, questionID)
}

// UpdateQuestion обновляет текст, тип и баллы. Ответы меняются через отдельные операции.
func (s *QuizService) UpdateQuestion(ctx context.Context, questionID uint, in dto.QuestionInput) (*entity.Question, error) {
	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if msg := validateQuestionInput(in); msg != "" {
		return nil, apperrors.NewValidationError(questionField(in), msg)
	}

	question.Text = strings.TrimSpace(in.Text)
	question.Type = in.Type
	if in.Points != nil {
		question.Points = *in.Points
	}
	if err := s.questionRepo.Update(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}
	return question, nil
}

// DeleteQuestion удаляет вопрос вместе с ответами
func (s *QuizService) DeleteQuestion(ctx context.Context, questionID uint) error {
	return s.questionRepo.Delete(ctx, questionID)
}

// ListQuestions возвращает страницу вопросов викторины
func (s *QuizService) ListQuestions(ctx context.Context, quizID uint, limit, offset int) ([]entity.Question, int64, error) {
	return s.questionRepo.ListByQuiz(ctx, quizID, limit, offset)
}

// CreateAnswer добавляет вариант ответа к вопросу
func (s *QuizService) CreateAnswer(ctx context.Context, questionID uint, in dto.AnswerInput) (*entity.Answer, error) {
	exists, err := s.questionRepo.Exists(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to check question: %w", err)
	}
	if !exists {
		return nil, apperrors.NewValidationError("error", MsgInvalidQuestionID)
	}

	answer := &entity.Answer{QuestionID: questionID, Text: strings.TrimSpace(in.Text), IsCorrect: in.IsCorrect}
	if err := s.answerRepo.Create(ctx, answer); err != nil {
		return nil, fmt.Errorf("failed to create answer: %w", err)
	}
	return answer, nil
}

// GetAnswer возвращает ответ по ID
func (s *QuizService) GetAnswer(ctx context.Context, answerID uint) (*entity.Answer, error) {
	return s.answerRepo.GetByID(ctx, answerID)
}

// UpdateAnswer обновляет текст и признак правильности
func (s *QuizService) UpdateAnswer(ctx context.Context, answerID uint, in dto.AnswerInput) (*entity.Answer, error) {
	answer, err := s.answerRepo.GetByID(ctx, answerID)
	if err != nil {
		return nil, err
	}
	answer.Text = strings.TrimSpace(in.Text)
	answer.IsCorrect = in.IsCorrect
	if err := s.answerRepo.Update(ctx, answer); err != nil {
		return nil, fmt.Errorf("failed to update answer: %w", err)
	}
	return answer, nil
}

// DeleteAnswer удаляет ответ
func (s *QuizService) DeleteAnswer(ctx context.Context, answerID uint) error {
	return s.answerRepo.Delete(ctx, answerID)
}

// ListAnswers возвращает ответы вопроса
func (s *QuizService) ListAnswers(ctx context.Context, questionID uint) ([]entity.Answer, error) {
	return s.answerRepo.ListByQuestion(ctx, questionID)
}

func newQuestion(in dto.QuestionInput) entity.Question {
	q := entity.Question{Text: strings.TrimSpace(in.Text), Type: in.Type, Points: 1}
	if in.Points != nil {
		q.Points = *in.Points
	}
	for _, a := range in.Answers {
		q.Answers = append(q.Answers, entity.Answer{Text: strings.TrimSpace(a.Text), IsCorrect: a.IsCorrect})
	}
	return q
}

// validateQuestionInput возвращает сообщение об ошибке или пустую строку
func validateQuestionInput(in dto.QuestionInput) string {
	if strings.TrimSpace(in.Text) == "" {
		return MsgFieldBlank
	}
	if !entity.IsValidQuestionType(in.Type) {
		return fmt.Sprintf("%q is not a valid choice.", in.Type)
	}
	if in.Points != nil && *in.Points < 1 {
		return MsgPointsTooLow
	}
	return ""
}

// questionField возвращает поле, к которому относится ошибка validateQuestionInput
func questionField(in dto.QuestionInput) string {
	switch {
	case strings.TrimSpace(in.Text) == "":
		return "text"
	case !entity.IsValidQuestionType(in.Type):
		return "type"
	default:
		return "points"
	}
}

func categoryNames(cs []entity.Category) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Name)
	}
	return out
}

func tagNames(ts []entity.Tag) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Name)
	}
	return out
}

// missingName возвращает первое запрошенное имя, которого нет среди найденных
func missingName(requested, found []string) string {
	have := make(map[string]struct{}, len(found))
	for _, n := range found {
		have[strings.ToLower(n)] = struct{}{}
	}
	for _, n := range requested {
		key := strings.ToLower(strings.TrimSpace(n))
		if key == "" {
			continue
		}
		if _, ok := have[key]; !ok {
			return n
		}
	}
	return ""
}
