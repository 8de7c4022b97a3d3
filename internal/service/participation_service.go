package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/domain/repository"
	"github.com/yourusername/quiz-api/internal/handler/dto"
	"github.com/yourusername/quiz-api/internal/logger"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

const (
	MsgInvalidSelectedAnswer = "Invalid selected answer / answer is not belong to the given question"
	MsgParticipantNotFound   = "Participant not found"
	MsgTimeOver              = "Participant's time is over. Submission not allowed."
	MsgQuestionNotInQuiz     = "question is not belong to the given Quiz"

	// EventLeaderboardUpdated - тип события websocket после прохождения викторины
	EventLeaderboardUpdated = "leaderboard:updated"

	defaultSubmissionTolerance = 30 * time.Second
)

// ReportScheduler планирует отложенную отправку отчёта участнику
type ReportScheduler interface {
	Schedule(ctx context.Context, participantID uint) error
}

// LeaderboardNotifier рассылает события об изменении таблицы лидеров
type LeaderboardNotifier interface {
	PublishLeaderboardUpdate(event dto.LeaderboardEvent)
}

// ParticipationService отвечает за начало и отправку попыток
type ParticipationService struct {
	quizRepo        repository.QuizRepository
	questionRepo    repository.QuestionRepository
	answerRepo      repository.AnswerRepository
	participantRepo repository.ParticipantRepository
	reports         ReportScheduler
	leaderboard     LeaderboardInvalidator
	notifier        LeaderboardNotifier
	tolerance       time.Duration
	now             func() time.Time
}

// NewParticipationService создает новый сервис попыток. notifier может быть nil.
func NewParticipationService(
	quizRepo repository.QuizRepository,
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	participantRepo repository.ParticipantRepository,
	reports ReportScheduler,
	leaderboard LeaderboardInvalidator,
	notifier LeaderboardNotifier,
	tolerance time.Duration,
) *ParticipationService {
	if tolerance <= 0 {
		tolerance = defaultSubmissionTolerance
	}
	return &ParticipationService{
		quizRepo:        quizRepo,
		questionRepo:    questionRepo,
		answerRepo:      answerRepo,
		participantRepo: participantRepo,
		reports:         reports,
		leaderboard:     leaderboard,
		notifier:        notifier,
		tolerance:       tolerance,
		now:             time.Now,
	}
}

// WithClock подменяет источник времени
func (s *ParticipationService) WithClock(now func() time.Time) *ParticipationService {
	s.now = now
	return s
}

// StartQuiz начинает (или перезапускает) попытку: end = start + time_limit, результат сбрасывается
func (s *ParticipationService) StartQuiz(ctx context.Context, userID, quizID uint) (*entity.Participant, error) {
	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationError("quiz_id", MsgInvalidQuizID)
		}
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}

	start := s.now().UTC()
	participant, err := s.participantRepo.Start(ctx, userID, quizID, start, start.Add(quiz.Duration()))
	if err != nil {
		return nil, fmt.Errorf("failed to start quiz: %w", err)
	}

	log := logger.Get().Named("ParticipationService")
	log.Info("quiz started",
		zap.Uint("user_id", userID), zap.Uint("quiz_id", quizID), zap.Time("end_time", participant.EndTime))

	// Сброшенный результат прошедшей попытки меняет её строку в таблице лидеров
	if participant.HasPassed {
		invalidateLeaderboard(ctx, s.leaderboard, "ParticipationService")
	}
	return participant, nil
}

// SubmitQuiz проверяет ответы, считает результат и сохраняет его в попытку.
// Проверки идут по порядку: ответы, викторина, попытка, время. Любая ошибка отменяет запись целиком.
func (s *ParticipationService) SubmitQuiz(ctx context.Context, userID uint, req dto.SubmitQuizRequest) (*dto.SubmitQuizData, error) {
	log := logger.Get().Named("ParticipationService")

	verr := &apperrors.ValidationError{}
	if req.QuizID == nil {
		verr.Add("quiz_id", MsgFieldRequired)
	}
	if req.Answers == nil {
		verr.Add("answers", MsgFieldRequired)
	}
	if !verr.Empty() {
		return nil, verr
	}

	if err := s.validateAnswers(ctx, req.Answers); err != nil {
		return nil, err
	}

	quiz, err := s.quizRepo.GetWithQuestions(ctx, *req.QuizID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationError(nonFieldErrors, MsgInvalidQuizID)
		}
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}

	now := s.now()
	var (
		score     int
		wasPassed bool
	)
	participant, err := s.participantRepo.Submit(ctx, userID, quiz.ID, func(p *entity.Participant) error {
		wasPassed = p.HasPassed
		if !p.AcceptsSubmissionAt(now, s.tolerance) {
			return apperrors.NewValidationError(nonFieldErrors, MsgTimeOver)
		}

		total, err := scoreAnswers(quiz, req.Answers)
		if err != nil {
			return err
		}
		score = total
		p.Score = &score
		p.HasPassed = quiz.IsPassingScore(score, quiz.TotalPoints())
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationError(nonFieldErrors, MsgParticipantNotFound)
		}
		var ve *apperrors.ValidationError
		if errors.As(err, &ve) {
			return nil, ve
		}
		return nil, fmt.Errorf("failed to submit quiz: %w", err)
	}

	log.Info("quiz submitted",
		zap.Uint("participant_id", participant.ID), zap.Int("score", score), zap.Bool("has_passed", participant.HasPassed))

	s.afterSubmit(ctx, participant, quiz, wasPassed)

	return &dto.SubmitQuizData{QuizID: quiz.ID, Answers: req.Answers, Score: score}, nil
}

// validateAnswers проверяет, что каждый вопрос существует и выбранный ответ принадлежит ему
func (s *ParticipationService) validateAnswers(ctx context.Context, answers []dto.SubmitAnswer) error {
	for _, a := range answers {
		exists, err := s.questionRepo.Exists(ctx, a.QuestionID)
		if err != nil {
			return fmt.Errorf("failed to check question: %w", err)
		}
		if !exists {
			return apperrors.NewValidationError("answers", MsgInvalidQuestionID)
		}

		if _, err := s.answerRepo.GetForQuestion(ctx, a.SelectedAnswer, a.QuestionID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NewValidationError("answers", MsgInvalidSelectedAnswer)
			}
			return fmt.Errorf("failed to check answer: %w", err)
		}
	}
	return nil
}

// scoreAnswers суммирует баллы вопросов с правильно выбранным ответом.
// Вопрос из другой викторины - ошибка, даже если он существует.
func scoreAnswers(quiz *entity.Quiz, answers []dto.SubmitAnswer) (int, error) {
	questions := make(map[uint]*entity.Question, len(quiz.Questions))
	for i := range quiz.Questions {
		questions[quiz.Questions[i].ID] = &quiz.Questions[i]
	}

	score := 0
	for _, a := range answers {
		question, ok := questions[a.QuestionID]
		if !ok {
			return 0, apperrors.NewValidationError(nonFieldErrors, MsgQuestionNotInQuiz)
		}
		if question.IsCorrectAnswer(a.SelectedAnswer) {
			score += question.Points
		}
	}
	return score, nil
}

// afterSubmit выполняется после фиксации результата. Ошибки логируются и не влияют на ответ.
// Таблица лидеров меняется, если попытка была или стала прошедшей.
func (s *ParticipationService) afterSubmit(ctx context.Context, participant *entity.Participant, quiz *entity.Quiz, wasPassed bool) {
	log := logger.Get().Named("ParticipationService")

	if s.reports != nil {
		if err := s.reports.Schedule(ctx, participant.ID); err != nil {
			log.Error("failed to schedule report", zap.Uint("participant_id", participant.ID), zap.Error(err))
		}
	}

	if !participant.HasPassed && !wasPassed {
		return
	}
	invalidateLeaderboard(ctx, s.leaderboard, "ParticipationService")
	if s.notifier != nil {
		event := dto.LeaderboardEvent{Type: EventLeaderboardUpdated, QuizID: quiz.ID}
		if participant.Score != nil {
			event.Score = *participant.Score
		}
		if participant.User != nil {
			event.User = participant.User.Username
		}
		s.notifier.PublishLeaderboardUpdate(event)
	}
}
