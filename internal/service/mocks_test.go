package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/domain/repository"
	"github.com/yourusername/quiz-api/internal/handler/dto"
)

// MockUserRepository - мок репозитория пользователей
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, userID uint, updates map[string]interface{}) error {
	args := m.Called(ctx, userID, updates)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, userID uint, newPassword string) error {
	args := m.Called(ctx, userID, newPassword)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]entity.User, int64, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]entity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCacheRepository - мок кеша
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepository) Get(_ context.Context, key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheRepository) Delete(_ context.Context, key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockCacheRepository) Increment(_ context.Context, key string) (int64, error) {
	args := m.Called(key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCacheRepository) SetJSON(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepository) GetJSON(_ context.Context, key string, dest interface{}) error {
	args := m.Called(key, dest)
	return args.Error(0)
}

// MockTokenIssuer - мок выпуска токенов
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) GenerateToken(user *entity.User) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}

func (m *MockTokenIssuer) InvalidateTokensForUser(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockEmailSender - мок отправки писем
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendHTML(ctx context.Context, toEmail, subject, html string) SendResult {
	args := m.Called(ctx, toEmail, subject, html)
	return args.Get(0).(SendResult)
}

// MockCategoryRepository - мок репозитория категорий
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *entity.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id uint) (*entity.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetByNames(ctx context.Context, names []string) ([]entity.Category, error) {
	args := m.Called(ctx, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Category), args.Error(1)
}

func (m *MockCategoryRepository) NameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *entity.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]entity.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entity.Category), args.Error(1)
}

// MockTagRepository - мок репозитория меток
type MockTagRepository struct {
	mock.Mock
}

func (m *MockTagRepository) Create(ctx context.Context, tag *entity.Tag) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

func (m *MockTagRepository) GetByID(ctx context.Context, id uint) (*entity.Tag, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Tag), args.Error(1)
}

func (m *MockTagRepository) GetByNames(ctx context.Context, names []string) ([]entity.Tag, error) {
	args := m.Called(ctx, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Tag), args.Error(1)
}

func (m *MockTagRepository) NameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTagRepository) Update(ctx context.Context, tag *entity.Tag) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

func (m *MockTagRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTagRepository) List(ctx context.Context) ([]entity.Tag, error) {
	args := m.Called(ctx)
	return args.Get(0).([]entity.Tag), args.Error(1)
}

// MockQuizRepository - мок репозитория викторин
type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) Create(ctx context.Context, quiz *entity.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) GetByID(ctx context.Context, id uint) (*entity.Quiz, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Quiz), args.Error(1)
}

func (m *MockQuizRepository) GetWithQuestions(ctx context.Context, id uint) (*entity.Quiz, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Quiz), args.Error(1)
}

func (m *MockQuizRepository) Exists(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockQuizRepository) Update(ctx context.Context, quiz *entity.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuizRepository) ListWithFilters(ctx context.Context, filters repository.QuizFilters, limit, offset int) ([]entity.Quiz, int64, error) {
	args := m.Called(ctx, filters, limit, offset)
	return args.Get(0).([]entity.Quiz), args.Get(1).(int64), args.Error(2)
}

// MockQuestionRepository - мок репозитория вопросов
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Create(ctx context.Context, question *entity.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetByID(ctx context.Context, id uint) (*entity.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) Exists(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockQuestionRepository) Update(ctx context.Context, question *entity.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuestionRepository) ListByQuiz(ctx context.Context, quizID uint, limit, offset int) ([]entity.Question, int64, error) {
	args := m.Called(ctx, quizID, limit, offset)
	return args.Get(0).([]entity.Question), args.Get(1).(int64), args.Error(2)
}

// MockAnswerRepository - мок репозитория ответов
type MockAnswerRepository struct {
	mock.Mock
}

func (m *MockAnswerRepository) Create(ctx context.Context, answer *entity.Answer) error {
	args := m.Called(ctx, answer)
	return args.Error(0)
}

func (m *MockAnswerRepository) GetByID(ctx context.Context, id uint) (*entity.Answer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Answer), args.Error(1)
}

func (m *MockAnswerRepository) GetForQuestion(ctx context.Context, answerID, questionID uint) (*entity.Answer, error) {
	args := m.Called(ctx, answerID, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Answer), args.Error(1)
}

func (m *MockAnswerRepository) Update(ctx context.Context, answer *entity.Answer) error {
	args := m.Called(ctx, answer)
	return args.Error(0)
}

func (m *MockAnswerRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAnswerRepository) ListByQuestion(ctx context.Context, questionID uint) ([]entity.Answer, error) {
	args := m.Called(ctx, questionID)
	return args.Get(0).([]entity.Answer), args.Error(1)
}

// MockParticipantRepository - мок репозитория попыток.
// Submit вызывает apply на participant, переданном в Return, как это делает транзакция.
type MockParticipantRepository struct {
	mock.Mock
}

func (m *MockParticipantRepository) Start(ctx context.Context, userID, quizID uint, startTime, endTime time.Time) (*entity.Participant, error) {
	args := m.Called(ctx, userID, quizID, startTime, endTime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Participant), args.Error(1)
}

func (m *MockParticipantRepository) GetByID(ctx context.Context, id uint) (*entity.Participant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Participant), args.Error(1)
}

func (m *MockParticipantRepository) GetReportSubject(ctx context.Context, id uint) (*entity.Participant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Participant), args.Error(1)
}

func (m *MockParticipantRepository) GetByUserAndQuiz(ctx context.Context, userID, quizID uint) (*entity.Participant, error) {
	args := m.Called(ctx, userID, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Participant), args.Error(1)
}

func (m *MockParticipantRepository) Submit(ctx context.Context, userID, quizID uint, apply repository.SubmitFunc) (*entity.Participant, error) {
	args := m.Called(ctx, userID, quizID, apply)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	locked := *args.Get(0).(*entity.Participant)
	if err := apply(&locked); err != nil {
		return nil, err
	}
	return &locked, args.Error(1)
}

func (m *MockParticipantRepository) ListRecentByUser(ctx context.Context, userID uint, since time.Time, excludeID uint, limit int) ([]entity.Participant, error) {
	args := m.Called(ctx, userID, since, excludeID, limit)
	return args.Get(0).([]entity.Participant), args.Error(1)
}

func (m *MockParticipantRepository) Leaderboard(ctx context.Context, filters repository.LeaderboardFilters, limit, offset int) ([]entity.Participant, int64, error) {
	args := m.Called(ctx, filters, limit, offset)
	return args.Get(0).([]entity.Participant), args.Get(1).(int64), args.Error(2)
}

func (m *MockParticipantRepository) Statistics(ctx context.Context, userID uint, limit, offset int) ([]entity.Participant, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]entity.Participant), args.Get(1).(int64), args.Error(2)
}

func (m *MockParticipantRepository) StatisticsSummary(ctx context.Context, userID uint) (*repository.StatisticsSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.StatisticsSummary), args.Error(1)
}

// MockFeedbackRepository - мок репозитория отзывов
type MockFeedbackRepository struct {
	mock.Mock
}

func (m *MockFeedbackRepository) Create(ctx context.Context, feedback *entity.Feedback) error {
	args := m.Called(ctx, feedback)
	return args.Error(0)
}

func (m *MockFeedbackRepository) GetByID(ctx context.Context, id uint) (*entity.Feedback, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Feedback), args.Error(1)
}

func (m *MockFeedbackRepository) Update(ctx context.Context, feedback *entity.Feedback) error {
	args := m.Called(ctx, feedback)
	return args.Error(0)
}

func (m *MockFeedbackRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFeedbackRepository) ListByQuiz(ctx context.Context, quizID uint, limit, offset int) ([]entity.Feedback, int64, error) {
	args := m.Called(ctx, quizID, limit, offset)
	return args.Get(0).([]entity.Feedback), args.Get(1).(int64), args.Error(2)
}

// MockReportScheduler - мок планировщика отчётов
type MockReportScheduler struct {
	mock.Mock
}

func (m *MockReportScheduler) Schedule(ctx context.Context, participantID uint) error {
	args := m.Called(ctx, participantID)
	return args.Error(0)
}

// MockLeaderboardInvalidator - мок сброса кеша лидеров
type MockLeaderboardInvalidator struct {
	mock.Mock
}

func (m *MockLeaderboardInvalidator) Invalidate(_ context.Context) error {
	args := m.Called()
	return args.Error(0)
}

// MockLeaderboardNotifier - мок рассылки событий
type MockLeaderboardNotifier struct {
	mock.Mock
}

func (m *MockLeaderboardNotifier) PublishLeaderboardUpdate(event dto.LeaderboardEvent) {
	m.Called(event)
}

func intPtr(v int) *int { return &v }

func uintPtr(v uint) *uint { return &v }
