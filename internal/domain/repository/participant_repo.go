package repository

import (
	"context"
	"time"

	"github.com/yourusername/quiz-api/internal/domain/entity"
)

// LeaderboardFilters определяет фильтры лидерборда
type LeaderboardFilters struct {
	QuizID     uint     // 0 - все викторины
	Categories []string // AND по именам, без учёта регистра
	Tags       []string
}

// StatisticsSummary агрегаты по отправленным попыткам пользователя
type StatisticsSummary struct {
	Total  int64
	Passed int64
	Failed int64
}

// SubmitFunc применяет результат к заблокированной строке участника.
// Ошибка отменяет транзакцию.
type SubmitFunc func(p *entity.Participant) error

// ParticipantRepository определяет методы для работы с попытками прохождения
type ParticipantRepository interface {
	// Start атомарно создает или перезаписывает попытку (user, quiz): start/end обновляются, score сбрасывается.
	// has_passed не изменяется.
	Start(ctx context.Context, userID, quizID uint, startTime, endTime time.Time) (*entity.Participant, error)
	GetByID(ctx context.Context, id uint) (*entity.Participant, error)
	// GetReportSubject возвращает попытку с пользователем и викториной (включая вопросы)
	GetReportSubject(ctx context.Context, id uint) (*entity.Participant, error)
	GetByUserAndQuiz(ctx context.Context, userID, quizID uint) (*entity.Participant, error)
	// Submit блокирует строку (user, quiz) в транзакции, вызывает apply и сохраняет score и has_passed
	Submit(ctx context.Context, userID, quizID uint, apply SubmitFunc) (*entity.Participant, error)
	// ListRecentByUser возвращает до limit попыток пользователя с end_time >= since, кроме excludeID,
	// от новых к старым, с викторинами и вопросами
	ListRecentByUser(ctx context.Context, userID uint, since time.Time, excludeID uint, limit int) ([]entity.Participant, error)
	// Leaderboard возвращает прошедших участников по score desc, end_time asc
	Leaderboard(ctx context.Context, filters LeaderboardFilters, limit, offset int) ([]entity.Participant, int64, error)
	// Statistics возвращает отправленные попытки пользователя по end_time asc
	Statistics(ctx context.Context, userID uint, limit, offset int) ([]entity.Participant, int64, error)
	StatisticsSummary(ctx context.Context, userID uint) (*StatisticsSummary, error)
}
