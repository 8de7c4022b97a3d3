package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/domain/repository"
)

// ParticipantRepo реализует repository.ParticipantRepository
type ParticipantRepo struct {
	db *gorm.DB
}

// NewParticipantRepo создает новый репозиторий попыток
func NewParticipantRepo(db *gorm.DB) *ParticipantRepo {
	return &ParticipantRepo{db: db}
}

// Start создает или перезаписывает попытку одной транзакцией.
// Уникальный индекс (user_id, quiz_id) + ON CONFLICT DO UPDATE исключают гонку двух одновременных стартов.
func (r *ParticipantRepo) Start(ctx context.Context, userID, quizID uint, startTime, endTime time.Time) (*entity.Participant, error) {
	var participant entity.Participant
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := entity.Participant{
			UserID:    userID,
			QuizID:    quizID,
			StartTime: startTime,
			EndTime:   endTime,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "quiz_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"start_time": startTime,
				"end_time":   endTime,
				"score":      nil,
				"updated_at": time.Now(),
			}),
		}).Create(&row).Error
		if err != nil {
			return err
		}
		return tx.Where("user_id = ? AND quiz_id = ?", userID, quizID).First(&participant).Error
	})
	if err != nil {
		return nil, mapError(err, "participant")
	}
	return &participant, nil
}

// GetByID возвращает попытку по ID
func (r *ParticipantRepo) GetByID(ctx context.Context, id uint) (*entity.Participant, error) {
	var participant entity.Participant
	if err := r.db.WithContext(ctx).First(&participant, id).Error; err != nil {
		return nil, mapError(err, "participant")
	}
	return &participant, nil
}

// GetReportSubject возвращает попытку с пользователем, викториной и её вопросами
func (r *ParticipantRepo) GetReportSubject(ctx context.Context, id uint) (*entity.Participant, error) {
	var participant entity.Participant
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Quiz").
		Preload("Quiz.Questions").
		First(&participant, id).Error
	if err != nil {
		return nil, mapError(err, "participant")
	}
	return &participant, nil
}

// GetByUserAndQuiz возвращает попытку пользователя для викторины
func (r *ParticipantRepo) GetByUserAndQuiz(ctx context.Context, userID, quizID uint) (*entity.Participant, error) {
	var participant entity.Participant
	err := r.db.WithContext(ctx).Where("user_id = ? AND quiz_id = ?", userID, quizID).First(&participant).Error
	if err != nil {
		return nil, mapError(err, "participant")
	}
	return &participant, nil
}

// Submit читает строку попытки с блокировкой FOR UPDATE и сохраняет результат, вычисленный apply.
// Параллельный рестарт той же попытки ждёт окончания транзакции. User загружается для уведомлений.
func (r *ParticipantRepo) Submit(ctx context.Context, userID, quizID uint, apply repository.SubmitFunc) (*entity.Participant, error) {
	var participant entity.Participant
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("User").
			Where("user_id = ? AND quiz_id = ?", userID, quizID).
			First(&participant).Error
		if err != nil {
			return mapError(err, "participant")
		}

		if err := apply(&participant); err != nil {
			return err
		}

		return tx.Model(&entity.Participant{}).Where("id = ?", participant.ID).Updates(map[string]interface{}{
			"score":      participant.Score,
			"has_passed": participant.HasPassed,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

// ListRecentByUser возвращает последние попытки пользователя для отчёта
func (r *ParticipantRepo) ListRecentByUser(ctx context.Context, userID uint, since time.Time, excludeID uint, limit int) ([]entity.Participant, error) {
	var participants []entity.Participant
	err := r.db.WithContext(ctx).
		Preload("Quiz").
		Preload("Quiz.Questions").
		Where("user_id = ? AND end_time >= ? AND id <> ?", userID, since, excludeID).
		Order("end_time DESC, id DESC").
		Limit(limit).
		Find(&participants).Error
	return participants, err
}

// Leaderboard возвращает страницу прошедших участников
func (r *ParticipantRepo) Leaderboard(ctx context.Context, filters repository.LeaderboardFilters, limit, offset int) ([]entity.Participant, int64, error) {
	var (
		participants []entity.Participant
		total        int64
	)

	query := r.db.WithContext(ctx).Model(&entity.Participant{}).Where("has_passed = ?", true)
	if filters.QuizID != 0 {
		query = query.Where("quiz_id = ?", filters.QuizID)
	}
	for _, name := range lowerNames(filters.Categories) {
		query = query.Where("quiz_id IN ("+quizHasCategorySQL+")", name)
	}
	for _, name := range lowerNames(filters.Tags) {
		query = query.Where("quiz_id IN ("+quizHasTagSQL+")", name)
	}

	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("User").
		Preload("Quiz").
		// Перезапущенная прошедшая попытка (score IS NULL) идёт последней: Postgres по умолчанию ставит NULL первым при DESC
		Order("CASE WHEN score IS NULL THEN 1 ELSE 0 END, score DESC, end_time ASC, id ASC").
		Limit(limit).Offset(offset).
		Find(&participants).Error
	if err != nil {
		return nil, 0, err
	}
	return participants, total, nil
}

// Statistics возвращает страницу отправленных попыток пользователя
func (r *ParticipantRepo) Statistics(ctx context.Context, userID uint, limit, offset int) ([]entity.Participant, int64, error) {
	var (
		participants []entity.Participant
		total        int64
	)

	query := r.db.WithContext(ctx).Model(&entity.Participant{}).Where("user_id = ? AND score IS NOT NULL", userID)
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := query.Preload("Quiz").Preload("Quiz.Questions").Order("end_time ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&participants).Error; err != nil {
		return nil, 0, err
	}
	return participants, total, nil
}

// StatisticsSummary считает отправленные, прошедшие и непрошедшие попытки пользователя
func (r *ParticipantRepo) StatisticsSummary(ctx context.Context, userID uint) (*repository.StatisticsSummary, error) {
	type row struct {
		HasPassed bool
		Count     int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&entity.Participant{}).
		Select("has_passed, COUNT(*) AS count").
		Where("user_id = ? AND score IS NOT NULL", userID).
		Group("has_passed").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summary := &repository.StatisticsSummary{}
	for _, g := range rows {
		summary.Total += g.Count
		if g.HasPassed {
			summary.Passed += g.Count
		} else {
			summary.Failed += g.Count
		}
	}
	return summary, nil
}

var _ repository.ParticipantRepository = (*ParticipantRepo)(nil)
