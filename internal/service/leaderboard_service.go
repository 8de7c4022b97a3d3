package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/quiz-api/internal/domain/repository"
	"github.com/yourusername/quiz-api/internal/handler/dto"
	"github.com/yourusername/quiz-api/internal/logger"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

const (
	// LeaderboardCacheTTL - время жизни закешированной страницы
	LeaderboardCacheTTL = 60 * time.Second

	leaderboardVersionKey = "leaderboard:version"
)

// LeaderboardInvalidator сбрасывает закешированные страницы таблицы лидеров
type LeaderboardInvalidator interface {
	Invalidate(ctx context.Context) error
}

// invalidateLeaderboard сбрасывает кеш после изменения показываемых в таблице данных.
// Ошибка только логируется: страницы всё равно истекут через LeaderboardCacheTTL.
func invalidateLeaderboard(ctx context.Context, inv LeaderboardInvalidator, component string) {
	if inv == nil {
		return
	}
	if err := inv.Invalidate(ctx); err != nil {
		logger.Get().Named(component).Warn("failed to invalidate leaderboard cache", zap.Error(err))
	}
}

// LeaderboardService строит таблицу лидеров и статистику пользователя
type LeaderboardService struct {
	participantRepo repository.ParticipantRepository
	cacheRepo       repository.CacheRepository
}

// NewLeaderboardService создает новый сервис лидеров. cacheRepo может быть nil.
func NewLeaderboardService(participantRepo repository.ParticipantRepository, cacheRepo repository.CacheRepository) *LeaderboardService {
	return &LeaderboardService{participantRepo: participantRepo, cacheRepo: cacheRepo}
}

// Leaderboard возвращает страницу прошедших участников: score DESC, end_time ASC
func (s *LeaderboardService) Leaderboard(ctx context.Context, filters repository.LeaderboardFilters, limit, offset int) (*dto.LeaderboardPage, error) {
	log := logger.Get().Named("LeaderboardService")

	key := ""
	if s.cacheRepo != nil {
		key = s.cacheKey(ctx, filters, limit, offset)
		var cached dto.LeaderboardPage
		err := s.cacheRepo.GetJSON(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			log.Warn("leaderboard cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	participants, total, err := s.participantRepo.Leaderboard(ctx, filters, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}

	page := &dto.LeaderboardPage{Entries: make([]dto.LeaderboardEntry, 0, len(participants)), Total: total}
	for i := range participants {
		page.Entries = append(page.Entries, dto.NewLeaderboardEntry(&participants[i]))
	}

	if key != "" {
		if err := s.cacheRepo.SetJSON(ctx, key, page, LeaderboardCacheTTL); err != nil {
			log.Warn("leaderboard cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return page, nil
}

// Invalidate переводит кеш на новую версию, старые ключи истекают сами
func (s *LeaderboardService) Invalidate(ctx context.Context) error {
	if s.cacheRepo == nil {
		return nil
	}
	_, err := s.cacheRepo.Increment(ctx, leaderboardVersionKey)
	return err
}

func (s *LeaderboardService) cacheKey(ctx context.Context, filters repository.LeaderboardFilters, limit, offset int) string {
	version, err := s.cacheRepo.Get(ctx, leaderboardVersionKey)
	if err != nil {
		version = "0"
	}
	return fmt.Sprintf("leaderboard:v%s:quiz=%d:cat=%s:tag=%s:limit=%d:offset=%d",
		version, filters.QuizID, normalizeFilter(filters.Categories), normalizeFilter(filters.Tags), limit, offset)
}

// normalizeFilter приводит список имён к каноничному виду для ключа кеша
func normalizeFilter(names []string) string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.ToLower(strings.TrimSpace(n)); n != "" {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return strings.Join(out, ",")
}

// Statistics возвращает сводку и страницу отправленных попыток пользователя (end_time ASC)
func (s *LeaderboardService) Statistics(ctx context.Context, userID uint, limit, offset int) (*dto.StatisticsResults, int64, error) {
	summary, err := s.participantRepo.StatisticsSummary(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load statistics summary: %w", err)
	}

	rows, total, err := s.participantRepo.Statistics(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load statistics: %w", err)
	}

	result := &dto.StatisticsResults{
		PassRate:    PassRate(summary.Passed, summary.Total),
		TotalPassed: summary.Passed,
		TotalFailed: summary.Failed,
		Data:        make([]dto.StatisticsRow, 0, len(rows)),
	}
	for i := range rows {
		result.Data = append(result.Data, dto.NewStatisticsRow(&rows[i]))
	}
	return result, total, nil
}

// ExportStatistics возвращает все отправленные попытки пользователя
func (s *LeaderboardService) ExportStatistics(ctx context.Context, userID uint) ([]dto.StatisticsRow, error) {
	rows, _, err := s.participantRepo.Statistics(ctx, userID, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load statistics: %w", err)
	}
	out := make([]dto.StatisticsRow, 0, len(rows))
	for i := range rows {
		out = append(out, dto.NewStatisticsRow(&rows[i]))
	}
	return out, nil
}

// PassRate - доля прошедших в процентах с округлением до сотых, 0 при отсутствии попыток
func PassRate(passed, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(passed)/float64(total)*100*100) / 100
}
