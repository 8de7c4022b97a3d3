package service

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/domain/repository"
	"github.com/yourusername/quiz-api/internal/logger"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

const (
	// ReportTaskDone - результат задачи отчёта, в том числе для удалённой попытки
	ReportTaskDone = "Done"
	reportSubject  = "Quiz Report"

	defaultHistoryWindow = 7 * 24 * time.Hour
	defaultHistoryLimit  = 7
)

//go:embed templates/participant_report.html
var reportTemplates embed.FS

var reportTemplate = template.Must(template.New("participant_report.html").
	Funcs(template.FuncMap{"deref": func(v *int) int { return *v }}).
	ParseFS(reportTemplates, "templates/participant_report.html"))

// AttemptSummary - краткие сведения о другой попытке пользователя
type AttemptSummary struct {
	QuizTitle      string `json:"quiz_title"`
	QuizTotalPoint int    `json:"quiz_total_point"`
	Score          *int   `json:"score"`
	HasPassed      bool   `json:"has_passed"`
}

// ParticipantReport - содержимое письма с результатом
type ParticipantReport struct {
	FullName       string           `json:"full_name"`
	QuizTitle      string           `json:"quiz_title"`
	QuizTotalPoint int              `json:"quiz_total_point"`
	Score          int              `json:"score"`
	HasPassed      bool             `json:"has_passed"`
	AttemptedQuiz  []AttemptSummary `json:"attempted_quiz"`
}

// ReportService собирает и отправляет отчёт участнику
type ReportService struct {
	participantRepo repository.ParticipantRepository
	email           EmailSender
	historyWindow   time.Duration
	historyLimit    int
	now             func() time.Time
}

// NewReportService создает новый сервис отчётов
func NewReportService(participantRepo repository.ParticipantRepository, email EmailSender, historyWindow time.Duration, historyLimit int) *ReportService {
	if historyWindow <= 0 {
		historyWindow = defaultHistoryWindow
	}
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	return &ReportService{
		participantRepo: participantRepo,
		email:           email,
		historyWindow:   historyWindow,
		historyLimit:    historyLimit,
		now:             time.Now,
	}
}

// SendParticipantReport собирает отчёт и отправляет его на почту пользователя.
// Удалённая попытка не считается ошибкой. Повторная отправка не выполняется.
func (s *ReportService) SendParticipantReport(ctx context.Context, participantID uint) (string, error) {
	log := logger.Get().Named("ReportService")

	participant, err := s.participantRepo.GetReportSubject(ctx, participantID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			log.Info("Invalid participant", zap.Uint("participant_id", participantID))
			return ReportTaskDone, nil
		}
		return "", fmt.Errorf("failed to load participant %d: %w", participantID, err)
	}

	report, err := s.BuildReport(ctx, participant)
	if err != nil {
		return "", err
	}

	html, err := RenderReport(report)
	if err != nil {
		return "", err
	}

	result := s.email.SendHTML(ctx, participant.User.Email, reportSubject, html)
	if !result.Sent {
		log.Warn("participant report not sent", zap.Uint("participant_id", participantID), zap.String("reason", result.Message))
	} else {
		log.Info("participant report sent", zap.Uint("participant_id", participantID))
	}
	return ReportTaskDone, nil
}

// BuildReport собирает содержимое отчёта. User, Quiz и Quiz.Questions должны быть загружены.
func (s *ReportService) BuildReport(ctx context.Context, participant *entity.Participant) (*ParticipantReport, error) {
	report := &ParticipantReport{
		FullName:       participant.User.FullName(),
		QuizTitle:      participant.Quiz.Title,
		QuizTotalPoint: participant.Quiz.TotalPoints(),
		HasPassed:      participant.HasPassed,
		AttemptedQuiz:  []AttemptSummary{},
	}
	if participant.Score != nil {
		report.Score = *participant.Score
	}

	since := s.now().Add(-s.historyWindow)
	history, err := s.participantRepo.ListRecentByUser(ctx, participant.UserID, since, participant.ID, s.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load attempt history: %w", err)
	}
	for _, h := range history {
		attempt := AttemptSummary{Score: h.Score, HasPassed: h.HasPassed}
		if h.Quiz != nil {
			attempt.QuizTitle = h.Quiz.Title
			attempt.QuizTotalPoint = h.Quiz.TotalPoints()
		}
		report.AttemptedQuiz = append(report.AttemptedQuiz, attempt)
	}
	return report, nil
}

// RenderReport рендерит HTML письма
func RenderReport(report *ParticipantReport) (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, report); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return buf.String(), nil
}
