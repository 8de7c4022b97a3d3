// Package scheduler откладывает задачи в Redis и исполняет их по наступлении срока.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yourusername/quiz-api/internal/domain/repository"
	"github.com/yourusername/quiz-api/internal/logger"
)

// TaskSendParticipantReport - имя задачи отправки отчёта участнику
const TaskSendParticipantReport = "quiz.send_participant_report"

const defaultReportDelay = 2 * time.Hour

// ReportDispatcher ставит одноразовую задачу отчёта на now + delay
type ReportDispatcher struct {
	queue repository.JobQueue
	delay time.Duration
	now   func() time.Time
	newID func() string
}

// NewReportDispatcher создает новый диспетчер отчётов
func NewReportDispatcher(queue repository.JobQueue, delay time.Duration) *ReportDispatcher {
	if delay <= 0 {
		delay = defaultReportDelay
	}
	return &ReportDispatcher{
		queue: queue,
		delay: delay,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Schedule ставит задачу отчёта. Имя задачи уникально за счёт uuid.
func (d *ReportDispatcher) Schedule(ctx context.Context, participantID uint) error {
	runAt := d.now().UTC().Add(d.delay)
	job := repository.Job{
		Name:          fmt.Sprintf("send report to participant id %d at - %s #%s", participantID, runAt.Format(time.RFC3339), d.newID()),
		Task:          TaskSendParticipantReport,
		ParticipantID: participantID,
		RunAt:         runAt,
		OneOff:        true,
	}

	if err := d.queue.Enqueue(ctx, job); err != nil {
		return fmt.Errorf("failed to enqueue report job: %w", err)
	}
	logger.Get().Named("ReportDispatcher").Info("report scheduled",
		zap.Uint("participant_id", participantID), zap.Time("run_at", runAt), zap.String("name", job.Name))
	return nil
}
