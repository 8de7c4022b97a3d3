package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/quiz-api/internal/domain/repository"
	"github.com/yourusername/quiz-api/internal/logger"
)

const (
	defaultPollInterval = 15 * time.Second
	defaultBatchSize    = 50
)

// HandlerFunc исполняет задачу
type HandlerFunc func(ctx context.Context, job repository.Job) error

// ReportSender отправляет отчёт участнику
type ReportSender interface {
	SendParticipantReport(ctx context.Context, participantID uint) (string, error)
}

// ReportHandler адаптирует ReportSender к задаче TaskSendParticipantReport
func ReportHandler(sender ReportSender) HandlerFunc {
	return func(ctx context.Context, job repository.Job) error {
		_, err := sender.SendParticipantReport(ctx, job.ParticipantID)
		return err
	}
}

// Worker опрашивает очередь и исполняет наступившие задачи.
// Ошибки задач логируются, повторный запуск не выполняется.
type Worker struct {
	queue    repository.JobQueue
	interval time.Duration
	batch    int
	now      func() time.Time

	mu       sync.RWMutex
	handlers map[string]HandlerFunc
}

// NewWorker создает новый обработчик задач
func NewWorker(queue repository.JobQueue, interval time.Duration, batch int) *Worker {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if batch <= 0 {
		batch = defaultBatchSize
	}
	return &Worker{
		queue:    queue,
		interval: interval,
		batch:    batch,
		now:      time.Now,
		handlers: make(map[string]HandlerFunc),
	}
}

// Register связывает имя задачи с обработчиком
func (w *Worker) Register(task string, handler HandlerFunc) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers[task] = handler
}

// Run опрашивает очередь до отмены ctx
func (w *Worker) Run(ctx context.Context) {
	log := logger.Get().Named("SchedulerWorker")
	log.Info("worker started", zap.Duration("interval", w.interval), zap.Int("batch", w.batch))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if _, err := w.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("poll failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			log.Info("worker stopped")
			return
		case <-ticker.C:
		}
	}
}

// RunOnce забирает одну пачку наступивших задач и исполняет их. Возвращает число исполненных задач.
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	log := logger.Get().Named("SchedulerWorker")

	jobs, claimErr := w.queue.ClaimDue(ctx, w.now(), w.batch)

	executed := 0
	for _, job := range jobs {
		w.mu.RLock()
		handler, ok := w.handlers[job.Task]
		w.mu.RUnlock()
		if !ok {
			log.Warn("no handler for task", zap.String("task", job.Task), zap.String("name", job.Name))
			continue
		}

		if err := w.safeRun(ctx, handler, job); err != nil {
			log.Error("task failed",
				zap.String("task", job.Task), zap.String("name", job.Name),
				zap.Uint("participant_id", job.ParticipantID), zap.Error(err))
			continue
		}
		if !job.OneOff {
			log.Warn("recurring jobs are not supported, job dropped", zap.String("name", job.Name))
		}
		executed++
	}
	return executed, claimErr
}

// safeRun не даёт панике обработчика остановить воркер
func (w *Worker) safeRun(ctx context.Context, handler HandlerFunc, job repository.Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Get().Named("SchedulerWorker").Error("task panicked", zap.String("name", job.Name), zap.Any("panic", r))
			err = errors.New("task panicked")
		}
	}()
	return handler(ctx, job)
}
