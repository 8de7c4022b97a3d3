package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/yourusername/quiz-api/internal/domain/repository"
	"github.com/yourusername/quiz-api/internal/logger"
)

// JobsKey - sorted set отложенных задач, score = время запуска в миллисекундах
const JobsKey = "scheduler:jobs"

// JobQueue реализует repository.JobQueue на sorted set Redis
type JobQueue struct {
	client redis.UniversalClient
	key    string
}

// NewJobQueue создает очередь отложенных задач
func NewJobQueue(client redis.UniversalClient) *JobQueue {
	return &JobQueue{client: client, key: JobsKey}
}

func runAtScore(t time.Time) float64 {
	return float64(t.UnixMilli())
}

// Enqueue добавляет задачу. Уникальное имя задачи делает член множества уникальным.
func (q *JobQueue) Enqueue(ctx context.Context, job repository.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job %q: %w", job.Name, err)
	}
	return q.client.ZAdd(ctx, q.key, &redis.Z{
		Score:  runAtScore(job.RunAt),
		Member: string(data),
	}).Err()
}

// ClaimDue забирает созревшие задачи. ZREM вернёт 1 только одному из конкурирующих воркеров.
func (q *JobQueue) ClaimDue(ctx context.Context, now time.Time, limit int) ([]repository.Job, error) {
	members, err := q.client.ZRangeByScore(ctx, q.key, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.UnixMilli(), 10),
		Count: int64(limit),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("read due jobs: %w", err)
	}

	jobs := make([]repository.Job, 0, len(members))
	for _, member := range members {
		removed, err := q.client.ZRem(ctx, q.key, member).Result()
		if err != nil {
			return jobs, fmt.Errorf("claim job: %w", err)
		}
		if removed == 0 {
			// Задачу уже забрал другой воркер
			continue
		}

		var job repository.Job
		if err := json.Unmarshal([]byte(member), &job); err != nil {
			logger.Get().Named("JobQueue").Error("dropping malformed job", zap.String("member", member), zap.Error(err))
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// Pending возвращает количество задач в очереди
func (q *JobQueue) Pending(ctx context.Context) (int64, error) {
	return q.client.ZCard(ctx, q.key).Result()
}

var _ repository.JobQueue = (*JobQueue)(nil)
