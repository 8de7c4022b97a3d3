package repository

import (
	"context"
	"time"
)

// Job - отложенная задача планировщика
type Job struct {
	Name          string    `json:"name"`
	Task          string    `json:"task"`
	ParticipantID uint      `json:"participant_id"`
	RunAt         time.Time `json:"run_at"`
	OneOff        bool      `json:"one_off"`
}

// JobQueue хранит отложенные задачи, упорядоченные по времени запуска
type JobQueue interface {
	Enqueue(ctx context.Context, job Job) error
	// ClaimDue забирает из очереди до limit задач с RunAt <= now.
	// Каждая задача достаётся ровно одному потребителю.
	// Вместе с ошибкой могут вернуться уже забранные задачи: их больше нет в очереди, их нужно исполнить.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]Job, error)
	Pending(ctx context.Context) (int64, error)
}
