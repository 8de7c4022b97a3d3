package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yourusername/quiz-api/internal/handler/dto"
	"github.com/yourusername/quiz-api/internal/logger"
)

// LeaderboardChannel - канал Redis для событий лидерборда между экземплярами
const LeaderboardChannel = "quiz:leaderboard"

// ClusterMessage передаётся между экземплярами через Redis Pub/Sub
type ClusterMessage struct {
	// InstanceID отправителя, свои сообщения не доставляются повторно
	InstanceID string          `json:"instance_id"`
	Payload    json.RawMessage `json:"payload"`
}

// RedisRelay доставляет события лидерборда клиентам всех экземпляров API
type RedisRelay struct {
	client     redis.UniversalClient
	hub        *Hub
	channel    string
	instanceID string
}

// NewRedisRelay создает новый ретранслятор поверх локального хаба
func NewRedisRelay(client redis.UniversalClient, hub *Hub) *RedisRelay {
	return &RedisRelay{
		client:     client,
		hub:        hub,
		channel:    LeaderboardChannel,
		instanceID: uuid.NewString(),
	}
}

// PublishLeaderboardUpdate рассылает событие локально и публикует его для остальных экземпляров
func (r *RedisRelay) PublishLeaderboardUpdate(event dto.LeaderboardEvent) {
	log := logger.Get().Named("RedisRelay")

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error("failed to encode leaderboard event", zap.Error(err))
		return
	}
	r.hub.BroadcastBytes(payload)

	msg, err := r.encode(payload)
	if err != nil {
		log.Error("failed to encode cluster message", zap.Error(err))
		return
	}
	if err := r.client.Publish(context.Background(), r.channel, msg).Err(); err != nil {
		log.Warn("failed to publish leaderboard event", zap.String("channel", r.channel), zap.Error(err))
	}
}

func (r *RedisRelay) encode(payload []byte) (string, error) {
	data, err := json.Marshal(ClusterMessage{InstanceID: r.instanceID, Payload: payload})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Run подписывается на канал и пересылает события других экземпляров в локальный хаб
func (r *RedisRelay) Run(ctx context.Context) error {
	log := logger.Get().Named("RedisRelay")

	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", r.channel, err)
	}
	log.Info("subscribed", zap.String("channel", r.channel), zap.String("instance_id", r.instanceID))

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			r.deliver(msg.Payload)
		}
	}
}

// deliver передаёт хабу полезную нагрузку чужого сообщения
func (r *RedisRelay) deliver(raw string) bool {
	var msg ClusterMessage
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		logger.Get().Named("RedisRelay").Warn("malformed cluster message", zap.Error(err))
		return false
	}
	if msg.InstanceID == r.instanceID {
		return false
	}
	r.hub.BroadcastBytes(msg.Payload)
	return true
}
