package websocket

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/yourusername/quiz-api/internal/handler/dto"
	"github.com/yourusername/quiz-api/internal/logger"
)

const broadcastBufferSize = 256

// Hub рассылает события лидерборда всем подключённым клиентам этого экземпляра
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	count      atomic.Int64
}

// NewHub создает новый хаб. Run должен быть запущен до подключения клиентов.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, broadcastBufferSize),
		done:       make(chan struct{}),
	}
}

// Run обслуживает регистрацию и рассылку до отмены ctx
func (h *Hub) Run(ctx context.Context) {
	log := logger.Get().Named("WSHub")
	log.Info("hub started")
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.remove(client)
			}
			log.Info("hub stopped")
			return

		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.count.Store(int64(len(h.clients)))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.remove(client)
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Медленный клиент отключается
					log.Warn("client buffer full, dropping connection", zap.String("conn_id", client.ConnectionID))
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	delete(h.clients, client)
	close(client.send)
	h.count.Store(int64(len(h.clients)))
}

// Register добавляет клиента. После остановки хаба канал клиента сразу закрывается.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

// Unregister удаляет клиента
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount возвращает количество подключенных клиентов
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// BroadcastBytes ставит сообщение в очередь рассылки. При переполнении очереди сообщение теряется.
func (h *Hub) BroadcastBytes(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		logger.Get().Named("WSHub").Warn("broadcast queue full, message dropped")
	}
}

// BroadcastJSON сериализует v и рассылает всем клиентам
func (h *Hub) BroadcastJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.BroadcastBytes(data)
	return nil
}

// PublishLeaderboardUpdate рассылает событие клиентам этого экземпляра
func (h *Hub) PublishLeaderboardUpdate(event dto.LeaderboardEvent) {
	if err := h.BroadcastJSON(event); err != nil {
		logger.Get().Named("WSHub").Error("failed to encode leaderboard event", zap.Error(err))
	}
}
