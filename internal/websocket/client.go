package websocket

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/yourusername/quiz-api/internal/logger"
)

const (
	// Время, которое разрешено писать сообщение клиенту.
	writeWait = 10 * time.Second

	// Время ожидания следующего pong от клиента.
	pongWait = 30 * time.Second

	// Периодичность отправки ping-сообщений клиенту.
	pingPeriod = (pongWait * 9) / 10

	// Клиент присылает только heartbeat
	maxMessageSize = 512

	defaultClientBufferSize = 64
)

// Client является посредником между WebSocket соединением и hub.
type Client struct {
	// UserID пустой для анонимного подписчика
	UserID       string
	ConnectionID string

	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewClient создает нового клиента
func NewClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		UserID:       userID,
		ConnectionID: uuid.New().String(),
		hub:          hub,
		conn:         conn,
		send:         make(chan []byte, defaultClientBufferSize),
	}
}

// StartPumps регистрирует клиента в хабе и запускает чтение и запись
func (c *Client) StartPumps() {
	c.hub.Register(c)
	go c.writePump()
	go c.readPump()
}

// readPump читает сообщения клиента до разрыва соединения
func (c *Client) readPump() {
	log := logger.Get().Named("WSClient")
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				log.Warn("read error", zap.String("conn_id", c.ConnectionID), zap.Error(err))
			}
			return
		}
		c.handleMessage(data)
	}
}

// handleMessage отвечает на heartbeat, прочие сообщения игнорируются
func (c *Client) handleMessage(data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		logger.Get().Named("WSClient").Debug("malformed message", zap.String("conn_id", c.ConnectionID), zap.Error(err))
		return
	}
	if msg.Type != UserHeartbeat {
		return
	}
	reply, err := json.Marshal(Message{Type: ServerHeartbeat, Data: map[string]int64{"timestamp": time.Now().UnixMilli()}})
	if err != nil {
		return
	}
	select {
	case c.send <- reply:
	default:
	}
}

// writePump отправляет сообщения клиенту из канала send
func (c *Client) writePump() {
	log := logger.Get().Named("WSClient")
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				// Хаб закрыл канал
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Warn("write error", zap.String("conn_id", c.ConnectionID), zap.Error(err))
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
