package websocket

// Типы событий лидерборда
const (
	// LeaderboardUpdated рассылается после успешного прохождения викторины
	LeaderboardUpdated = "leaderboard:updated"
)

// Служебные типы сообщений
const (
	// UserHeartbeat отправляет клиент для проверки соединения
	UserHeartbeat = "user:heartbeat"

	// ServerHeartbeat - ответ сервера на UserHeartbeat
	ServerHeartbeat = "server:heartbeat"
)

// Message - конверт входящих и служебных сообщений
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}
