package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/yourusername/quiz-api/internal/logger"
	"github.com/yourusername/quiz-api/internal/middleware"
	"github.com/yourusername/quiz-api/internal/websocket"
)

// WSHandler обрабатывает WebSocket соединения ленты таблицы лидеров
type WSHandler struct {
	hub      *websocket.Hub
	tokens   middleware.TokenParser
	upgrader gorillaws.Upgrader
}

// NewWSHandler создает новый обработчик WebSocket.
// allowedOrigins синхронизирован с CORS; пустой Origin (не браузер) пропускается.
func NewWSHandler(hub *websocket.Hub, tokens middleware.TokenParser, allowedOrigins []string) *WSHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return &WSHandler{
		hub:    hub,
		tokens: tokens,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				if _, ok := allowed[origin]; ok {
					return true
				}
				logger.Get().Named("WSHandler").Warn("rejected websocket origin", zap.String("origin", origin))
				return false
			},
		},
	}
}

// HandleLeaderboard подключает клиента к ленте обновлений.
// Токен в ?token= необязателен; невалидный токен отклоняется.
func (h *WSHandler) HandleLeaderboard(c *gin.Context) {
	var userID string
	if token := c.Query("token"); token != "" {
		claims, err := h.tokens.ParseToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token."})
			return
		}
		userID = strconv.FormatUint(uint64(claims.UserID), 10)
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		logger.Get().Named("WSHandler").Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := websocket.NewClient(h.hub, conn, userID)
	client.StartPumps()
	logger.Get().Named("WSHandler").Debug("leaderboard subscriber connected",
		zap.String("user_id", userID), zap.String("connection_id", client.ConnectionID))
}
