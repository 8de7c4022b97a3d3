package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quiz-api/internal/domain/repository"
	"github.com/yourusername/quiz-api/internal/handler/helper"
	"github.com/yourusername/quiz-api/internal/middleware"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
	"github.com/yourusername/quiz-api/internal/service"
)

// LeaderboardHandler обрабатывает таблицу лидеров и статистику пользователя
type LeaderboardHandler struct {
	leaderboardService *service.LeaderboardService
}

// NewLeaderboardHandler создает новый обработчик таблицы лидеров
func NewLeaderboardHandler(leaderboardService *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

// Leaderboard возвращает страницу пройденных попыток, лучшие первыми.
// Фильтры: ?categories=a,b&tags=x&quiz_id=1
func (h *LeaderboardHandler) Leaderboard(c *gin.Context) {
	page, err := helper.LeaderboardPagination.Parse(c)
	if err != nil {
		respondError(c, "LeaderboardHandler", err)
		return
	}

	filters := repository.LeaderboardFilters{
		Categories: splitList(c.Query("categories")),
		Tags:       splitList(c.Query("tags")),
	}
	if raw := c.Query("quiz_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondError(c, "LeaderboardHandler", apperrors.NewValidationError("quiz_id", "Enter a number."))
			return
		}
		filters.QuizID = uint(id)
	}

	board, err := h.leaderboardService.Leaderboard(c.Request.Context(), filters, page.Limit(), page.Offset())
	if err != nil {
		respondError(c, "LeaderboardHandler", err)
		return
	}

	env, err := helper.Paginate(c, page, board.Total, board.Entries)
	if err != nil {
		respondError(c, "LeaderboardHandler", err)
		return
	}
	c.JSON(http.StatusOK, env)
}

// Statistics возвращает сводку и страницу отправленных попыток вызывающего пользователя
func (h *LeaderboardHandler) Statistics(c *gin.Context) {
	page, err := helper.GeneralPagination.Parse(c)
	if err != nil {
		respondError(c, "LeaderboardHandler", err)
		return
	}

	results, total, err := h.leaderboardService.Statistics(c.Request.Context(), middleware.PrincipalFrom(c).UserID, page.Limit(), page.Offset())
	if err != nil {
		respondError(c, "LeaderboardHandler", err)
		return
	}
	if total == 0 {
		c.JSON(http.StatusOK, []gin.H{{"data": "No data found"}})
		return
	}

	env, err := helper.Paginate(c, page, total, results)
	if err != nil {
		respondError(c, "LeaderboardHandler", err)
		return
	}
	c.JSON(http.StatusOK, env)
}
