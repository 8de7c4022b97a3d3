package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quiz-api/internal/handler/dto"
	"github.com/yourusername/quiz-api/internal/middleware"
	"github.com/yourusername/quiz-api/internal/service"
)

// ParticipationHandler обрабатывает начало и отправку попыток
type ParticipationHandler struct {
	participationService *service.ParticipationService
}

// NewParticipationHandler создает новый обработчик попыток
func NewParticipationHandler(participationService *service.ParticipationService) *ParticipationHandler {
	return &ParticipationHandler{participationService: participationService}
}

// StartQuiz начинает попытку. Повторный старт перезаписывает предыдущую.
// POST /api/quiz/start {"quiz_id": 1}
func (h *ParticipationHandler) StartQuiz(c *gin.Context) {
	var req dto.StartQuizRequest
	if !bindJSON(c, &req) {
		return
	}

	_, err := h.participationService.StartQuiz(c.Request.Context(), middleware.PrincipalFrom(c).UserID, req.QuizID)
	if err != nil {
		respondError(c, "ParticipationHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Quiz started successfully"})
}

// SubmitQuiz принимает ответы и возвращает начисленный результат
// POST /api/quiz/submit {"quiz_id": 1, "answers": [{"question_id": 1, "selected_answer": 2}]}
func (h *ParticipationHandler) SubmitQuiz(c *gin.Context) {
	var req dto.SubmitQuizRequest
	if !bindJSON(c, &req) {
		return
	}

	data, err := h.participationService.SubmitQuiz(c.Request.Context(), middleware.PrincipalFrom(c).UserID, req)
	if err != nil {
		respondError(c, "ParticipationHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.SubmitQuizResponse{Message: "Quiz submitted successfully", Data: *data})
}
