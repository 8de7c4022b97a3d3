package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/handler/dto"
	"github.com/yourusername/quiz-api/internal/handler/helper"
	"github.com/yourusername/quiz-api/internal/middleware"
	"github.com/yourusername/quiz-api/internal/permission"
	"github.com/yourusername/quiz-api/internal/service"
)

// FeedbackHandler обрабатывает отзывы о викторинах
type FeedbackHandler struct {
	feedbackService *service.FeedbackService
}

// NewFeedbackHandler создает новый обработчик отзывов
func NewFeedbackHandler(feedbackService *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

// ListFeedbacks возвращает страницу отзывов викторины
func (h *FeedbackHandler) ListFeedbacks(c *gin.Context) {
	page, err := helper.FeedbackPagination.Parse(c)
	if err != nil {
		respondError(c, "FeedbackHandler", err)
		return
	}

	feedbacks, total, err := h.feedbackService.ListFeedbacks(c.Request.Context(), c.MustGet("quizID").(uint), page.Limit(), page.Offset())
	if err != nil {
		respondError(c, "FeedbackHandler", err)
		return
	}

	env, err := helper.Paginate(c, page, total, dto.NewFeedbackListResponse(feedbacks))
	if err != nil {
		respondError(c, "FeedbackHandler", err)
		return
	}
	c.JSON(http.StatusOK, env)
}

// CreateFeedback оставляет отзыв от имени вызывающего пользователя
func (h *FeedbackHandler) CreateFeedback(c *gin.Context) {
	var req dto.FeedbackRequest
	if !bindJSON(c, &req) {
		return
	}

	feedback, err := h.feedbackService.CreateFeedback(c.Request.Context(), middleware.PrincipalFrom(c).UserID, c.MustGet("quizID").(uint), req)
	if err != nil {
		respondError(c, "FeedbackHandler", err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewFeedbackResponse(feedback))
}

func (h *FeedbackHandler) GetFeedback(c *gin.Context) {
	feedback, ok := h.loadFeedback(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.NewFeedbackResponse(feedback))
}

func (h *FeedbackHandler) UpdateFeedback(c *gin.Context) {
	feedback, ok := h.loadFeedback(c)
	if !ok {
		return
	}

	var req dto.FeedbackRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.feedbackService.UpdateFeedback(c.Request.Context(), feedback, req)
	if err != nil {
		respondError(c, "FeedbackHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewFeedbackResponse(updated))
}

func (h *FeedbackHandler) DeleteFeedback(c *gin.Context) {
	feedback, ok := h.loadFeedback(c)
	if !ok {
		return
	}

	if err := h.feedbackService.DeleteFeedback(c.Request.Context(), feedback.ID); err != nil {
		respondError(c, "FeedbackHandler", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// loadFeedback загружает отзыв и проверяет права на объект
func (h *FeedbackHandler) loadFeedback(c *gin.Context) (*entity.Feedback, bool) {
	feedback, err := h.feedbackService.GetFeedback(c.Request.Context(), c.MustGet("feedbackID").(uint))
	if err != nil {
		respondError(c, "FeedbackHandler", err)
		return nil, false
	}

	principal := middleware.PrincipalFrom(c)
	if !(permission.FeedbackOwner{}).HasObjectPermission(c.Request.Method, principal, feedback.AuthorID()) {
		middleware.Deny(c, principal)
		return nil, false
	}
	return feedback, true
}
