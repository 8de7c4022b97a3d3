package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/domain/repository"
	"github.com/yourusername/quiz-api/internal/handler/dto"
	"github.com/yourusername/quiz-api/internal/handler/helper"
	"github.com/yourusername/quiz-api/internal/middleware"
	"github.com/yourusername/quiz-api/internal/service"
)

// QuizHandler обрабатывает запросы викторин, вопросов и ответов
type QuizHandler struct {
	quizService *service.QuizService
}

// NewQuizHandler создает новый обработчик викторин
func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

func (h *QuizHandler) quizResponse(c *gin.Context, quiz *entity.Quiz) dto.QuizResponse {
	link := helper.AbsoluteURL(c, fmt.Sprintf("/api/quizzes/%d/questions", quiz.ID))
	return dto.NewQuizResponse(quiz, link)
}

// ListQuizzes возвращает страницу викторин.
// Фильтры: ?categories=a,b&tags=x,y&title=часть названия
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	page, err := helper.QuizzesPagination.Parse(c)
	if err != nil {
		respondError(c, "QuizHandler", err)
		return
	}

	filters := repository.QuizFilters{
		Title:      c.Query("title"),
		Categories: splitList(c.Query("categories")),
		Tags:       splitList(c.Query("tags")),
	}

	quizzes, total, err := h.quizService.ListQuizzes(c.Request.Context(), filters, page.Limit(), page.Offset())
	if err != nil {
		respondError(c, "QuizHandler", err)
		return
	}

	results := make([]dto.QuizResponse, 0, len(quizzes))
	for i := range quizzes {
		results = append(results, h.quizResponse(c, &quizzes[i]))
	}

	env, err := helper.Paginate(c, page, total, results)
	if err != nil {
		respondError(c, "QuizHandler", err)
		return
	}
	c.JSON(http.StatusOK, env)
}

// CreateQuiz создает викторину вместе с вложенными вопросами
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var req dto.QuizInput
	if !bindJSON(c, &req) {
		return
	}

	quiz, err := h.quizService.CreateQuiz(c.Request.Context(), middleware.PrincipalFrom(c).UserID, req)
	if err != nil {
		respondError(c, "QuizHandler", err)
		return
	}
	c.JSON(http.StatusCreated, h.quizResponse(c, quiz))
}

func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quiz, err := h.quizService.GetQuiz(c.Request.Context(), c.MustGet("quizID").(uint))
	if err != nil {
		respondError(c, "QuizHandler", err)
		return
	}
	c.JSON(http.StatusOK, h.quizResponse(c, quiz))
}

// UpdateQuiz обновляет поля викторины. Вложенные вопросы при обновлении игнорируются.
func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	var req dto.QuizInput
	if !bindJSON(c, &req) {
		return
	}

	quiz, err := h.quizService.UpdateQuiz(c.Request.Context(), c.MustGet("quizID").(uint), req)
	if err != nil {
		respondError(c, "QuizHandler", err)
		return
	}
	c.JSON(http.StatusOK, h.quizResponse(c, quiz))
}

func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	if err := h.quizService.DeleteQuiz(c.Request.Context(), c.MustGet("quizID").(uint)); err != nil {
		respondError(c, "QuizHandler", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListQuestions возвращает страницу вопросов викторины. Правильные ответы видит только персонал.
func (h *QuizHandler) ListQuestions(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	page, err := helper.QuestionsPagination.Parse(c)
	if err != nil {
		respondError(c, "QuizHandler", err)
		return
	}

	if _, err := h.quizService.GetQuiz(c.Request.Context(), quizID); err != nil {
		respondError(c, "QuizHandler", err)
		return
	}

	questions, total, err := h.quizService.ListQuestions(c.Request.Context(), quizID, page.Limit(), page.Offset())
	if err != nil {
		respondError(c, "QuizHandler", err)
		return
	}

	showCorrect := middleware.PrincipalFrom(c).IsStaff
	env, err := helper.Paginate(c, page, total, dto.NewQuestionListResponse(questions, showCorrect))
	if err != nil {
		respondError(c, "QuizHandler", err)
		return
	}
	c.JSON(http.StatusOK, env)
}

// CreateQuestion добавляет вопрос с ответами в викторину
func (h *QuizHandler) CreateQuestion(c *gin.Context) {
	var req dto.QuestionInput
	if !bindJSON(c, &req) {
		return
	}

	question, err := h.quizService.CreateQuestion(c.Request.Context(), c.MustGet("quizID").(uint), req)
	if err != nil {
		respondError(c, "QuizHandler", err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewQuestionResponse(question, true))
}

func (h *QuizHandler) GetQuestion(c *gin.Context) {
	question, err := h.quizService.GetQuestion(c.Request.Context(), c.MustGet("questionID").(uint))
	if err != nil {
		respondError(c, "QuizHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewQuestionResponse(question, middleware.PrincipalFrom(c).IsStaff))
}

func (h *QuizHandler) UpdateQuestion(c *gin.Context) {
	var req dto.QuestionInput
	if !bindJSON(c, &req) {
		return
	}

	question, err := h.quizService.UpdateQuestion(c.Request.Context(), c.MustGet("questionID").(uint), req)
	if err != nil {
		respondError(c, "QuizHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewQuestionResponse(question, true))
}

func (h *QuizHandler) DeleteQuestion(c *gin.Context) {
	if err := h.quizService.DeleteQuestion(c.Request.Context(), c.MustGet("questionID").(uint)); err != nil {
		respondError(c, "QuizHandler", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListAnswers возвращает ответы вопроса
func (h *QuizHandler) ListAnswers(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint)
	if _, err := h.quizService.GetQuestion(c.Request.Context(), questionID); err != nil {
		respondError(c, "QuizHandler", err)
		return
	}

	answers, err := h.quizService.ListAnswers(c.Request.Context(), questionID)
	if err != nil {
		respondError(c, "QuizHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAnswerListResponse(answers, middleware.PrincipalFrom(c).IsStaff))
}

func (h *QuizHandler) CreateAnswer(c *gin.Context) {
	var req dto.AnswerInput
	if !bindJSON(c, &req) {
		return
	}

	answer, err := h.quizService.CreateAnswer(c.Request.Context(), c.MustGet("questionID").(uint), req)
	if err != nil {
		respondError(c, "QuizHandler", err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewAnswerResponse(answer, true))
}

func (h *QuizHandler) GetAnswer(c *gin.Context) {
	answer, err := h.quizService.GetAnswer(c.Request.Context(), c.MustGet("answerID").(uint))
	if err != nil {
		respondError(c, "QuizHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAnswerResponse(answer, middleware.PrincipalFrom(c).IsStaff))
}

func (h *QuizHandler) UpdateAnswer(c *gin.Context) {
	var req dto.AnswerInput
	if !bindJSON(c, &req) {
		return
	}

	answer, err := h.quizService.UpdateAnswer(c.Request.Context(), c.MustGet("answerID").(uint), req)
	if err != nil {
		respondError(c, "QuizHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAnswerResponse(answer, true))
}

func (h *QuizHandler) DeleteAnswer(c *gin.Context) {
	if err := h.quizService.DeleteAnswer(c.Request.Context(), c.MustGet("answerID").(uint)); err != nil {
		respondError(c, "QuizHandler", err)
		return
	}
	c.Status(http.StatusNoContent)
}
