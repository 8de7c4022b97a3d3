package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quiz-api/internal/middleware"
	"github.com/yourusername/quiz-api/internal/permission"
)

// Handlers собирает обработчики всех разделов API
type Handlers struct {
	Account       *AccountHandler
	Catalog       *CatalogHandler
	Quiz          *QuizHandler
	Participation *ParticipationHandler
	Feedback      *FeedbackHandler
	Leaderboard   *LeaderboardHandler
	WS            *WSHandler
}

// RegisterRoutes регистрирует маршруты API. authLimit ограничивает вход и сброс пароля, может быть nil.
func RegisterRoutes(router *gin.Engine, h Handlers, authMW *middleware.AuthMiddleware, authLimit gin.HandlerFunc) {
	if authLimit == nil {
		authLimit = func(c *gin.Context) { c.Next() }
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	staffOrReadOnly := middleware.Require(permission.StaffOrReadOnly{})
	authenticatedOrReadOnly := middleware.Require(permission.AuthenticatedOrReadOnly{})
	authenticated := middleware.Require(permission.IsAuthenticated{})

	api := router.Group("/api")

	account := api.Group("/account")
	{
		account.POST("/register", h.Account.Register)
		account.POST("/login", authLimit, h.Account.Login)
		account.POST("/forgot-password", authLimit, h.Account.ForgotPassword)
		account.POST("/reset-password/:token", h.Account.ResetPassword)

		private := account.Group("", authMW.RequireAuth())
		{
			private.POST("/logout", h.Account.Logout)
			private.GET("/verify", h.Account.Verify)
			private.GET("/users", middleware.Require(permission.IsStaff{}), h.Account.ListUsers)

			user := private.Group("/users/:id", middleware.ExtractUintParam("id", "userID"))
			{
				user.GET("", h.Account.GetUser)
				user.PUT("", h.Account.UpdateUser)
				user.DELETE("", h.Account.DeleteUser)
			}
		}
	}

	public := api.Group("", authMW.OptionalAuth())

	categories := public.Group("/categories", staffOrReadOnly)
	{
		categories.GET("", h.Catalog.ListCategories)
		categories.POST("", h.Catalog.CreateCategory)

		byID := categories.Group("/:id", middleware.ExtractUintParam("id", "categoryID"))
		byID.GET("", h.Catalog.GetCategory)
		byID.PUT("", h.Catalog.UpdateCategory)
		byID.DELETE("", h.Catalog.DeleteCategory)
	}

	tags := public.Group("/tags", staffOrReadOnly)
	{
		tags.GET("", h.Catalog.ListTags)
		tags.POST("", h.Catalog.CreateTag)

		byID := tags.Group("/:id", middleware.ExtractUintParam("id", "tagID"))
		byID.GET("", h.Catalog.GetTag)
		byID.PUT("", h.Catalog.UpdateTag)
		byID.DELETE("", h.Catalog.DeleteTag)
	}

	quizzes := public.Group("/quizzes")
	{
		quizzes.GET("", h.Quiz.ListQuizzes)
		quizzes.POST("", staffOrReadOnly, h.Quiz.CreateQuiz)

		quiz := quizzes.Group("/:id", middleware.ExtractUintParam("id", "quizID"))
		{
			quiz.GET("", h.Quiz.GetQuiz)
			quiz.PUT("", staffOrReadOnly, h.Quiz.UpdateQuiz)
			quiz.DELETE("", staffOrReadOnly, h.Quiz.DeleteQuiz)

			quiz.GET("/questions", h.Quiz.ListQuestions)
			quiz.POST("/questions", staffOrReadOnly, h.Quiz.CreateQuestion)

			quiz.GET("/feedbacks", h.Feedback.ListFeedbacks)
			quiz.POST("/feedbacks", authenticatedOrReadOnly, h.Feedback.CreateFeedback)
		}
	}

	questions := public.Group("/questions/:id", middleware.ExtractUintParam("id", "questionID"), staffOrReadOnly)
	{
		questions.GET("", h.Quiz.GetQuestion)
		questions.PUT("", h.Quiz.UpdateQuestion)
		questions.DELETE("", h.Quiz.DeleteQuestion)
		questions.GET("/answers", h.Quiz.ListAnswers)
		questions.POST("/answers", h.Quiz.CreateAnswer)
	}

	answers := public.Group("/answers/:id", middleware.ExtractUintParam("id", "answerID"), staffOrReadOnly)
	{
		answers.GET("", h.Quiz.GetAnswer)
		answers.PUT("", h.Quiz.UpdateAnswer)
		answers.DELETE("", h.Quiz.DeleteAnswer)
	}

	feedbacks := public.Group("/feedbacks/:id", middleware.ExtractUintParam("id", "feedbackID"), middleware.Require(permission.FeedbackOwner{}))
	{
		feedbacks.GET("", h.Feedback.GetFeedback)
		feedbacks.PUT("", h.Feedback.UpdateFeedback)
		feedbacks.DELETE("", h.Feedback.DeleteFeedback)
	}

	participation := public.Group("/quiz", authenticated)
	{
		participation.POST("/start", h.Participation.StartQuiz)
		participation.POST("/submit", h.Participation.SubmitQuiz)
		participation.GET("/statistics", h.Leaderboard.Statistics)
		participation.GET("/statistics/export", h.Leaderboard.ExportStatistics)
	}

	public.GET("/leaderboard", h.Leaderboard.Leaderboard)

	if h.WS != nil {
		router.GET("/ws/leaderboard", h.WS.HandleLeaderboard)
	}
}
