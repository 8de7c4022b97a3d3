package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/middleware"
	"github.com/yourusername/quiz-api/internal/repository/postgres"
	"github.com/yourusername/quiz-api/internal/service"
	"github.com/yourusername/quiz-api/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testPassword = "password123"

// testEnv - роутер с настоящими сервисами поверх временной SQLite базы
type testEnv struct {
	t      *testing.T
	db     *gorm.DB
	jwt    *auth.JWTService
	router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	path := filepath.Join(t.TempDir(), "quiz.db")
	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.InvalidToken{},
		&entity.Category{},
		&entity.Tag{},
		&entity.Quiz{},
		&entity.Question{},
		&entity.Answer{},
		&entity.Participant{},
		&entity.Feedback{},
	))

	userRepo := postgres.NewUserRepo(db)
	categoryRepo := postgres.NewCategoryRepo(db)
	tagRepo := postgres.NewTagRepo(db)
	quizRepo := postgres.NewQuizRepo(db)
	questionRepo := postgres.NewQuestionRepo(db)
	answerRepo := postgres.NewAnswerRepo(db)
	participantRepo := postgres.NewParticipantRepo(db)
	feedbackRepo := postgres.NewFeedbackRepo(db)

	jwtService, err := auth.NewJWTService("test-secret", 1, postgres.NewInvalidTokenRepo(db))
	require.NoError(t, err)

	leaderboardService := service.NewLeaderboardService(participantRepo, nil)
	handlers := Handlers{
		Account: NewAccountHandler(service.NewAccountService(userRepo, jwtService, nil, &service.NoopEmailService{}, "http://front.test")),
		Catalog: NewCatalogHandler(service.NewCatalogService(categoryRepo, tagRepo)),
		Quiz:    NewQuizHandler(service.NewQuizService(quizRepo, questionRepo, answerRepo, categoryRepo, tagRepo, 240)),
		Participation: NewParticipationHandler(service.NewParticipationService(
			quizRepo, questionRepo, answerRepo, participantRepo, nil, nil, nil, 0)),
		Feedback:    NewFeedbackHandler(service.NewFeedbackService(quizRepo, participantRepo, feedbackRepo)),
		Leaderboard: NewLeaderboardHandler(leaderboardService),
	}

	router := gin.New()
	RegisterRoutes(router, handlers, middleware.NewAuthMiddleware(jwtService), nil)

	return &testEnv{t: t, db: db, jwt: jwtService, router: router}
}

// user создает пользователя с паролем testPassword
func (e *testEnv) user(username string, staff bool) *entity.User {
	e.t.Helper()
	u := &entity.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  testPassword,
		FirstName: username,
		LastName:  "Test",
		IsStaff:   staff,
		IsActive:  true,
	}
	require.NoError(e.t, e.db.Create(u).Error)
	return u
}

func (e *testEnv) token(u *entity.User) string {
	e.t.Helper()
	tok, err := e.jwt.GenerateToken(u)
	require.NoError(e.t, err)
	return tok
}

// quiz создает викторину с двумя вопросами по 1 баллу и проходным порогом 50%
func (e *testEnv) quiz(owner *entity.User, title string) *entity.Quiz {
	e.t.Helper()
	category := entity.Category{Name: title + " category"}
	require.NoError(e.t, e.db.Create(&category).Error)

	q := &entity.Quiz{
		Title:                  title,
		TimeLimit:              10,
		PassingMarksPercentage: 50,
		CreatedByID:            owner.ID,
		Categories:             []entity.Category{category},
		Questions: []entity.Question{
			{Text: "2+2?", Type: entity.QuestionTypeMultipleChoice, Points: 1, Answers: []entity.Answer{
				{Text: "4", IsCorrect: true}, {Text: "5"},
			}},
			{Text: "Sky is blue?", Type: entity.QuestionTypeTrueFalse, Points: 1, Answers: []entity.Answer{
				{Text: "True", IsCorrect: true}, {Text: "False"},
			}},
		},
	}
	require.NoError(e.t, postgres.NewQuizRepo(e.db).Create(context.Background(), q))
	return q
}

// do выполняет запрос к роутеру. Пустой token - анонимный запрос.
func (e *testEnv) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	e.t.Helper()

	var req *http.Request
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(e.t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// parseJSONResponse парсит JSON ответ из *httptest.ResponseRecorder
func parseJSONResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err, "Тело ответа должно быть валидным JSON: %s", w.Body.String())
	return resp
}
