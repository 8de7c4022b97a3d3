package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/quiz-api/internal/config"
	"github.com/yourusername/quiz-api/internal/handler"
	"github.com/yourusername/quiz-api/internal/logger"
	"github.com/yourusername/quiz-api/internal/middleware"
	pgRepo "github.com/yourusername/quiz-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/quiz-api/internal/repository/redis"
	"github.com/yourusername/quiz-api/internal/service"
	"github.com/yourusername/quiz-api/internal/service/scheduler"
	ws "github.com/yourusername/quiz-api/internal/websocket"
	"github.com/yourusername/quiz-api/pkg/auth"
	"github.com/yourusername/quiz-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Printf("Failed to initialize logger: %v", err)
		os.Exit(1)
	}
	defer logger.Sync()
	appLog := logger.Get().Named("Main")
	appLog.Info("config loaded", zap.String("path", configPath))

	isProduction := os.Getenv("GIN_MODE") == "release"

	// PostgreSQL и миграции
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString(), cfg.Logger.Level == "debug")
	if err != nil {
		appLog.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.MigrateDB(db, database.DefaultMigrationsSource); err != nil {
		appLog.Fatal("failed to migrate database", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis: кеш, очередь отложенных задач, лимиты и ретрансляция websocket
	redisClient, err := database.NewUniversalRedisClient(ctx, cfg.Redis)
	if err != nil {
		appLog.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLog.Info("connected to redis", zap.String("mode", cfg.Redis.Mode))

	// Репозитории
	userRepo := pgRepo.NewUserRepo(db)
	categoryRepo := pgRepo.NewCategoryRepo(db)
	tagRepo := pgRepo.NewTagRepo(db)
	quizRepo := pgRepo.NewQuizRepo(db)
	questionRepo := pgRepo.NewQuestionRepo(db)
	answerRepo := pgRepo.NewAnswerRepo(db)
	participantRepo := pgRepo.NewParticipantRepo(db)
	feedbackRepo := pgRepo.NewFeedbackRepo(db)
	invalidTokenRepo := pgRepo.NewInvalidTokenRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		appLog.Fatal("failed to initialize cache repo", zap.Error(err))
	}
	jobQueue := redisRepo.NewJobQueue(redisClient)

	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs, invalidTokenRepo)
	if err != nil {
		appLog.Fatal("failed to initialize jwt service", zap.Error(err))
	}

	// Почта
	var emailSender service.EmailSender = &service.NoopEmailService{}
	if cfg.Email.Enabled {
		resend, err := service.NewResendEmailService(cfg.Email.ResendAPIKey, cfg.Email.From)
		if err != nil {
			appLog.Fatal("failed to initialize email service", zap.Error(err))
		}
		emailSender = resend
	} else {
		appLog.Warn("email delivery disabled, reports and reset links are not sent")
	}

	// WebSocket хаб и ретрансляция между экземплярами
	hub := ws.NewHub()
	go hub.Run(ctx)
	relay := ws.NewRedisRelay(redisClient, hub)
	go func() {
		if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			appLog.Error("leaderboard relay stopped", zap.Error(err))
		}
	}()

	// Сервисы
	leaderboardService := service.NewLeaderboardService(participantRepo, cacheRepo)
	accountService := service.NewAccountService(userRepo, jwtService, cacheRepo, emailSender, cfg.Email.FrontendURL).
		WithLeaderboard(leaderboardService)
	catalogService := service.NewCatalogService(categoryRepo, tagRepo).WithLeaderboard(leaderboardService)
	quizService := service.NewQuizService(quizRepo, questionRepo, answerRepo, categoryRepo, tagRepo, cfg.Quiz.MaxTimeLimitMin).
		WithLeaderboard(leaderboardService)
	reportService := service.NewReportService(participantRepo, emailSender, cfg.Report.HistoryWindow(), cfg.Report.HistoryLimit)
	dispatcher := scheduler.NewReportDispatcher(jobQueue, cfg.Report.Delay())
	participationService := service.NewParticipationService(
		quizRepo, questionRepo, answerRepo, participantRepo,
		dispatcher, leaderboardService, relay,
		cfg.Quiz.SubmissionTolerance(),
	)
	feedbackService := service.NewFeedbackService(quizRepo, participantRepo, feedbackRepo)

	// Воркер отложенных отчётов
	worker := scheduler.NewWorker(jobQueue, cfg.Report.PollInterval(), cfg.Report.BatchSize)
	worker.Register(scheduler.TaskSendParticipantReport, scheduler.ReportHandler(reportService))
	go worker.Run(ctx)

	// Роутер
	router := gin.Default()

	// В production не доверяем прокси-заголовкам, в development доверяем localhost
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			appLog.Warn("failed to set trusted proxies", zap.Error(err))
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			appLog.Warn("failed to set trusted proxies", zap.Error(err))
		}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	rateLimiter := middleware.NewRateLimiter(redisClient)
	handler.RegisterRoutes(router, handler.Handlers{
		Account:       handler.NewAccountHandler(accountService),
		Catalog:       handler.NewCatalogHandler(catalogService),
		Quiz:          handler.NewQuizHandler(quizService),
		Participation: handler.NewParticipationHandler(participationService),
		Feedback:      handler.NewFeedbackHandler(feedbackService),
		Leaderboard:   handler.NewLeaderboardHandler(leaderboardService),
		WS:            handler.NewWSHandler(hub, jwtService, cfg.Server.AllowedOrigins),
	}, middleware.NewAuthMiddleware(jwtService), rateLimiter.Limit(middleware.StrictAuthRateLimitConfig()))

	// HTTP сервер с тайм-аутами от медленных клиентов
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		appLog.Info("starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("server failed", zap.Error(err))
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}
	appLog.Info("shutting down server")

	// Останавливаем воркер, хаб и ретрансляцию
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	appLog.Info("server exited properly")
}
