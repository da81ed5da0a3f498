// @title PrepDeck API
// @version 1.0
// @description Exam preparation backend: exam catalog, demo-gated question bank, practice and mock sessions.
// @host localhost:8080
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"prepdeck/internal/adapter"
	"prepdeck/internal/cache"
	"prepdeck/internal/config"
	"prepdeck/internal/database"
	"prepdeck/internal/handler"
	"prepdeck/internal/logger"
	"prepdeck/internal/middleware"
	"prepdeck/internal/repository"
	"prepdeck/internal/service"

	_ "prepdeck/cmd/api/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Connect to database and apply pending migrations
	db, err := database.NewSQLXPostgresDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.RunMigrations("file://migrations", cfg.GetDSN()); err != nil {
		appLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize Redis client and cache adapter
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)
	appLogger.Info("RedisCacheAdapter initialized")

	// Initialize repositories
	examRepository := repository.NewSQLXExamRepository(db)
	nodeRepository := repository.NewSQLXContentNodeRepository(db)
	questionRepository := repository.NewSQLXQuestionRepository(db)
	demoUsageRepository := repository.NewSQLXDemoUsageRepository(db)
	subscriptionRepository := repository.NewSQLXSubscriptionRepository(db)
	attemptRepository := repository.NewSQLXAttemptRepository(db)
	bookmarkRepository := repository.NewSQLXBookmarkRepository(db)
	userRepository := repository.NewSQLXUserRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Initialize services
	accessService := service.NewAccessService(examRepository, nodeRepository, demoUsageRepository, subscriptionRepository, cacheAdapter, &cfg.Access)
	examService := service.NewExamService(examRepository, nodeRepository, questionRepository)
	questionService := service.NewQuestionService(questionRepository, attemptRepository)
	attemptService := service.NewAttemptService(attemptRepository, questionRepository, accessService)
	subscriptionService := service.NewSubscriptionService(subscriptionRepository, examRepository, cacheAdapter)
	userService := service.NewUserService(userRepository, bookmarkRepository, questionRepository)
	importService := service.NewImportService(questionRepository, nodeRepository, txManager)

	authService, err := service.NewAuthService(userRepository, cfg)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	appLogger.Info("Services initialized")

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, cfg)
	examHandler := handler.NewExamHandler(examService, accessService)
	attemptHandler := handler.NewAttemptHandler(attemptService, questionService)
	userHandler := handler.NewUserHandler(userService, subscriptionService)
	adminHandler := handler.NewAdminHandler(examService, subscriptionService, accessService, importService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)

	apiGroup := app.Group("/api")

	// Auth routes
	authGroup := apiGroup.Group("/auth")
	authGroup.Get("/google/login", authHandler.GoogleLogin)
	authGroup.Get("/google/callback", authHandler.GoogleCallback)
	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/logout", middleware.Protected(authService), authHandler.Logout)

	// Public catalog routes
	apiGroup.Get("/exams", examHandler.ListExams)
	apiGroup.Get("/exams/:slug", examHandler.GetExamBySlug)
	apiGroup.Get("/exams/:examId/tree", examHandler.GetContentTree)

	// Access routes (authenticated)
	apiGroup.Get("/exams/:examId/access", middleware.Protected(authService), examHandler.CheckAccess)
	apiGroup.Post("/access/demo-complete", middleware.Protected(authService), examHandler.MarkDemoComplete)

	// Attempt routes (authenticated)
	attemptGroup := apiGroup.Group("/attempts", middleware.Protected(authService))
	attemptGroup.Post("/practice", attemptHandler.StartPractice)
	attemptGroup.Post("/mock", attemptHandler.StartMock)
	attemptGroup.Post("/check", attemptHandler.CheckAnswer)
	attemptGroup.Get("/", attemptHandler.ListAttempts)
	attemptGroup.Get("/:attemptId", attemptHandler.GetAttempt)
	attemptGroup.Post("/:attemptId/complete", attemptHandler.Complete)

	// User routes (authenticated)
	userGroup := apiGroup.Group("/users", middleware.Protected(authService))
	userGroup.Get("/me", userHandler.GetMyProfile)
	userGroup.Get("/me/bookmarks", userHandler.ListBookmarks)
	userGroup.Post("/me/bookmarks", userHandler.ToggleBookmark)
	userGroup.Get("/me/subscriptions", userHandler.ListMySubscriptions)

	// Admin routes
	adminGroup := apiGroup.Group("/admin", middleware.Protected(authService), middleware.AdminOnly(userService))
	adminGroup.Post("/exams", adminHandler.CreateExam)
	adminGroup.Put("/exams/:examId", adminHandler.UpdateExam)
	adminGroup.Post("/nodes", adminHandler.CreateContentNode)
	adminGroup.Delete("/nodes/:nodeId", adminHandler.DeleteContentNode)
	adminGroup.Post("/nodes/:nodeId/questions/import", adminHandler.ImportQuestions)
	adminGroup.Post("/subscriptions", adminHandler.GrantSubscription)
	adminGroup.Delete("/subscriptions/:subscriptionId", adminHandler.RevokeSubscription)
	adminGroup.Delete("/users/:userId/exams/:examId/demo", adminHandler.ResetDemo)

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		appLogger.Error("Failed to close database", zap.Error(err))
	}
	if err := redisClient.Close(); err != nil {
		appLogger.Error("Failed to close Redis client", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
