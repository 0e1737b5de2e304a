package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dev-kunalpandey/tudu/api/audit"
	"github.com/dev-kunalpandey/tudu/api/authz"
	"github.com/dev-kunalpandey/tudu/api/cache"
	"github.com/dev-kunalpandey/tudu/api/config"
	"github.com/dev-kunalpandey/tudu/api/controller"
	"github.com/dev-kunalpandey/tudu/api/dao"
	"github.com/dev-kunalpandey/tudu/api/db"
	logger "github.com/dev-kunalpandey/tudu/api/logging"
	"github.com/dev-kunalpandey/tudu/api/model"
	"github.com/dev-kunalpandey/tudu/api/router"
	"github.com/dev-kunalpandey/tudu/api/service"
	"github.com/dev-kunalpandey/tudu/api/util"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	// Initialize logger
	logger.InitLogger(config.GetString("log.dir"))
	defer logger.Sync()

	// Initialize the database
	if err := db.InitDB(); err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.CloseDB()
	if err := db.Migrate(db.DB); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize Redis (optional; rate limiting degrades to pass-through)
	if err := db.InitRedis(); err != nil {
		logger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer db.CloseRedis()

	// Initialize EventBus
	eventBus := util.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eventBus.Start(ctx)

	// Initialize services and utilities
	validationUtil := util.NewValidationUtil()
	appCache := cache.New()
	tokenService := util.NewTokenService()
	emailService := util.NewEmailService()
	notificationService := util.NewNotificationService(emailService)
	auditService := audit.NewService(audit.NewGormRepository(db.DB))

	// Initialize DAOs
	todoDAO := dao.NewTodoDAO(db.DB)
	userDAO := dao.NewUserDAO(db.DB)

	// Initialize the access checker
	checker := authz.NewChecker(
		dao.NewAuthzStore(todoDAO, userDAO),
		appCache,
		config.GetDuration("cache.userContextTTL"),
		config.GetDuration("cache.resourceMetaTTL"),
	)

	// Initialize services
	authService := service.NewAuthService(userDAO, tokenService, validationUtil, auditService, eventBus)
	todoService := service.NewTodoService(todoDAO, checker, appCache, validationUtil, eventBus)
	userService := service.NewUserService(userDAO, checker, appCache, validationUtil, notificationService, auditService, eventBus)

	// Wire change notifications through the event bus
	eventBus.Subscribe("todo.created", func(ctx context.Context, e util.Event) error {
		return notifyTodo(ctx, notificationService, "created", e)
	})
	eventBus.Subscribe("todo.updated", func(ctx context.Context, e util.Event) error {
		return notifyTodo(ctx, notificationService, "updated", e)
	})
	eventBus.Subscribe("todo.deleted", func(ctx context.Context, e util.Event) error {
		return notifyTodo(ctx, notificationService, "deleted", e)
	})

	// Initialize controllers
	controllers := &controller.Controllers{
		Auth:  controller.NewAuthController(authService),
		Todo:  controller.NewTodoController(todoService),
		Admin: controller.NewAdminController(userService),
	}

	// Set up Gin
	gin.SetMode(gin.ReleaseMode)
	engine := router.SetupRouter(
		controllers,
		tokenService,
		userDAO,
		config.GetInt("ratelimit.requests"),
		config.GetDuration("ratelimit.window"),
	)

	// Set up the server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.GetString("server.port")),
		Handler: engine,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", config.GetString("server.port")))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}

func notifyTodo(ctx context.Context, n *util.NotificationService, changeType string, e util.Event) error {
	todo, ok := e.Payload.(model.Todo)
	if !ok {
		return fmt.Errorf("unexpected payload for %s event: %T", e.Type, e.Payload)
	}
	return n.NotifyTodoChange(ctx, changeType, todo)
}
