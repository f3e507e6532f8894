package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-lab-case-tracker/config"
	deliveryHttp "go-lab-case-tracker/internal/delivery/http"
	"go-lab-case-tracker/internal/delivery/http/handler"
	"go-lab-case-tracker/internal/delivery/http/middleware"
	"go-lab-case-tracker/internal/infrastructure/cache"
	"go-lab-case-tracker/internal/infrastructure/database"
	"go-lab-case-tracker/internal/repository"
	"go-lab-case-tracker/internal/service"
	"go-lab-case-tracker/internal/usecase"
	"go-lab-case-tracker/pkg/jwt"
	"go-lab-case-tracker/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	// Run schema migration
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	logrus.Info("Database migration complete")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize all layers
	server, err := initializeServer(cfg, db, redisClient)
	if err != nil {
		return nil, err
	}
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*http.Server, error) {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	roleRepo := repository.NewRoleRepository()
	caseRepo := repository.NewCaseRepository()
	caseLineRepo := repository.NewCaseLineRepository()
	sectionRepo := repository.NewSectionRepository()
	lineRepo := repository.NewLineRepository()
	designRepo := repository.NewDesignRepository()
	auditRepo := repository.NewAuditRepository()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize domain services
	numberingService := service.NewNumberingService(db, log, caseRepo)
	permissionService := service.NewPermissionService()
	auditService := service.NewAuditService(log, auditRepo)
	notifier := service.NewLogNotifier(log)
	composerService := service.NewComposerService(log, cfg.Lab)
	roleCacheService := service.NewRoleCacheService(db, redisClient, log, roleRepo)

	// Warm the role permission cache before accepting traffic. Redis being
	// down is not fatal; checks fall back to the database.
	if err := roleCacheService.SyncOnStartup(context.Background()); err != nil {
		logrus.Warnf("Role cache warm-up failed: %v", err)
	}

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, auditService, jwtService, redisClient)
	caseUsecase := usecase.NewCaseUsecase(db, log, caseRepo, caseLineRepo, userRepo, numberingService, permissionService, auditService, notifier)
	lineUsecase := usecase.NewLineUsecase(db, log, lineRepo, sectionRepo, auditService)
	designUsecase := usecase.NewDesignUsecase(db, log, designRepo, auditService)
	reportUsecase := usecase.NewReportUsecase(db, log, caseRepo, caseLineRepo, sectionRepo, designRepo, composerService)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator, jwtService)
	caseHandler := handler.NewCaseHandler(caseUsecase, reportUsecase, customValidator)
	lineHandler := handler.NewLineHandler(lineUsecase, customValidator)
	designHandler := handler.NewDesignHandler(designUsecase, customValidator)
	auditHandler := handler.NewAuditHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	permissionMiddleware := middleware.NewPermissionMiddleware(roleCacheService)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(authHandler, caseHandler, lineHandler, designHandler, auditHandler, authMiddleware, permissionMiddleware, corsMiddleware)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}, nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
