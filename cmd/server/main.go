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

	"github.com/yukikurage/tenant-task-api/internal/access"
	"github.com/yukikurage/tenant-task-api/internal/audit"
	"github.com/yukikurage/tenant-task-api/internal/auth"
	"github.com/yukikurage/tenant-task-api/internal/config"
	"github.com/yukikurage/tenant-task-api/internal/constants"
	"github.com/yukikurage/tenant-task-api/internal/database"
	"github.com/yukikurage/tenant-task-api/internal/handlers"
	"github.com/yukikurage/tenant-task-api/internal/logger"
	"github.com/yukikurage/tenant-task-api/internal/metrics"
	"github.com/yukikurage/tenant-task-api/internal/middleware"
	"github.com/yukikurage/tenant-task-api/internal/repository"
	"github.com/yukikurage/tenant-task-api/internal/services"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.AppEnv,
		ServiceName: "tenant-task-api",
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck
	zap.ReplaceGlobals(zl)

	if err := run(cfg, zl); err != nil {
		zl.Fatal("Server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Open(cfg.DB, zl)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			zl.Warn("Failed to close database", zap.Error(err))
		}
	}()

	// Run migrations
	if err := database.Migrate(db, zl); err != nil {
		return err
	}

	m := metrics.New()
	recorder := audit.NewRecorder(db, zl, m)
	defer recorder.Flush()

	// Repositories
	tenantRepo := repository.NewTenantRepository(db, recorder)
	userRepo := repository.NewUserRepository(db, recorder)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// Guards and credentials
	hasher := auth.NewBcryptHasher(0)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiresIn)
	resolver := access.NewPrincipalResolver(tokens, userRepo, tenantRepo)
	authz := access.NewAuthorizer(m)
	limits := access.NewLimitGuard(tenantRepo, m)

	if cfg.SuperAdmin.Enabled() {
		seedCtx, cancel := context.WithTimeout(context.Background(), cfg.DB.QueryTimeout)
		err := services.EnsureSuperAdmin(seedCtx, userRepo, hasher, services.SuperAdminSeed{
			Email:    cfg.SuperAdmin.Email,
			Password: cfg.SuperAdmin.Password,
			FullName: cfg.SuperAdmin.FullName,
		}, zl)
		cancel()
		if err != nil {
			return err
		}
	}

	// Services
	authService := services.NewAuthService(tenantRepo, userRepo, hasher, tokens, recorder)
	tenantService := services.NewTenantService(tenantRepo, auditRepo, authz, recorder)
	userService := services.NewUserService(userRepo, hasher, authz, limits, recorder)
	projectService := services.NewProjectService(projectRepo, authz, limits, recorder)
	taskService := services.NewTaskService(taskRepo, projectRepo, userRepo, authz, recorder)
	adminService := services.NewAdminService(tenantRepo, userRepo, authz, recorder)

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.FrontendURL}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", constants.HeaderAuthorization, constants.HeaderRequestID}
	corsConfig.ExposeHeaders = []string{constants.HeaderRequestID}

	router := handlers.NewRouter(handlers.RouterConfig{
		Auth:        handlers.NewAuthHandler(authService),
		Tenants:     handlers.NewTenantHandler(tenantService),
		Users:       handlers.NewUserHandler(userService),
		Projects:    handlers.NewProjectHandler(projectService),
		Tasks:       handlers.NewTaskHandler(taskService),
		SuperAdmin:  handlers.NewSuperAdminHandler(adminService),
		Health:      handlers.NewHealthHandler(db),
		RequireAuth: middleware.RequireAuth(resolver),
		Middleware: []gin.HandlerFunc{
			middleware.RequestID(zl),
			middleware.RequestLogger(),
			m.Middleware(),
			cors.New(corsConfig),
			middleware.Timeout(cfg.DB.QueryTimeout),
		},
		Metrics: m.Handler(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		zl.Info("Shutting down server", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	zl.Info("Server stopped")
	return nil
}
