package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/yukikurage/tenant-task-api/internal/errors"
	"github.com/yukikurage/tenant-task-api/internal/logger"
)

// RouterConfig carries the handlers and the cross-cutting middleware of the API.
type RouterConfig struct {
	Auth       *AuthHandler
	Tenants    *TenantHandler
	Users      *UserHandler
	Projects   *ProjectHandler
	Tasks      *TaskHandler
	SuperAdmin *SuperAdminHandler
	Health     *HealthHandler

	// RequireAuth guards every route except registration, login and health.
	RequireAuth gin.HandlerFunc
	// Middleware runs on every request after panic recovery.
	Middleware []gin.HandlerFunc
	// Metrics serves /metrics when set.
	Metrics gin.HandlerFunc
}

// NewRouter builds the gin engine with every API route.
func NewRouter(cfg RouterConfig) *gin.Engine {
	useJSONFieldNames()

	r := gin.New()
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.FromGin(c).Error("Panic recovered", zap.Any("panic", recovered))
		apierrors.InternalError(c, "")
		c.Abort()
	}))
	r.Use(cfg.Middleware...)

	r.NoRoute(func(c *gin.Context) {
		apierrors.NotFound(c, "Route not found")
	})

	r.GET("/health", cfg.Health.Check)
	if cfg.Metrics != nil {
		r.GET("/metrics", cfg.Metrics)
	}

	api := r.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register-tenant", cfg.Auth.RegisterTenant)
			auth.POST("/login", cfg.Auth.Login)
			auth.GET("/me", cfg.RequireAuth, cfg.Auth.GetCurrentUser)
			auth.POST("/logout", cfg.RequireAuth, cfg.Auth.Logout)
		}

		// Everything below requires a bearer token
		protected := api.Group("")
		protected.Use(cfg.RequireAuth)

		projects := protected.Group("/projects")
		{
			projects.POST("", cfg.Projects.CreateProject)
			projects.GET("", cfg.Projects.ListProjects)
			projects.GET("/:id", cfg.Projects.GetProject)
			projects.PUT("/:id", cfg.Projects.UpdateProject)
			projects.DELETE("/:id", cfg.Projects.DeleteProject)
			projects.POST("/:id/tasks", cfg.Tasks.CreateTask)
			projects.GET("/:id/tasks", cfg.Tasks.ListProjectTasks)
		}

		tasks := protected.Group("/tasks")
		{
			tasks.GET("", cfg.Tasks.ListTasks)
			tasks.GET("/:id", cfg.Tasks.GetTask)
			tasks.PUT("/:id", cfg.Tasks.UpdateTask)
			tasks.PATCH("/:id/status", cfg.Tasks.UpdateTaskStatus)
			tasks.DELETE("/:id", cfg.Tasks.DeleteTask)
		}

		tenants := protected.Group("/tenants")
		{
			tenants.GET("", cfg.SuperAdmin.ListTenants)
			tenants.GET("/:id", cfg.Tenants.GetTenant)
			tenants.PUT("/:id", cfg.Tenants.UpdateTenant)
			tenants.GET("/:id/audit-logs", cfg.Tenants.ListAuditLogs)
		}

		users := protected.Group("/users")
		{
			users.POST("", cfg.Users.AddUser)
			users.GET("", cfg.Users.ListUsers)
			users.PUT("/:id", cfg.Users.UpdateUser)
			users.DELETE("/:id", cfg.Users.DeleteUser)
		}

		superadmin := protected.Group("/superadmin")
		{
			superadmin.GET("/stats", cfg.SuperAdmin.Stats)
			superadmin.GET("/tenants", cfg.SuperAdmin.ListTenants)
			superadmin.GET("/users", cfg.SuperAdmin.ListUsers)
			superadmin.PUT("/tenants/:id/status", cfg.SuperAdmin.UpdateTenantStatus)
		}
	}

	return r
}
