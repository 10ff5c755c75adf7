// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yukikurage/tenant-task-api/internal/database"
	"github.com/yukikurage/tenant-task-api/internal/models"
)

// NewDB opens a migrated in-memory sqlite database. The pool holds a single
// connection because every sqlite :memory: connection is its own database.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db, zap.NewNop()))
	return db
}

// CreateTenant inserts a tenant with the plan's default quotas.
func CreateTenant(t testing.TB, db *gorm.DB, subdomain string) *models.Tenant {
	t.Helper()

	maxUsers, maxProjects := models.PlanFree.DefaultQuotas()
	tenant := &models.Tenant{
		Name:             subdomain + " Inc",
		Subdomain:        subdomain,
		Status:           models.TenantStatusActive,
		SubscriptionPlan: models.PlanFree,
		MaxUsers:         maxUsers,
		MaxProjects:      maxProjects,
	}
	require.NoError(t, db.Create(tenant).Error)
	return tenant
}

// CreateUser inserts an active user. tenantID is nil for super admins.
func CreateUser(t testing.TB, db *gorm.DB, tenantID *string, email string, role models.Role) *models.User {
	t.Helper()

	user := &models.User{
		TenantID:     tenantID,
		Email:        email,
		PasswordHash: "hashed",
		FullName:     email,
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateProject inserts a project owned by createdBy.
func CreateProject(t testing.TB, db *gorm.DB, tenantID string, name string, createdBy *string) *models.Project {
	t.Helper()

	project := &models.Project{
		TenantID:  tenantID,
		Name:      name,
		Status:    models.ProjectStatusActive,
		CreatedBy: createdBy,
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

// CreateTask inserts a task under project.
func CreateTask(t testing.TB, db *gorm.DB, project *models.Project, title string, assignedTo *string) *models.Task {
	t.Helper()

	task := &models.Task{
		ProjectID:  project.ID,
		TenantID:   project.TenantID,
		Title:      title,
		Status:     models.TaskStatusTodo,
		Priority:   models.TaskPriorityMedium,
		AssignedTo: assignedTo,
	}
	require.NoError(t, db.Create(task).Error)
	return task
}
