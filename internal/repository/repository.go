package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yukikurage/tenant-task-api/internal/access"
	"github.com/yukikurage/tenant-task-api/internal/audit"
	"github.com/yukikurage/tenant-task-api/internal/models"
	"github.com/yukikurage/tenant-task-api/internal/utils"
)

// TxAuditor appends audit records inside a transaction; implemented by *audit.Recorder.
type TxAuditor interface {
	RecordTx(tx *gorm.DB, e audit.Entry)
}

// TenantRepository defines the interface for tenant data access
type TenantRepository interface {
	// CreateWithAdmin creates a tenant, its first admin and the registration
	// audit record in one transaction. The entry's ids are taken from the new rows.
	CreateWithAdmin(ctx context.Context, tenant *models.Tenant, admin *models.User, entry audit.Entry) error

	// FindByID finds a tenant by ID
	FindByID(ctx context.Context, id string) (*models.Tenant, error)

	// FindBySubdomain finds a tenant by its subdomain
	FindBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error)

	// Update persists every column of tenant
	Update(ctx context.Context, tenant *models.Tenant) error

	// List retrieves tenants with filtering and pagination
	List(ctx context.Context, filter TenantFilter) ([]models.Tenant, int64, error)

	// Stats counts the rows owned by a tenant
	Stats(ctx context.Context, tenantID string) (*TenantStats, error)

	// SystemStats counts rows across every tenant
	SystemStats(ctx context.Context) (*SystemStats, error)

	access.UsageReader
}

// TenantFilter holds filtering options for listing tenants
type TenantFilter struct {
	Status     models.TenantStatus
	Plan       models.SubscriptionPlan
	Search     string
	Pagination utils.PaginationParams
}

// TenantStats is the per-tenant usage summary.
type TenantStats struct {
	TotalUsers    int64 `json:"total_users"`
	TotalProjects int64 `json:"total_projects"`
	TotalTasks    int64 `json:"total_tasks"`
}

// SystemStats is the platform-wide summary shown to super admins.
type SystemStats struct {
	TotalTenants    int64                         `json:"total_tenants"`
	TotalUsers      int64                         `json:"total_users"`
	TotalProjects   int64                         `json:"total_projects"`
	TotalTasks      int64                         `json:"total_tasks"`
	TenantsByStatus map[models.TenantStatus]int64 `json:"tenants_by_status"`
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID regardless of tenant; only the principal resolver uses it
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindInScope finds a user visible in scope
	FindInScope(ctx context.Context, scope access.Scope, id string) (*models.User, error)

	// FindByEmailInTenant finds a tenant member by email
	FindByEmailInTenant(ctx context.Context, tenantID, email string) (*models.User, error)

	// FindSuperAdminByEmail finds a super admin by email
	FindSuperAdminByEmail(ctx context.Context, email string) (*models.User, error)

	// List retrieves users visible in scope
	List(ctx context.Context, scope access.Scope, filter UserFilter) ([]models.User, int64, error)

	// Update persists every column of user
	Update(ctx context.Context, user *models.User) error

	// DeleteWithCleanup unassigns the user's tasks, clears the creator of the
	// user's projects, deletes the user and records entry, all in one transaction.
	DeleteWithCleanup(ctx context.Context, scope access.Scope, id string, entry audit.Entry) error
}

// UserFilter holds filtering options for listing users
type UserFilter struct {
	Role       models.Role
	Search     string
	Pagination utils.PaginationParams
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(ctx context.Context, project *models.Project) error

	// FindInScope finds a project visible in scope, with its creator
	FindInScope(ctx context.Context, scope access.Scope, id string) (*models.Project, error)

	// List retrieves projects visible in scope with task counts
	List(ctx context.Context, scope access.Scope, filter ProjectFilter) ([]models.Project, int64, error)

	// Update persists every column of project
	Update(ctx context.Context, project *models.Project) error

	// DeleteCascade deletes a project and all of its tasks atomically
	DeleteCascade(ctx context.Context, scope access.Scope, id string) error
}

// ProjectFilter holds filtering options for listing projects
type ProjectFilter struct {
	Status     models.ProjectStatus
	Search     string
	Pagination utils.PaginationParams
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindInScope finds a task visible in scope, with its assignee
	FindInScope(ctx context.Context, scope access.Scope, id string) (*models.Task, error)

	// List retrieves tasks visible in scope
	List(ctx context.Context, scope access.Scope, filter TaskFilter) ([]models.Task, int64, error)

	// Update persists every column of task
	Update(ctx context.Context, task *models.Task) error

	// Delete deletes a task visible in scope
	Delete(ctx context.Context, scope access.Scope, id string) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ProjectID  string
	Status     models.TaskStatus
	Priority   models.TaskPriority
	AssignedTo string
	Search     string
	Pagination utils.PaginationParams
}

// AuditLogRepository reads the audit trail.
type AuditLogRepository interface {
	// List retrieves audit records visible in scope, newest first
	List(ctx context.Context, scope access.Scope, params utils.PaginationParams) ([]models.AuditLog, int64, error)
}

// notFound translates gorm's missing-row error into the access taxonomy.
func notFound(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return access.NotFound(message)
	}
	return err
}

// conflict translates unique-key violations into the access taxonomy.
func conflict(err error, message string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return access.Conflict(message)
	}
	return err
}
