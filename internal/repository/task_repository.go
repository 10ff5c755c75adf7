package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yukikurage/tenant-task-api/internal/access"
	"github.com/yukikurage/tenant-task-api/internal/database"
	"github.com/yukikurage/tenant-task-api/internal/models"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error
}

// FindInScope finds a task visible in scope, with its assignee
func (r *GormTaskRepository) FindInScope(ctx context.Context, scope access.Scope, id string) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).
		Scopes(database.TenantScoped(scope, "tasks.tenant_id")).
		Preload("Assignee").
		Where("tasks.id = ?", id).
		First(&task).Error
	if err != nil {
		return nil, notFound(err, "Task not found")
	}
	return &task, nil
}

func (r *GormTaskRepository) filtered(ctx context.Context, scope access.Scope, filter TaskFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Task{}).
		Scopes(database.TenantScoped(scope, "tasks.tenant_id"))

	// Apply filters
	if filter.ProjectID != "" {
		query = query.Where("tasks.project_id = ?", filter.ProjectID)
	}
	if filter.Status != "" {
		query = query.Where("tasks.status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("tasks.priority = ?", filter.Priority)
	}
	if filter.AssignedTo != "" {
		query = query.Where("tasks.assigned_to = ?", filter.AssignedTo)
	}
	return query.Scopes(database.Search(filter.Search, "tasks.title", "tasks.description"))
}

// List retrieves tasks visible in scope
func (r *GormTaskRepository) List(ctx context.Context, scope access.Scope, filter TaskFilter) ([]models.Task, int64, error) {
	var total int64
	if err := r.filtered(ctx, scope, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []models.Task
	err := r.filtered(ctx, scope, filter).
		Preload("Assignee").
		Scopes(database.Newest("tasks.created_at"), database.Paginate(filter.Pagination)).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update persists every column of task
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(task).Error
}

// Delete deletes a task visible in scope
func (r *GormTaskRepository) Delete(ctx context.Context, scope access.Scope, id string) error {
	result := r.db.WithContext(ctx).
		Scopes(database.TenantScoped(scope, "tasks.tenant_id")).
		Where("tasks.id = ?", id).
		Delete(&models.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return access.NotFound("Task not found")
	}
	return nil
}
