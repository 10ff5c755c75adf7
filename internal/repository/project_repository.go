package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yukikurage/tenant-task-api/internal/access"
	"github.com/yukikurage/tenant-task-api/internal/database"
	"github.com/yukikurage/tenant-task-api/internal/models"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(project).Error
}

// FindInScope finds a project visible in scope, with its creator
func (r *GormProjectRepository) FindInScope(ctx context.Context, scope access.Scope, id string) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Scopes(database.TenantScoped(scope, "projects.tenant_id")).
		Preload("Creator").
		Where("projects.id = ?", id).
		First(&project).Error
	if err != nil {
		return nil, notFound(err, "Project not found")
	}

	if err := r.attachTaskCounts(ctx, []*models.Project{&project}); err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *GormProjectRepository) filtered(ctx context.Context, scope access.Scope, filter ProjectFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Project{}).
		Scopes(database.TenantScoped(scope, "projects.tenant_id"))
	if filter.Status != "" {
		query = query.Where("projects.status = ?", filter.Status)
	}
	return query.Scopes(database.Search(filter.Search, "projects.name", "projects.description"))
}

// List retrieves projects visible in scope with task counts
func (r *GormProjectRepository) List(ctx context.Context, scope access.Scope, filter ProjectFilter) ([]models.Project, int64, error) {
	var total int64
	if err := r.filtered(ctx, scope, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []models.Project
	err := r.filtered(ctx, scope, filter).
		Preload("Creator").
		Scopes(database.Newest("projects.created_at"), database.Paginate(filter.Pagination)).
		Find(&projects).Error
	if err != nil {
		return nil, 0, err
	}

	refs := make([]*models.Project, len(projects))
	for i := range projects {
		refs[i] = &projects[i]
	}
	if err := r.attachTaskCounts(ctx, refs); err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// attachTaskCounts fills the task aggregates with one grouped query.
func (r *GormProjectRepository) attachTaskCounts(ctx context.Context, projects []*models.Project) error {
	if len(projects) == 0 {
		return nil
	}

	ids := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}

	var rows []struct {
		ProjectID string
		Total     int64
		Completed int64
	}
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Select("project_id, COUNT(*) AS total, SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS completed", models.TaskStatusCompleted).
		Where("project_id IN ?", ids).
		Group("project_id").
		Scan(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to count tasks: %w", err)
	}

	byProject := make(map[string]int, len(projects))
	for i, p := range projects {
		byProject[p.ID] = i
	}
	for _, row := range rows {
		if i, ok := byProject[row.ProjectID]; ok {
			projects[i].TaskCount = row.Total
			projects[i].CompletedTaskCount = row.Completed
		}
	}
	return nil
}

// Update persists every column of project
func (r *GormProjectRepository) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(project).Error
}

// DeleteCascade deletes the project's tasks, then the project, in one transaction
func (r *GormProjectRepository) DeleteCascade(ctx context.Context, scope access.Scope, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project models.Project
		err := tx.Scopes(database.TenantScoped(scope, "projects.tenant_id")).
			Where("projects.id = ?", id).
			First(&project).Error
		if err != nil {
			return notFound(err, "Project not found")
		}

		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Task{}).Error; err != nil {
			return fmt.Errorf("failed to delete tasks: %w", err)
		}

		return tx.Where("id = ?", project.ID).Delete(&models.Project{}).Error
	})
}
