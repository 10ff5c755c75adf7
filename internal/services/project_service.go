package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yukikurage/tenant-task-api/internal/access"
	"github.com/yukikurage/tenant-task-api/internal/audit"
	"github.com/yukikurage/tenant-task-api/internal/models"
	"github.com/yukikurage/tenant-task-api/internal/repository"
)

var (
	ErrProjectNameRequired = access.Validation("Project name is required")
	ErrInvalidProjectState = access.Validation("Status must be one of active, archived, completed")
)

// ProjectService handles project business logic
type ProjectService struct {
	projectRepo repository.ProjectRepository
	authz       Authorizer
	limits      LimitChecker
	auditor     Auditor
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, authz Authorizer, limits LimitChecker, auditor Auditor) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		authz:       authz,
		limits:      limits,
		auditor:     auditor,
	}
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	TenantID    string
	Name        string
	Description string
	Status      models.ProjectStatus
}

// CreateProject creates a project owned by the caller, subject to the plan's project quota.
func (s *ProjectService) CreateProject(ctx context.Context, caller Caller, input CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProjectNameRequired
	}
	status := input.Status
	if status == "" {
		status = models.ProjectStatusActive
	}
	if !status.Valid() {
		return nil, ErrInvalidProjectState
	}

	scope, err := access.ResolveScope(caller.Principal, input.TenantID)
	if err != nil {
		return nil, err
	}
	tenantID, err := scope.RequireTenant()
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(caller.Principal, access.ActionCreateProject, access.InTenant(tenantID)); err != nil {
		return nil, err
	}
	if err := s.limits.CheckCreationAllowed(ctx, tenantID, access.ResourceProject); err != nil {
		return nil, err
	}

	project := &models.Project{
		TenantID:    tenantID,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Status:      status,
		CreatedBy:   strPtr(caller.Principal.ID),
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.auditor.Record(ctx, caller.entry(&tenantID, audit.ActionCreateProject, audit.EntityProject, project.ID))
	return project, nil
}

// ListProjects lists the projects visible to the caller.
func (s *ProjectService) ListProjects(ctx context.Context, caller Caller, tenantID string, filter repository.ProjectFilter) ([]models.Project, int64, error) {
	scope, err := access.ResolveScope(caller.Principal, tenantID)
	if err != nil {
		return nil, 0, err
	}
	if err := s.authz.Authorize(caller.Principal, access.ActionViewProject, resourceOf(scope)); err != nil {
		return nil, 0, err
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, ErrInvalidProjectState
	}

	projects, total, err := s.projectRepo.List(ctx, scope, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// GetProject returns a project visible to the caller.
func (s *ProjectService) GetProject(ctx context.Context, caller Caller, projectID string) (*models.Project, error) {
	project, err := s.find(ctx, caller, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(caller.Principal, access.ActionViewProject, access.InTenant(project.TenantID)); err != nil {
		return nil, err
	}
	return project, nil
}

// UpdateProjectInput represents input for updating a project. Nil fields are left unchanged.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Status      *models.ProjectStatus
}

// UpdateProject changes a project. Plain users may only change projects they created.
func (s *ProjectService) UpdateProject(ctx context.Context, caller Caller, projectID string, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.find(ctx, caller, projectID)
	if err != nil {
		return nil, err
	}
	res := access.Resource{TenantID: &project.TenantID, OwnerID: project.CreatedBy}
	if err := s.authz.Authorize(caller.Principal, access.ActionUpdateProject, res); err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrProjectNameRequired
		}
		project.Name = name
	}
	if input.Description != nil {
		project.Description = strings.TrimSpace(*input.Description)
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidProjectState
		}
		project.Status = *input.Status
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	s.auditor.Record(ctx, caller.entry(&project.TenantID, audit.ActionUpdateProject, audit.EntityProject, project.ID))
	return project, nil
}

// DeleteProject deletes a project together with its tasks.
func (s *ProjectService) DeleteProject(ctx context.Context, caller Caller, projectID string) error {
	project, err := s.find(ctx, caller, projectID)
	if err != nil {
		return err
	}
	res := access.Resource{TenantID: &project.TenantID, OwnerID: project.CreatedBy}
	if err := s.authz.Authorize(caller.Principal, access.ActionDeleteProject, res); err != nil {
		return err
	}

	if err := s.projectRepo.DeleteCascade(ctx, access.ForTenant(project.TenantID), project.ID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.auditor.Record(ctx, caller.entry(&project.TenantID, audit.ActionDeleteProject, audit.EntityProject, project.ID))
	return nil
}

func (s *ProjectService) find(ctx context.Context, caller Caller, projectID string) (*models.Project, error) {
	scope, err := access.ResolveScope(caller.Principal, "")
	if err != nil {
		return nil, err
	}
	project, err := s.projectRepo.FindInScope(ctx, scope, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}
