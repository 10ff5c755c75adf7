package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/tenant-task-api/internal/access"
	"github.com/yukikurage/tenant-task-api/internal/audit"
	"github.com/yukikurage/tenant-task-api/internal/models"
	"github.com/yukikurage/tenant-task-api/internal/repository"
)

var (
	ErrTitleRequired   = access.Validation("Task title is required")
	ErrInvalidStatus   = access.Validation("Status must be one of todo, in_progress, completed")
	ErrInvalidPriority = access.Validation("Priority must be one of low, medium, high")
	ErrInvalidAssignee = access.Validation("Assignee must be a member of the task's tenant")
	ErrStatusRequired  = access.Validation("Status is required")
	ErrNoTaskChanges   = access.Validation("No fields to update")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	authz       Authorizer
	auditor     Auditor
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository, authz Authorizer, auditor Auditor) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		authz:       authz,
		auditor:     auditor,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	AssignedTo  *string
	DueDate     *time.Time
}

// CreateTask creates a task under a project. The task inherits the project's tenant.
func (s *TaskService) CreateTask(ctx context.Context, caller Caller, projectID string, input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	status := input.Status
	if status == "" {
		status = models.TaskStatusTodo
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	priority := input.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}
	if !priority.Valid() {
		return nil, ErrInvalidPriority
	}

	project, err := s.findProject(ctx, caller, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(caller.Principal, access.ActionCreateTask, access.InTenant(project.TenantID)); err != nil {
		return nil, err
	}

	task := &models.Task{
		ProjectID:   project.ID,
		TenantID:    project.TenantID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Status:      status,
		Priority:    priority,
		DueDate:     input.DueDate,
	}
	if input.AssignedTo != nil && *input.AssignedTo != "" {
		assignee, err := s.findAssignee(ctx, project.TenantID, *input.AssignedTo)
		if err != nil {
			return nil, err
		}
		task.AssignedTo = &assignee.ID
		task.Assignee = assignee
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.auditor.Record(ctx, caller.entry(&task.TenantID, audit.ActionCreateTask, audit.EntityTask, task.ID))
	return task, nil
}

// ListProjectTasks lists the tasks of one project.
func (s *TaskService) ListProjectTasks(ctx context.Context, caller Caller, projectID string, filter repository.TaskFilter) ([]models.Task, int64, error) {
	project, err := s.findProject(ctx, caller, projectID)
	if err != nil {
		return nil, 0, err
	}
	if err := s.authz.Authorize(caller.Principal, access.ActionViewTask, access.InTenant(project.TenantID)); err != nil {
		return nil, 0, err
	}
	if err := validateTaskFilter(filter); err != nil {
		return nil, 0, err
	}

	filter.ProjectID = project.ID
	tasks, total, err := s.taskRepo.List(ctx, access.ForTenant(project.TenantID), filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// ListTasks lists tasks across the projects visible to the caller.
func (s *TaskService) ListTasks(ctx context.Context, caller Caller, tenantID string, filter repository.TaskFilter) ([]models.Task, int64, error) {
	scope, err := access.ResolveScope(caller.Principal, tenantID)
	if err != nil {
		return nil, 0, err
	}
	if err := s.authz.Authorize(caller.Principal, access.ActionViewTask, resourceOf(scope)); err != nil {
		return nil, 0, err
	}
	if err := validateTaskFilter(filter); err != nil {
		return nil, 0, err
	}

	tasks, total, err := s.taskRepo.List(ctx, scope, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

func validateTaskFilter(filter repository.TaskFilter) error {
	if filter.Status != "" && !filter.Status.Valid() {
		return ErrInvalidStatus
	}
	if filter.Priority != "" && !filter.Priority.Valid() {
		return ErrInvalidPriority
	}
	return nil
}

// GetTask returns a task visible to the caller.
func (s *TaskService) GetTask(ctx context.Context, caller Caller, taskID string) (*models.Task, error) {
	task, err := s.find(ctx, caller, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(caller.Principal, access.ActionViewTask, access.InTenant(task.TenantID)); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTaskInput represents input for updating a task. Nil fields are left unchanged.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	AssignedTo    *string
	ClearAssignee bool
	DueDate       *time.Time
	ClearDueDate  bool
}

func (in UpdateTaskInput) empty() bool {
	return in.Title == nil && in.Description == nil && in.Status == nil && in.Priority == nil &&
		in.AssignedTo == nil && !in.ClearAssignee && in.DueDate == nil && !in.ClearDueDate
}

// UpdateTask changes a task. Any member of the task's tenant may do so.
func (s *TaskService) UpdateTask(ctx context.Context, caller Caller, taskID string, input UpdateTaskInput) (*models.Task, error) {
	if input.empty() {
		return nil, ErrNoTaskChanges
	}

	task, err := s.find(ctx, caller, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(caller.Principal, access.ActionUpdateTask, access.InTenant(task.TenantID)); err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = strings.TrimSpace(*input.Description)
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		task.Status = *input.Status
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}

	switch {
	case input.ClearAssignee:
		task.AssignedTo = nil
		task.Assignee = nil
	case input.AssignedTo != nil:
		assignee, err := s.findAssignee(ctx, task.TenantID, *input.AssignedTo)
		if err != nil {
			return nil, err
		}
		task.AssignedTo = &assignee.ID
		task.Assignee = assignee
	}

	switch {
	case input.ClearDueDate:
		task.DueDate = nil
	case input.DueDate != nil:
		task.DueDate = input.DueDate
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.auditor.Record(ctx, caller.entry(&task.TenantID, audit.ActionUpdateTask, audit.EntityTask, task.ID))
	return task, nil
}

// UpdateTaskStatus sets a task's status. Setting the current status again
// succeeds and only refreshes updated_at.
func (s *TaskService) UpdateTaskStatus(ctx context.Context, caller Caller, taskID string, status models.TaskStatus) (*models.Task, error) {
	if status == "" {
		return nil, ErrStatusRequired
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	task, err := s.find(ctx, caller, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(caller.Principal, access.ActionUpdateTask, access.InTenant(task.TenantID)); err != nil {
		return nil, err
	}

	task.Status = status
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	s.auditor.Record(ctx, caller.entry(&task.TenantID, audit.ActionUpdateTaskStatus, audit.EntityTask, task.ID))
	return task, nil
}

// DeleteTask deletes a task.
func (s *TaskService) DeleteTask(ctx context.Context, caller Caller, taskID string) error {
	task, err := s.find(ctx, caller, taskID)
	if err != nil {
		return err
	}
	if err := s.authz.Authorize(caller.Principal, access.ActionDeleteTask, access.InTenant(task.TenantID)); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, access.ForTenant(task.TenantID), task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.auditor.Record(ctx, caller.entry(&task.TenantID, audit.ActionDeleteTask, audit.EntityTask, task.ID))
	return nil
}

func (s *TaskService) find(ctx context.Context, caller Caller, taskID string) (*models.Task, error) {
	scope, err := access.ResolveScope(caller.Principal, "")
	if err != nil {
		return nil, err
	}
	task, err := s.taskRepo.FindInScope(ctx, scope, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func (s *TaskService) findProject(ctx context.Context, caller Caller, projectID string) (*models.Project, error) {
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

// findAssignee loads a user of tenantID; anyone else is rejected as invalid input.
func (s *TaskService) findAssignee(ctx context.Context, tenantID, userID string) (*models.User, error) {
	user, err := s.userRepo.FindInScope(ctx, access.ForTenant(tenantID), userID)
	if errors.Is(err, access.ErrNotFound) {
		return nil, ErrInvalidAssignee
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find assignee: %w", err)
	}
	return user, nil
}
