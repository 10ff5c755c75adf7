package dto

import (
	"time"

	"github.com/yukikurage/tenant-task-api/internal/models"
)

// AssigneeDTO represents the user a task is assigned to
type AssigneeDTO struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// TaskDTO represents a task
type TaskDTO struct {
	ID          string              `json:"id"`
	ProjectID   string              `json:"projectId"`
	TenantID    string              `json:"tenantId"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	AssignedTo  *string             `json:"assignedTo"`
	Assignee    *AssigneeDTO        `json:"assignee,omitempty"`
	DueDate     *time.Time          `json:"dueDate"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		ProjectID:   task.ProjectID,
		TenantID:    task.TenantID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		AssignedTo:  task.AssignedTo,
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	// Include assignee if preloaded
	if task.Assignee != nil {
		dto.Assignee = &AssigneeDTO{
			ID:       task.Assignee.ID,
			FullName: task.Assignee.FullName,
			Email:    task.Assignee.Email,
		}
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}
