package dto

import (
	"time"

	"github.com/yukikurage/tenant-task-api/internal/models"
)

// UserRefDTO names a user referenced by another entity
type UserRefDTO struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
}

// ProjectDTO represents a project with its task counts
type ProjectDTO struct {
	ID                 string               `json:"id"`
	TenantID           string               `json:"tenantId"`
	Name               string               `json:"name"`
	Description        string               `json:"description"`
	Status             models.ProjectStatus `json:"status"`
	CreatedBy          *string              `json:"createdBy"`
	Creator            *UserRefDTO          `json:"creator,omitempty"`
	TaskCount          int64                `json:"taskCount"`
	CompletedTaskCount int64                `json:"completedTaskCount"`
	CreatedAt          time.Time            `json:"createdAt"`
	UpdatedAt          time.Time            `json:"updatedAt"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:                 project.ID,
		TenantID:           project.TenantID,
		Name:               project.Name,
		Description:        project.Description,
		Status:             project.Status,
		CreatedBy:          project.CreatedBy,
		TaskCount:          project.TaskCount,
		CompletedTaskCount: project.CompletedTaskCount,
		CreatedAt:          project.CreatedAt,
		UpdatedAt:          project.UpdatedAt,
	}
	if project.Creator != nil {
		dto.Creator = &UserRefDTO{ID: project.Creator.ID, FullName: project.Creator.FullName}
	}
	return dto
}

// ToProjectDTOs converts a slice of projects
func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	items := make([]ProjectDTO, len(projects))
	for i, project := range projects {
		items[i] = ToProjectDTO(project)
	}
	return items
}
