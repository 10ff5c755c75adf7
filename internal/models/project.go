package models

import "time"

type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusArchived  ProjectStatus = "archived"
	ProjectStatusCompleted ProjectStatus = "completed"
)

// Valid reports whether s is a known status.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusActive, ProjectStatusArchived, ProjectStatusCompleted:
		return true
	}
	return false
}

type Project struct {
	ID          string        `gorm:"type:varchar(36);primaryKey" json:"id"`
	TenantID    string        `gorm:"type:varchar(36);not null;index" json:"tenant_id"`
	Name        string        `gorm:"type:varchar(255);not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	Status      ProjectStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedBy   *string       `gorm:"type:varchar(36);index" json:"created_by"`
	CreatedAt   time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	// Relations
	Creator *User `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`

	// Aggregates filled by list queries, not persisted
	TaskCount          int64 `gorm:"-" json:"task_count"`
	CompletedTaskCount int64 `gorm:"-" json:"completed_task_count"`
}
