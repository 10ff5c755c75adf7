package models

import "time"

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Valid reports whether p is a known priority.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Task.TenantID always mirrors the parent project's TenantID.
type Task struct {
	ID          string       `gorm:"type:varchar(36);primaryKey" json:"id"`
	ProjectID   string       `gorm:"type:varchar(36);not null;index" json:"project_id"`
	TenantID    string       `gorm:"type:varchar(36);not null;index" json:"tenant_id"`
	Title       string       `gorm:"type:varchar(255);not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'todo'" json:"status"`
	Priority    TaskPriority `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	AssignedTo  *string      `gorm:"type:varchar(36);index" json:"assigned_to"`
	DueDate     *time.Time   `json:"due_date"`
	CreatedAt   time.Time    `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Relations
	Assignee *User    `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
	Project  *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}
