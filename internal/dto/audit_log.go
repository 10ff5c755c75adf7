package dto

import (
	"time"

	"github.com/yukikurage/tenant-task-api/internal/models"
)

// AuditLogDTO represents one audit record
type AuditLogDTO struct {
	ID         string    `json:"id"`
	TenantID   *string   `json:"tenantId"`
	UserID     *string   `json:"userId"`
	Action     string    `json:"action"`
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityId"`
	IPAddress  string    `json:"ipAddress"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ToAuditLogDTOs converts a slice of audit records
func ToAuditLogDTOs(logs []models.AuditLog) []AuditLogDTO {
	items := make([]AuditLogDTO, len(logs))
	for i, log := range logs {
		items[i] = AuditLogDTO{
			ID:         log.ID,
			TenantID:   log.TenantID,
			UserID:     log.UserID,
			Action:     log.Action,
			EntityType: log.EntityType,
			EntityID:   log.EntityID,
			IPAddress:  log.IPAddress,
			CreatedAt:  log.CreatedAt,
		}
	}
	return items
}
