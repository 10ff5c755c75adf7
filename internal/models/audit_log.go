package models

import "time"

// AuditLog is append-only.
type AuditLog struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	TenantID   *string   `gorm:"type:varchar(36);index:idx_audit_logs_tenant_created" json:"tenant_id"`
	UserID     *string   `gorm:"type:varchar(36);index" json:"user_id"`
	Action     string    `gorm:"type:varchar(100);not null" json:"action"`
	EntityType string    `gorm:"type:varchar(50)" json:"entity_type"`
	EntityID   string    `gorm:"type:varchar(36)" json:"entity_id"`
	IPAddress  string    `gorm:"type:varchar(45)" json:"ip_address"`
	CreatedAt  time.Time `gorm:"index:idx_audit_logs_tenant_created" json:"created_at"`
}
