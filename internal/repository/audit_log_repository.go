package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yukikurage/tenant-task-api/internal/access"
	"github.com/yukikurage/tenant-task-api/internal/database"
	"github.com/yukikurage/tenant-task-api/internal/models"
	"github.com/yukikurage/tenant-task-api/internal/utils"
)

// GormAuditLogRepository is a GORM implementation of AuditLogRepository
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new AuditLogRepository
func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// List retrieves audit records visible in scope, newest first
func (r *GormAuditLogRepository) List(ctx context.Context, scope access.Scope, params utils.PaginationParams) ([]models.AuditLog, int64, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.AuditLog{}).
			Scopes(database.TenantScoped(scope, "audit_logs.tenant_id"))
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.AuditLog
	err := base().
		Scopes(database.Newest("audit_logs.created_at"), database.Paginate(params)).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
