package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yukikurage/tenant-task-api/internal/audit"
	"github.com/yukikurage/tenant-task-api/internal/database"
	"github.com/yukikurage/tenant-task-api/internal/models"
)

// GormTenantRepository is a GORM implementation of TenantRepository
type GormTenantRepository struct {
	db      *gorm.DB
	auditor TxAuditor
}

// NewTenantRepository creates a new TenantRepository
func NewTenantRepository(db *gorm.DB, auditor TxAuditor) TenantRepository {
	return &GormTenantRepository{db: db, auditor: auditor}
}

// CreateWithAdmin creates the tenant, its admin and the audit record atomically.
func (r *GormTenantRepository) CreateWithAdmin(ctx context.Context, tenant *models.Tenant, admin *models.User, entry audit.Entry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(tenant).Error; err != nil {
			return conflict(err, "Subdomain is already taken")
		}

		admin.TenantID = &tenant.ID
		if err := tx.Omit(clause.Associations).Create(admin).Error; err != nil {
			return conflict(err, "Email is already registered in this tenant")
		}

		entry.TenantID = &tenant.ID
		entry.UserID = admin.ID
		entry.EntityID = tenant.ID
		r.auditor.RecordTx(tx, entry)
		return nil
	})
}

// FindByID finds a tenant by ID
func (r *GormTenantRepository) FindByID(ctx context.Context, id string) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&tenant).Error; err != nil {
		return nil, notFound(err, "Tenant not found")
	}
	return &tenant, nil
}

// FindBySubdomain finds a tenant by its subdomain
func (r *GormTenantRepository) FindBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.db.WithContext(ctx).Where("subdomain = ?", subdomain).First(&tenant).Error; err != nil {
		return nil, notFound(err, "Tenant not found")
	}
	return &tenant, nil
}

// Update persists every column of tenant
func (r *GormTenantRepository) Update(ctx context.Context, tenant *models.Tenant) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(tenant).Error
}

func (r *GormTenantRepository) filtered(ctx context.Context, filter TenantFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Tenant{})
	if filter.Status != "" {
		query = query.Where("tenants.status = ?", filter.Status)
	}
	if filter.Plan != "" {
		query = query.Where("tenants.subscription_plan = ?", filter.Plan)
	}
	return query.Scopes(database.Search(filter.Search, "tenants.name", "tenants.subdomain"))
}

// List retrieves tenants with filtering and pagination
func (r *GormTenantRepository) List(ctx context.Context, filter TenantFilter) ([]models.Tenant, int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tenants []models.Tenant
	err := r.filtered(ctx, filter).
		Scopes(database.Newest("tenants.created_at"), database.Paginate(filter.Pagination)).
		Find(&tenants).Error
	if err != nil {
		return nil, 0, err
	}

	return tenants, total, nil
}

// Quotas returns the tenant's user and project limits
func (r *GormTenantRepository) Quotas(ctx context.Context, tenantID string) (int, int, error) {
	tenant, err := r.FindByID(ctx, tenantID)
	if err != nil {
		return 0, 0, err
	}
	return tenant.MaxUsers, tenant.MaxProjects, nil
}

// CountUsers counts the members of a tenant
func (r *GormTenantRepository) CountUsers(ctx context.Context, tenantID string) (int64, error) {
	return r.countIn(ctx, &models.User{}, tenantID)
}

// CountProjects counts the projects of a tenant
func (r *GormTenantRepository) CountProjects(ctx context.Context, tenantID string) (int64, error) {
	return r.countIn(ctx, &models.Project{}, tenantID)
}

func (r *GormTenantRepository) countIn(ctx context.Context, model interface{}, tenantID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(model).Where("tenant_id = ?", tenantID).Count(&count).Error
	return count, err
}

// Stats counts the rows owned by a tenant
func (r *GormTenantRepository) Stats(ctx context.Context, tenantID string) (*TenantStats, error) {
	var (
		stats TenantStats
		err   error
	)
	if stats.TotalUsers, err = r.countIn(ctx, &models.User{}, tenantID); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if stats.TotalProjects, err = r.countIn(ctx, &models.Project{}, tenantID); err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}
	if stats.TotalTasks, err = r.countIn(ctx, &models.Task{}, tenantID); err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	return &stats, nil
}

// SystemStats counts rows across every tenant
func (r *GormTenantRepository) SystemStats(ctx context.Context) (*SystemStats, error) {
	db := r.db.WithContext(ctx)
	stats := SystemStats{TenantsByStatus: map[models.TenantStatus]int64{}}

	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.Tenant{}, &stats.TotalTenants},
		{&models.User{}, &stats.TotalUsers},
		{&models.Project{}, &stats.TotalProjects},
		{&models.Task{}, &stats.TotalTasks},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	var byStatus []struct {
		Status models.TenantStatus
		Total  int64
	}
	err := db.Model(&models.Tenant{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&byStatus).Error
	if err != nil {
		return nil, err
	}
	for _, row := range byStatus {
		stats.TenantsByStatus[row.Status] = row.Total
	}

	return &stats, nil
}
