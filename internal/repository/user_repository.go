package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yukikurage/tenant-task-api/internal/access"
	"github.com/yukikurage/tenant-task-api/internal/audit"
	"github.com/yukikurage/tenant-task-api/internal/database"
	"github.com/yukikurage/tenant-task-api/internal/models"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db      *gorm.DB
	auditor TxAuditor
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB, auditor TxAuditor) UserRepository {
	return &GormUserRepository{db: db, auditor: auditor}
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error; err != nil {
		return conflict(err, "Email is already registered in this tenant")
	}
	return nil
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, notFound(err, "User not found")
	}
	return &user, nil
}

// FindInScope finds a user visible in scope
func (r *GormUserRepository) FindInScope(ctx context.Context, scope access.Scope, id string) (*models.User, error) {
	return findUserInScope(r.db.WithContext(ctx), scope, id)
}

func findUserInScope(db *gorm.DB, scope access.Scope, id string) (*models.User, error) {
	var user models.User
	err := db.Scopes(database.TenantScoped(scope, "users.tenant_id")).
		Where("users.id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, notFound(err, "User not found")
	}
	return &user, nil
}

// FindByEmailInTenant finds a tenant member by email
func (r *GormUserRepository) FindByEmailInTenant(ctx context.Context, tenantID, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND email = ?", tenantID, email).
		First(&user).Error
	if err != nil {
		return nil, notFound(err, "User not found")
	}
	return &user, nil
}

// FindSuperAdminByEmail finds a super admin by email
func (r *GormUserRepository) FindSuperAdminByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("tenant_id IS NULL AND role = ? AND email = ?", models.RoleSuperAdmin, email).
		First(&user).Error
	if err != nil {
		return nil, notFound(err, "User not found")
	}
	return &user, nil
}

func (r *GormUserRepository) filtered(ctx context.Context, scope access.Scope, filter UserFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.User{}).
		Scopes(database.TenantScoped(scope, "users.tenant_id"))
	if filter.Role != "" {
		query = query.Where("users.role = ?", filter.Role)
	}
	return query.Scopes(database.Search(filter.Search, "users.full_name", "users.email"))
}

// List retrieves users visible in scope
func (r *GormUserRepository) List(ctx context.Context, scope access.Scope, filter UserFilter) ([]models.User, int64, error) {
	var total int64
	if err := r.filtered(ctx, scope, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := r.filtered(ctx, scope, filter).
		Preload("Tenant").
		Scopes(database.Newest("users.created_at"), database.Paginate(filter.Pagination)).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Update persists every column of user
func (r *GormUserRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error
}

// DeleteWithCleanup removes a user and detaches everything that referenced it.
func (r *GormUserRepository) DeleteWithCleanup(ctx context.Context, scope access.Scope, id string, entry audit.Entry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := findUserInScope(tx, scope, id)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.Task{}).Where("assigned_to = ?", user.ID).Update("assigned_to", nil).Error; err != nil {
			return fmt.Errorf("failed to unassign tasks: %w", err)
		}

		if err := tx.Model(&models.Project{}).Where("created_by = ?", user.ID).Update("created_by", nil).Error; err != nil {
			return fmt.Errorf("failed to detach projects: %w", err)
		}

		if err := tx.Where("id = ?", user.ID).Delete(&models.User{}).Error; err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}

		if entry.TenantID == nil {
			entry.TenantID = user.TenantID
		}
		entry.EntityType = audit.EntityUser
		entry.EntityID = user.ID
		r.auditor.RecordTx(tx, entry)
		return nil
	})
}
