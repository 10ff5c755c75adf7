package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/yukikurage/tenant-task-api/internal/access"
	"github.com/yukikurage/tenant-task-api/internal/audit"
	"github.com/yukikurage/tenant-task-api/internal/models"
	"github.com/yukikurage/tenant-task-api/internal/repository"
)

var ErrInvalidTenantStatus = access.Validation("Status must be one of active, suspended, trial, inactive")

// AdminService holds the platform-wide operations reserved for super admins.
type AdminService struct {
	tenantRepo repository.TenantRepository
	userRepo   repository.UserRepository
	authz      Authorizer
	auditor    Auditor
}

// NewAdminService creates a new AdminService
func NewAdminService(tenantRepo repository.TenantRepository, userRepo repository.UserRepository, authz Authorizer, auditor Auditor) *AdminService {
	return &AdminService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		authz:      authz,
		auditor:    auditor,
	}
}

// SystemStats returns row counts across every tenant.
func (s *AdminService) SystemStats(ctx context.Context, caller Caller) (*repository.SystemStats, error) {
	if err := s.authz.Authorize(caller.Principal, access.ActionViewSystemStats, access.Resource{}); err != nil {
		return nil, err
	}
	stats, err := s.tenantRepo.SystemStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load system stats: %w", err)
	}
	return stats, nil
}

// ListTenants lists every tenant.
func (s *AdminService) ListTenants(ctx context.Context, caller Caller, filter repository.TenantFilter) ([]models.Tenant, int64, error) {
	if err := s.authz.Authorize(caller.Principal, access.ActionListAllTenants, access.Resource{}); err != nil {
		return nil, 0, err
	}
	tenants, total, err := s.tenantRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tenants: %w", err)
	}
	return tenants, total, nil
}

// ListUsers lists users of every tenant, or of tenantID when given.
func (s *AdminService) ListUsers(ctx context.Context, caller Caller, tenantID string, filter repository.UserFilter) ([]models.User, int64, error) {
	if err := s.authz.Authorize(caller.Principal, access.ActionListAllUsers, access.Resource{}); err != nil {
		return nil, 0, err
	}
	scope, err := access.ResolveScope(caller.Principal, tenantID)
	if err != nil {
		return nil, 0, err
	}
	users, total, err := s.userRepo.List(ctx, scope, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// UpdateTenantStatus moves a tenant through its status machine. Setting the
// current status again is a no-op.
func (s *AdminService) UpdateTenantStatus(ctx context.Context, caller Caller, tenantID string, status models.TenantStatus) (*models.Tenant, error) {
	if err := s.authz.Authorize(caller.Principal, access.ActionUpdateTenantStatus, access.Resource{}); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, ErrInvalidTenantStatus
	}

	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to find tenant: %w", err)
	}
	if tenant.Status == status {
		return tenant, nil
	}
	if !tenant.Status.CanTransitionTo(status) {
		return nil, access.Validation(fmt.Sprintf("Cannot change tenant status from %s to %s", tenant.Status, status))
	}

	tenant.Status = status
	if err := s.tenantRepo.Update(ctx, tenant); err != nil {
		return nil, fmt.Errorf("failed to update tenant status: %w", err)
	}
	s.auditor.Record(ctx, caller.entry(&tenant.ID, audit.ActionUpdateTenantStatus, audit.EntityTenant, tenant.ID))

	return tenant, nil
}

// SuperAdminSeed describes the bootstrap super admin account.
type SuperAdminSeed struct {
	Email    string
	Password string
	FullName string
}

// EnsureSuperAdmin creates the bootstrap super admin unless one with that email exists.
func EnsureSuperAdmin(ctx context.Context, users repository.UserRepository, hasher PasswordHasher, seed SuperAdminSeed, log *zap.Logger) error {
	email, err := normalizeEmail(seed.Email)
	if err != nil {
		return err
	}

	if _, err := users.FindSuperAdminByEmail(ctx, email); err == nil {
		log.Debug("Super admin already present", zap.String("email", email))
		return nil
	} else if !errors.Is(err, access.ErrNotFound) {
		return fmt.Errorf("failed to look up super admin: %w", err)
	}

	if err := validatePassword(seed.Password); err != nil {
		return err
	}
	hash, err := hasher.Hash(seed.Password)
	if err != nil {
		return err
	}

	fullName, err := requireName(seed.FullName)
	if err != nil {
		return err
	}
	admin := &models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         models.RoleSuperAdmin,
		IsActive:     true,
	}
	if err := users.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create super admin: %w", err)
	}

	log.Info("Super admin created", zap.String("email", email), zap.String("user_id", admin.ID))
	return nil
}
