package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yukikurage/tenant-task-api/internal/access"
	"github.com/yukikurage/tenant-task-api/internal/audit"
	"github.com/yukikurage/tenant-task-api/internal/models"
	"github.com/yukikurage/tenant-task-api/internal/repository"
	"github.com/yukikurage/tenant-task-api/internal/utils"
)

var (
	ErrInvalidPlan  = access.Validation("Subscription plan must be one of free, pro, enterprise")
	ErrInvalidQuota = access.Validation("Quotas must be positive")
)

// TenantService handles tenant settings and the tenant audit trail.
type TenantService struct {
	tenantRepo repository.TenantRepository
	auditRepo  repository.AuditLogRepository
	authz      Authorizer
	auditor    Auditor
}

// NewTenantService creates a new TenantService
func NewTenantService(tenantRepo repository.TenantRepository, auditRepo repository.AuditLogRepository, authz Authorizer, auditor Auditor) *TenantService {
	return &TenantService{
		tenantRepo: tenantRepo,
		auditRepo:  auditRepo,
		authz:      authz,
		auditor:    auditor,
	}
}

// TenantDetail is a tenant as seen by one caller.
type TenantDetail struct {
	Tenant *models.Tenant
	Stats  *repository.TenantStats
	// ShowSubscription reports whether the caller may see plan and quota fields.
	ShowSubscription bool
}

// findVisible loads a tenant the caller belongs to. Other tenants look absent.
func (s *TenantService) findVisible(ctx context.Context, p access.Principal, tenantID string) (*models.Tenant, error) {
	if !p.IsSuperAdmin() && !p.InTenant(tenantID) {
		return nil, ErrTenantNotFound
	}
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to find tenant: %w", err)
	}
	return tenant, nil
}

// GetTenant returns a tenant with its usage stats.
func (s *TenantService) GetTenant(ctx context.Context, caller Caller, tenantID string) (*TenantDetail, error) {
	tenant, err := s.findVisible(ctx, caller.Principal, tenantID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(caller.Principal, access.ActionViewTenant, access.InTenant(tenant.ID)); err != nil {
		return nil, err
	}

	stats, err := s.tenantRepo.Stats(ctx, tenant.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tenant stats: %w", err)
	}

	return &TenantDetail{
		Tenant:           tenant,
		Stats:            stats,
		ShowSubscription: access.Authorize(caller.Principal, access.ActionViewTenantSubscription, access.InTenant(tenant.ID)) == nil,
	}, nil
}

// UpdateTenantInput represents the editable tenant fields. Nil fields are left unchanged.
type UpdateTenantInput struct {
	Name             *string
	SubscriptionPlan *models.SubscriptionPlan
	MaxUsers         *int
	MaxProjects      *int
}

func (in UpdateTenantInput) touchesSubscription() bool {
	return in.SubscriptionPlan != nil || in.MaxUsers != nil || in.MaxProjects != nil
}

// UpdateTenant changes the tenant name and, for super admins, the subscription.
// Changing the plan resets quotas to the plan defaults unless quotas are given too.
func (s *TenantService) UpdateTenant(ctx context.Context, caller Caller, tenantID string, input UpdateTenantInput) (*TenantDetail, error) {
	tenant, err := s.findVisible(ctx, caller.Principal, tenantID)
	if err != nil {
		return nil, err
	}

	res := access.InTenant(tenant.ID)
	if input.Name != nil {
		if err := s.authz.Authorize(caller.Principal, access.ActionUpdateTenantName, res); err != nil {
			return nil, err
		}
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrTenantNameRequired
		}
		tenant.Name = name
	}

	if input.touchesSubscription() {
		if err := s.authz.Authorize(caller.Principal, access.ActionUpdateTenantSubscription, res); err != nil {
			return nil, access.Forbidden("Only a super admin can change subscription fields")
		}
		if input.SubscriptionPlan != nil {
			if !input.SubscriptionPlan.Valid() {
				return nil, ErrInvalidPlan
			}
			if *input.SubscriptionPlan != tenant.SubscriptionPlan {
				tenant.SubscriptionPlan = *input.SubscriptionPlan
				tenant.MaxUsers, tenant.MaxProjects = tenant.SubscriptionPlan.DefaultQuotas()
			}
		}
		if input.MaxUsers != nil {
			if *input.MaxUsers < 1 {
				return nil, ErrInvalidQuota
			}
			tenant.MaxUsers = *input.MaxUsers
		}
		if input.MaxProjects != nil {
			if *input.MaxProjects < 1 {
				return nil, ErrInvalidQuota
			}
			tenant.MaxProjects = *input.MaxProjects
		}
	}

	if err := s.tenantRepo.Update(ctx, tenant); err != nil {
		return nil, fmt.Errorf("failed to update tenant: %w", err)
	}
	s.auditor.Record(ctx, caller.entry(&tenant.ID, audit.ActionUpdateTenant, audit.EntityTenant, tenant.ID))

	return s.GetTenant(ctx, caller, tenant.ID)
}

// ListAuditLogs returns the audit trail of a tenant, newest first.
func (s *TenantService) ListAuditLogs(ctx context.Context, caller Caller, tenantID string, params utils.PaginationParams) ([]models.AuditLog, int64, error) {
	tenant, err := s.findVisible(ctx, caller.Principal, tenantID)
	if err != nil {
		return nil, 0, err
	}
	if err := s.authz.Authorize(caller.Principal, access.ActionViewAuditLogs, access.InTenant(tenant.ID)); err != nil {
		return nil, 0, err
	}

	logs, total, err := s.auditRepo.List(ctx, access.ForTenant(tenant.ID), params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, total, nil
}
