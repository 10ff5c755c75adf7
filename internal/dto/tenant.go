package dto

import (
	"time"

	"github.com/yukikurage/tenant-task-api/internal/models"
	"github.com/yukikurage/tenant-task-api/internal/repository"
)

// TenantSummaryDTO is the short form embedded in user and login payloads.
type TenantSummaryDTO struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Subdomain string              `json:"subdomain"`
	Status    models.TenantStatus `json:"status"`
}

// TenantStatsDTO represents per-tenant usage
type TenantStatsDTO struct {
	TotalUsers    int64 `json:"totalUsers"`
	TotalProjects int64 `json:"totalProjects"`
	TotalTasks    int64 `json:"totalTasks"`
}

// TenantDTO represents a tenant. Plan and quota fields are only filled for
// callers allowed to see the subscription.
type TenantDTO struct {
	ID               string                   `json:"id"`
	Name             string                   `json:"name"`
	Subdomain        string                   `json:"subdomain"`
	Status           models.TenantStatus      `json:"status"`
	SubscriptionPlan *models.SubscriptionPlan `json:"subscriptionPlan,omitempty"`
	MaxUsers         *int                     `json:"maxUsers,omitempty"`
	MaxProjects      *int                     `json:"maxProjects,omitempty"`
	Stats            *TenantStatsDTO          `json:"stats,omitempty"`
	CreatedAt        time.Time                `json:"createdAt"`
	UpdatedAt        time.Time                `json:"updatedAt"`
}

// SystemStatsDTO represents platform-wide counts
type SystemStatsDTO struct {
	TotalTenants    int64                         `json:"totalTenants"`
	TotalUsers      int64                         `json:"totalUsers"`
	TotalProjects   int64                         `json:"totalProjects"`
	TotalTasks      int64                         `json:"totalTasks"`
	TenantsByStatus map[models.TenantStatus]int64 `json:"tenantsByStatus"`
}

// ToTenantSummaryDTO converts a Tenant model to TenantSummaryDTO
func ToTenantSummaryDTO(tenant models.Tenant) TenantSummaryDTO {
	return TenantSummaryDTO{
		ID:        tenant.ID,
		Name:      tenant.Name,
		Subdomain: tenant.Subdomain,
		Status:    tenant.Status,
	}
}

// ToTenantDTO converts a Tenant model to TenantDTO
func ToTenantDTO(tenant models.Tenant, showSubscription bool) TenantDTO {
	dto := TenantDTO{
		ID:        tenant.ID,
		Name:      tenant.Name,
		Subdomain: tenant.Subdomain,
		Status:    tenant.Status,
		CreatedAt: tenant.CreatedAt,
		UpdatedAt: tenant.UpdatedAt,
	}
	if showSubscription {
		plan, maxUsers, maxProjects := tenant.SubscriptionPlan, tenant.MaxUsers, tenant.MaxProjects
		dto.SubscriptionPlan = &plan
		dto.MaxUsers = &maxUsers
		dto.MaxProjects = &maxProjects
	}
	return dto
}

// ToTenantDetailDTO converts a tenant and its usage to TenantDTO
func ToTenantDetailDTO(tenant models.Tenant, stats *repository.TenantStats, showSubscription bool) TenantDTO {
	dto := ToTenantDTO(tenant, showSubscription)
	if stats != nil {
		dto.Stats = &TenantStatsDTO{
			TotalUsers:    stats.TotalUsers,
			TotalProjects: stats.TotalProjects,
			TotalTasks:    stats.TotalTasks,
		}
	}
	return dto
}

// ToTenantDTOs converts tenants listed for a super admin
func ToTenantDTOs(tenants []models.Tenant) []TenantDTO {
	items := make([]TenantDTO, len(tenants))
	for i, tenant := range tenants {
		items[i] = ToTenantDTO(tenant, true)
	}
	return items
}

// ToSystemStatsDTO converts repository.SystemStats
func ToSystemStatsDTO(stats repository.SystemStats) SystemStatsDTO {
	byStatus := stats.TenantsByStatus
	if byStatus == nil {
		byStatus = map[models.TenantStatus]int64{}
	}
	return SystemStatsDTO{
		TotalTenants:    stats.TotalTenants,
		TotalUsers:      stats.TotalUsers,
		TotalProjects:   stats.TotalProjects,
		TotalTasks:      stats.TotalTasks,
		TenantsByStatus: byStatus,
	}
}
