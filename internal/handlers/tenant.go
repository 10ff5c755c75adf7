package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/tenant-task-api/internal/dto"
	apierrors "github.com/yukikurage/tenant-task-api/internal/errors"
	"github.com/yukikurage/tenant-task-api/internal/models"
	"github.com/yukikurage/tenant-task-api/internal/services"
	"github.com/yukikurage/tenant-task-api/internal/utils"
)

// TenantHandler serves tenant settings and the tenant audit trail.
type TenantHandler struct {
	tenantService *services.TenantService
}

// NewTenantHandler creates a new TenantHandler.
func NewTenantHandler(tenantService *services.TenantService) *TenantHandler {
	return &TenantHandler{
		tenantService: tenantService,
	}
}

func toTenantResponse(detail *services.TenantDetail) dto.TenantDTO {
	return dto.ToTenantDetailDTO(*detail.Tenant, detail.Stats, detail.ShowSubscription)
}

// GetTenant returns a tenant with its usage stats.
func (h *TenantHandler) GetTenant(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	detail, err := h.tenantService.GetTenant(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(toTenantResponse(detail)))
}

// UpdateTenant changes the tenant name, or the subscription for super admins.
func (h *TenantHandler) UpdateTenant(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	type UpdateTenantRequest struct {
		Name             *string                  `json:"name" binding:"omitempty,max=255"`
		SubscriptionPlan *models.SubscriptionPlan `json:"subscriptionPlan"`
		MaxUsers         *int                     `json:"maxUsers"`
		MaxProjects      *int                     `json:"maxProjects"`
	}

	var req UpdateTenantRequest
	if !bindJSON(c, &req) {
		return
	}

	detail, err := h.tenantService.UpdateTenant(c.Request.Context(), caller, c.Param("id"), services.UpdateTenantInput{
		Name:             req.Name,
		SubscriptionPlan: req.SubscriptionPlan,
		MaxUsers:         req.MaxUsers,
		MaxProjects:      req.MaxProjects,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.WithMessage("Tenant updated successfully", toTenantResponse(detail)))
}

// ListAuditLogs returns the audit trail of a tenant, newest first.
func (h *TenantHandler) ListAuditLogs(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	logs, total, err := h.tenantService.ListAuditLogs(c.Request.Context(), caller, c.Param("id"), params)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Page(dto.ToAuditLogDTOs(logs), params, total))
}
