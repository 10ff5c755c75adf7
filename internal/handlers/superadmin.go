package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/tenant-task-api/internal/dto"
	apierrors "github.com/yukikurage/tenant-task-api/internal/errors"
	"github.com/yukikurage/tenant-task-api/internal/models"
	"github.com/yukikurage/tenant-task-api/internal/repository"
	"github.com/yukikurage/tenant-task-api/internal/services"
	"github.com/yukikurage/tenant-task-api/internal/utils"
)

// SuperAdminHandler serves the platform-wide endpoints.
type SuperAdminHandler struct {
	adminService *services.AdminService
}

// NewSuperAdminHandler creates a new SuperAdminHandler.
func NewSuperAdminHandler(adminService *services.AdminService) *SuperAdminHandler {
	return &SuperAdminHandler{
		adminService: adminService,
	}
}

// Stats returns row counts across every tenant.
func (h *SuperAdminHandler) Stats(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	stats, err := h.adminService.SystemStats(c.Request.Context(), caller)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToSystemStatsDTO(*stats)))
}

// ListTenants lists every tenant; filters are status, plan and search.
func (h *SuperAdminHandler) ListTenants(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	filter := repository.TenantFilter{
		Status:     models.TenantStatus(c.Query("status")),
		Plan:       models.SubscriptionPlan(c.Query("plan")),
		Search:     c.Query("search"),
		Pagination: utils.GetPaginationParams(c),
	}

	tenants, total, err := h.adminService.ListTenants(c.Request.Context(), caller, filter)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Page(dto.ToTenantDTOs(tenants), filter.Pagination, total))
}

// ListUsers lists users of every tenant, or of the tenantId given.
func (h *SuperAdminHandler) ListUsers(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	filter := repository.UserFilter{
		Role:       models.Role(c.Query("role")),
		Search:     c.Query("search"),
		Pagination: utils.GetPaginationParams(c),
	}

	users, total, err := h.adminService.ListUsers(c.Request.Context(), caller, c.Query("tenantId"), filter)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Page(dto.ToUserDTOs(users), filter.Pagination, total))
}

// UpdateTenantStatus moves a tenant through its status machine.
func (h *SuperAdminHandler) UpdateTenantStatus(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	type UpdateTenantStatusRequest struct {
		Status models.TenantStatus `json:"status" binding:"required"`
	}

	var req UpdateTenantStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	tenant, err := h.adminService.UpdateTenantStatus(c.Request.Context(), caller, c.Param("id"), req.Status)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.WithMessage("Tenant status updated successfully", dto.ToTenantDTO(*tenant, true)))
}
