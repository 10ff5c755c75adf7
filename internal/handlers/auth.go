package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/tenant-task-api/internal/dto"
	apierrors "github.com/yukikurage/tenant-task-api/internal/errors"
	"github.com/yukikurage/tenant-task-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterTenant opens a tenant together with its first admin.
func (h *AuthHandler) RegisterTenant(c *gin.Context) {
	type RegisterTenantRequest struct {
		TenantName    string `json:"tenantName" binding:"required,max=255"`
		Subdomain     string `json:"subdomain" binding:"required"`
		AdminEmail    string `json:"adminEmail" binding:"required,email"`
		AdminPassword string `json:"adminPassword" binding:"required"`
		AdminFullName string `json:"adminFullName" binding:"required,max=255"`
	}

	var req RegisterTenantRequest
	if !bindJSON(c, &req) {
		return
	}

	tenant, admin, err := h.authService.RegisterTenant(c.Request.Context(), services.RegisterTenantInput{
		TenantName:    req.TenantName,
		Subdomain:     req.Subdomain,
		AdminEmail:    req.AdminEmail,
		AdminPassword: req.AdminPassword,
		AdminFullName: req.AdminFullName,
		IP:            c.ClientIP(),
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.WithMessage("Tenant registered successfully", dto.RegisterTenantResponse{
		TenantID:  tenant.ID,
		Subdomain: tenant.Subdomain,
		AdminUser: dto.ToUserDTO(*admin),
	}))
}

// Login authenticates a user and issues a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email           string `json:"email" binding:"required"`
		Password        string `json:"password" binding:"required"`
		TenantSubdomain string `json:"tenantSubdomain"`
	}

	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Email:           req.Email,
		Password:        req.Password,
		TenantSubdomain: req.TenantSubdomain,
		IP:              c.ClientIP(),
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	resp := dto.LoginResponse{
		User:      dto.ToUserDTO(*result.User),
		Token:     result.Token,
		ExpiresIn: int64(result.ExpiresIn.Seconds()),
	}
	if result.Tenant != nil {
		tenant := dto.ToTenantSummaryDTO(*result.Tenant)
		resp.Tenant = &tenant
	}
	c.JSON(http.StatusOK, dto.WithMessage("Login successful", resp))
}

// Logout records the sign-out. The client discards its token.
func (h *AuthHandler) Logout(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	h.authService.Logout(c.Request.Context(), caller)
	c.JSON(http.StatusOK, dto.WithMessage("Logged out successfully", nil))
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	user, tenant, err := h.authService.Me(c.Request.Context(), caller)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	userDTO := dto.ToUserDTO(*user)
	if tenant != nil {
		summary := dto.ToTenantSummaryDTO(*tenant)
		userDTO.Tenant = &summary
	}
	c.JSON(http.StatusOK, dto.OK(userDTO))
}
