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

// UserHandler serves tenant membership.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// AddUser adds a member to the caller's tenant.
func (h *UserHandler) AddUser(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	type AddUserRequest struct {
		TenantID string      `json:"tenantId"`
		Email    string      `json:"email" binding:"required,email"`
		Password string      `json:"password" binding:"required"`
		FullName string      `json:"fullName" binding:"required,max=255"`
		Role     models.Role `json:"role"`
	}

	var req AddUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.AddUser(c.Request.Context(), caller, services.AddUserInput{
		TenantID: req.TenantID,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.WithMessage("User created successfully", dto.ToUserDTO(*user)))
}

// ListUsers lists the members of the caller's tenant.
func (h *UserHandler) ListUsers(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	filter := repository.UserFilter{
		Role:       models.Role(c.Query("role")),
		Search:     c.Query("search"),
		Pagination: utils.GetPaginationParams(c),
	}

	users, total, err := h.userService.ListUsers(c.Request.Context(), caller, c.Query("tenantId"), filter)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Page(dto.ToUserDTOs(users), filter.Pagination, total))
}

// UpdateUser changes a user's profile or access.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	type UpdateUserRequest struct {
		FullName *string      `json:"fullName" binding:"omitempty,max=255"`
		Role     *models.Role `json:"role"`
		IsActive *bool        `json:"isActive"`
	}

	var req UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), caller, c.Param("id"), services.UpdateUserInput{
		FullName: req.FullName,
		Role:     req.Role,
		IsActive: req.IsActive,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.WithMessage("User updated successfully", dto.ToUserDTO(*user)))
}

// DeleteUser removes a user.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), caller, c.Param("id")); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.WithMessage("User deleted successfully", nil))
}
