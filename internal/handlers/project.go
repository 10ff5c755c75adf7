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

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// CreateProject creates a project in the caller's tenant.
// Super admins pick the tenant with tenantId.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	type CreateProjectRequest struct {
		TenantID    string               `json:"tenantId"`
		Name        string               `json:"name" binding:"max=255"`
		Description string               `json:"description"`
		Status      models.ProjectStatus `json:"status"`
	}

	var req CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), caller, services.CreateProjectInput{
		TenantID:    req.TenantID,
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.WithMessage("Project created successfully", dto.ToProjectDTO(*project)))
}

// ListProjects returns the projects visible to the caller
// Supports status, search and tenantId filters
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	filter := repository.ProjectFilter{
		Status:     models.ProjectStatus(c.Query("status")),
		Search:     c.Query("search"),
		Pagination: utils.GetPaginationParams(c),
	}

	projects, total, err := h.projectService.ListProjects(c.Request.Context(), caller, c.Query("tenantId"), filter)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Page(dto.ToProjectDTOs(projects), filter.Pagination, total))
}

// GetProject returns a specific project by ID
func (h *ProjectHandler) GetProject(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToProjectDTO(*project)))
}

// UpdateProject updates an existing project
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	type UpdateProjectRequest struct {
		Name        *string               `json:"name" binding:"omitempty,max=255"`
		Description *string               `json:"description"`
		Status      *models.ProjectStatus `json:"status"`
	}

	var req UpdateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), caller, c.Param("id"), services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.WithMessage("Project updated successfully", dto.ToProjectDTO(*project)))
}

// DeleteProject deletes a project and its tasks
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(c.Request.Context(), caller, c.Param("id")); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.WithMessage("Project deleted successfully", nil))
}
