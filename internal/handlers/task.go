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

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

func taskFilterFromQuery(c *gin.Context) repository.TaskFilter {
	return repository.TaskFilter{
		ProjectID:  c.Query("projectId"),
		Status:     models.TaskStatus(c.Query("status")),
		Priority:   models.TaskPriority(c.Query("priority")),
		AssignedTo: c.Query("assignedTo"),
		Search:     c.Query("search"),
		Pagination: utils.GetPaginationParams(c),
	}
}

// CreateTask creates a task under the project in the path
func (h *TaskHandler) CreateTask(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		Title       string              `json:"title" binding:"max=255"`
		Description string              `json:"description"`
		Status      models.TaskStatus   `json:"status"`
		Priority    models.TaskPriority `json:"priority"`
		AssignedTo  nullableString      `json:"assignedTo"`
		DueDate     nullableString      `json:"dueDate"`
	}

	var req CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	dueDate, err := optionalDueDate(req.DueDate)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), caller, c.Param("id"), services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo.value(),
		DueDate:     dueDate,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.WithMessage("Task created successfully", dto.ToTaskDTO(*task)))
}

// ListProjectTasks returns the tasks of the project in the path
func (h *TaskHandler) ListProjectTasks(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	filter := taskFilterFromQuery(c)
	tasks, total, err := h.taskService.ListProjectTasks(c.Request.Context(), caller, c.Param("id"), filter)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Page(dto.ToTaskDTOs(tasks), filter.Pagination, total))
}

// ListTasks returns all tasks accessible by the current user
// Can filter by projectId, status, priority, assignedTo, search and tenantId
func (h *TaskHandler) ListTasks(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	filter := taskFilterFromQuery(c)
	tasks, total, err := h.taskService.ListTasks(c.Request.Context(), caller, c.Query("tenantId"), filter)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Page(dto.ToTaskDTOs(tasks), filter.Pagination, total))
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToTaskDTO(*task)))
}

// UpdateTask updates an existing task. assignedTo and dueDate may be sent
// as null to clear them.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Title       *string              `json:"title" binding:"omitempty,max=255"`
		Description *string              `json:"description"`
		Status      *models.TaskStatus   `json:"status"`
		Priority    *models.TaskPriority `json:"priority"`
		AssignedTo  nullableString       `json:"assignedTo"`
		DueDate     nullableString       `json:"dueDate"`
	}

	var req UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	dueDate, err := optionalDueDate(req.DueDate)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), caller, c.Param("id"), services.UpdateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		Status:        req.Status,
		Priority:      req.Priority,
		AssignedTo:    req.AssignedTo.value(),
		ClearAssignee: req.AssignedTo.cleared(),
		DueDate:       dueDate,
		ClearDueDate:  req.DueDate.cleared(),
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.WithMessage("Task updated successfully", dto.ToTaskDTO(*task)))
}

// UpdateTaskStatus sets the status of a task
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	type UpdateTaskStatusRequest struct {
		Status models.TaskStatus `json:"status"`
	}

	var req UpdateTaskStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.UpdateTaskStatus(c.Request.Context(), caller, c.Param("id"), req.Status)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.WithMessage("Task status updated successfully", dto.ToTaskDTO(*task)))
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), caller, c.Param("id")); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.WithMessage("Task deleted successfully", nil))
}
