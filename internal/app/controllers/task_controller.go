package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/taskroom/internal/app/models/dto"
	"github.com/yigit/taskroom/internal/app/services"
	"github.com/yigit/taskroom/internal/middleware"
	"github.com/yigit/taskroom/internal/pkg/helpers"
)

// TaskController handles personal task endpoints
type TaskController struct {
	taskService *services.TaskService
	logger      zerolog.Logger
}

// NewTaskController creates a new TaskController
func NewTaskController(taskService *services.TaskService, logger zerolog.Logger) *TaskController {
	return &TaskController{
		taskService: taskService,
		logger:      logger,
	}
}

// CreateTask creates a personal task
// @Summary Create task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTaskRequest true "Task fields"
// @Success 201 {object} dto.APIResponse{data=dto.TaskResponse}
// @Router /tasks [post]
func (c *TaskController) CreateTask(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	var req dto.CreateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.taskService.CreateTask(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// ListTasks retrieves a filtered, paginated view of the user's tasks
// @Summary List tasks
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param category query string false "Filter by category"
// @Param isFinished query bool false "Filter by completion"
// @Param deadlineFrom query string false "Earliest deadline (RFC3339)"
// @Param deadlineTo query string false "Latest deadline (RFC3339)"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.TaskListResponse}
// @Router /tasks [get]
func (c *TaskController) ListTasks(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	filter := dto.TaskListFilter{}
	filter.Page, filter.PageSize = helpers.ParsePaginationParams(ctx)

	if category := ctx.Query("category"); category != "" {
		filter.Category = &category
	}
	if raw := ctx.Query("isFinished"); raw != "" {
		if finished, err := strconv.ParseBool(raw); err == nil {
			filter.IsFinished = &finished
		}
	}
	if raw := ctx.Query("deadlineFrom"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.DeadlineFrom = &t
		}
	}
	if raw := ctx.Query("deadlineTo"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.DeadlineTo = &t
		}
	}

	resp, err := c.taskService.ListTasks(ctx.Request.Context(), userID, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetTask retrieves one task with attachments
// @Summary Get task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} dto.APIResponse{data=dto.TaskResponse}
// @Failure 404 {object} dto.ErrorResponse "Task not found"
// @Router /tasks/{id} [get]
func (c *TaskController) GetTask(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	taskID, err := parseIDParam(ctx, "id")
	if err != nil {
		return
	}

	resp, err := c.taskService.GetTask(ctx.Request.Context(), taskID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// UpdateTask applies a partial update to a task
// @Summary Update task
// @Description Partially updates the task; absent fields are left untouched
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param request body dto.UpdateTaskRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.TaskResponse}
// @Router /tasks/{id} [patch]
func (c *TaskController) UpdateTask(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	taskID, err := parseIDParam(ctx, "id")
	if err != nil {
		return
	}

	var req dto.UpdateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.taskService.UpdateTask(ctx.Request.Context(), taskID, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// DeleteTask removes a task with its attachments
// @Summary Delete task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Router /tasks/{id} [delete]
func (c *TaskController) DeleteTask(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	taskID, err := parseIDParam(ctx, "id")
	if err != nil {
		return
	}

	if err := c.taskService.DeleteTask(ctx.Request.Context(), taskID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Task deleted"}))
}

// AttachFile uploads an attachment for a task
// @Summary Attach file to task
// @Tags tasks
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param file formData file true "Attachment"
// @Success 201 {object} dto.APIResponse{data=dto.FileResponse}
// @Router /tasks/{id}/files [post]
func (c *TaskController) AttachFile(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	taskID, err := parseIDParam(ctx, "id")
	if err != nil {
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Missing file upload").WithField("file")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	resp, err := c.taskService.AttachFile(ctx.Request.Context(), taskID, userID, fileHeader)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// RemoveFile deletes an attachment from a task
// @Summary Remove file from task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param fileId path int true "File ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Router /tasks/{id}/files/{fileId} [delete]
func (c *TaskController) RemoveFile(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	taskID, err := parseIDParam(ctx, "id")
	if err != nil {
		return
	}
	fileID, err := parseIDParam(ctx, "fileId")
	if err != nil {
		return
	}

	if err := c.taskService.RemoveFile(ctx.Request.Context(), taskID, fileID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "File removed"}))
}
