package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/taskroom/internal/app/models/dto"
	"github.com/yigit/taskroom/internal/app/services"
	"github.com/yigit/taskroom/internal/middleware"
)

// ClassroomTaskController handles canonical classroom assignment endpoints
type ClassroomTaskController struct {
	taskService *services.ClassroomTaskService
	logger      zerolog.Logger
}

// NewClassroomTaskController creates a new ClassroomTaskController
func NewClassroomTaskController(taskService *services.ClassroomTaskService, logger zerolog.Logger) *ClassroomTaskController {
	return &ClassroomTaskController{
		taskService: taskService,
		logger:      logger,
	}
}

// CreateTask creates an assignment in a classroom
// @Summary Create classroom task
// @Tags classroom-tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Classroom ID"
// @Param request body dto.ClassroomTaskRequest true "Task fields"
// @Success 201 {object} dto.APIResponse{data=dto.ClassroomTaskResponse}
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Router /classrooms/{id}/tasks [post]
func (c *ClassroomTaskController) CreateTask(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	classroomID, err := parseIDParam(ctx, "id")
	if err != nil {
		return
	}

	var req dto.ClassroomTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.taskService.CreateTask(ctx.Request.Context(), classroomID, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// ListTasks lists a classroom's assignments
// @Summary List classroom tasks
// @Tags classroom-tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Classroom ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.ClassroomTaskResponse}
// @Router /classrooms/{id}/tasks [get]
func (c *ClassroomTaskController) ListTasks(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	classroomID, err := parseIDParam(ctx, "id")
	if err != nil {
		return
	}

	resp, err := c.taskService.ListTasks(ctx.Request.Context(), classroomID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetTask retrieves one assignment with attachments
// @Summary Get classroom task
// @Tags classroom-tasks
// @Produce json
// @Security BearerAuth
// @Param taskId path int true "Classroom task ID"
// @Success 200 {object} dto.APIResponse{data=dto.ClassroomTaskResponse}
// @Router /classroom-tasks/{taskId} [get]
func (c *ClassroomTaskController) GetTask(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	taskID, err := parseIDParam(ctx, "taskId")
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

// UpdateTask replaces the mutable fields of an assignment
// @Summary Update classroom task
// @Tags classroom-tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param taskId path int true "Classroom task ID"
// @Param request body dto.ClassroomTaskRequest true "Task fields"
// @Success 200 {object} dto.APIResponse{data=dto.ClassroomTaskResponse}
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Router /classroom-tasks/{taskId} [put]
func (c *ClassroomTaskController) UpdateTask(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	taskID, err := parseIDParam(ctx, "taskId")
	if err != nil {
		return
	}

	var req dto.ClassroomTaskRequest
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

// DeleteTask removes an assignment and its attachments
// @Summary Delete classroom task
// @Tags classroom-tasks
// @Produce json
// @Security BearerAuth
// @Param taskId path int true "Classroom task ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Router /classroom-tasks/{taskId} [delete]
func (c *ClassroomTaskController) DeleteTask(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	taskID, err := parseIDParam(ctx, "taskId")
	if err != nil {
		return
	}

	if err := c.taskService.DeleteTask(ctx.Request.Context(), taskID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Task deleted"}))
}

// AttachFile uploads an attachment for an assignment
// @Summary Attach file to classroom task
// @Tags classroom-tasks
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param taskId path int true "Classroom task ID"
// @Param file formData file true "Attachment"
// @Success 201 {object} dto.APIResponse{data=dto.FileResponse}
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Router /classroom-tasks/{taskId}/files [post]
func (c *ClassroomTaskController) AttachFile(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	taskID, err := parseIDParam(ctx, "taskId")
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

// RemoveFile deletes an attachment
// @Summary Remove file from classroom task
// @Tags classroom-tasks
// @Produce json
// @Security BearerAuth
// @Param taskId path int true "Classroom task ID"
// @Param fileId path int true "File ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Router /classroom-tasks/{taskId}/files/{fileId} [delete]
func (c *ClassroomTaskController) RemoveFile(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	taskID, err := parseIDParam(ctx, "taskId")
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
