package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/taskroom/internal/app/models/dto"
	"github.com/yigit/taskroom/internal/app/services"
	"github.com/yigit/taskroom/internal/middleware"
)

// ClassroomController handles classroom lifecycle and membership endpoints
type ClassroomController struct {
	classroomService *services.ClassroomService
	logger           zerolog.Logger
}

// NewClassroomController creates a new ClassroomController
func NewClassroomController(classroomService *services.ClassroomService, logger zerolog.Logger) *ClassroomController {
	return &ClassroomController{
		classroomService: classroomService,
		logger:           logger,
	}
}

// CreateClassroom creates a classroom owned by the requesting teacher
// @Summary Create classroom
// @Tags classrooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateClassroomRequest true "Classroom name"
// @Success 201 {object} dto.APIResponse{data=dto.ClassroomResponse}
// @Failure 403 {object} dto.ErrorResponse "Requires the TEACHER role"
// @Router /classrooms [post]
func (c *ClassroomController) CreateClassroom(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	var req dto.CreateClassroomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.classroomService.CreateClassroom(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// GetClassroom retrieves a classroom visible to the requester
// @Summary Get classroom
// @Tags classrooms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Classroom ID"
// @Success 200 {object} dto.APIResponse{data=dto.ClassroomResponse}
// @Failure 404 {object} dto.ErrorResponse "Classroom not found"
// @Router /classrooms/{id} [get]
func (c *ClassroomController) GetClassroom(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	classroomID, err := parseIDParam(ctx, "id")
	if err != nil {
		return
	}

	resp, err := c.classroomService.GetClassroom(ctx.Request.Context(), classroomID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// ListOwnedClassrooms lists classrooms the requester teaches
// @Summary List owned classrooms
// @Tags classrooms
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ClassroomResponse}
// @Router /classrooms/owned [get]
func (c *ClassroomController) ListOwnedClassrooms(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	resp, err := c.classroomService.ListOwnedClassrooms(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// ListJoinedClassrooms lists classrooms the requester has joined
// @Summary List joined classrooms
// @Tags classrooms
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ClassroomResponse}
// @Router /classrooms/joined [get]
func (c *ClassroomController) ListJoinedClassrooms(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	resp, err := c.classroomService.ListJoinedClassrooms(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// UpdateClassroom renames a classroom
// @Summary Rename classroom
// @Tags classrooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Classroom ID"
// @Param request body dto.UpdateClassroomRequest true "New name"
// @Success 200 {object} dto.APIResponse{data=dto.ClassroomResponse}
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Router /classrooms/{id} [put]
func (c *ClassroomController) UpdateClassroom(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	classroomID, err := parseIDParam(ctx, "id")
	if err != nil {
		return
	}

	var req dto.UpdateClassroomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.classroomService.UpdateClassroom(ctx.Request.Context(), classroomID, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// RegenerateJoinCode replaces a classroom's join code
// @Summary Regenerate join code
// @Description Invalidates the current join code and issues a new one. Existing members keep their membership.
// @Tags classrooms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Classroom ID"
// @Success 200 {object} dto.APIResponse{data=dto.ClassroomResponse}
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Router /classrooms/{id}/code [post]
func (c *ClassroomController) RegenerateJoinCode(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	classroomID, err := parseIDParam(ctx, "id")
	if err != nil {
		return
	}

	resp, err := c.classroomService.RegenerateJoinCode(ctx.Request.Context(), classroomID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// DeleteClassroom removes a classroom and its canonical tasks
// @Summary Delete classroom
// @Description Deletes the classroom. Student task copies remain until their next sync.
// @Tags classrooms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Classroom ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Router /classrooms/{id} [delete]
func (c *ClassroomController) DeleteClassroom(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	classroomID, err := parseIDParam(ctx, "id")
	if err != nil {
		return
	}

	if err := c.classroomService.DeleteClassroom(ctx.Request.Context(), classroomID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Classroom deleted"}))
}

// JoinClassroom enrolls the requester via join code
// @Summary Join classroom by code
// @Tags classrooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.JoinClassroomRequest true "6-character join code"
// @Success 200 {object} dto.APIResponse{data=dto.ClassroomResponse}
// @Failure 404 {object} dto.ErrorResponse "No classroom matches this code"
// @Failure 400 {object} dto.ErrorResponse "Owner cannot join own classroom"
// @Router /classrooms/join [post]
func (c *ClassroomController) JoinClassroom(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	var req dto.JoinClassroomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.classroomService.JoinClassroom(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// LeaveClassroom removes the requester's membership
// @Summary Leave classroom
// @Description Leaves the classroom. Existing task copies remain until the next sync.
// @Tags classrooms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Classroom ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Router /classrooms/{id}/leave [post]
func (c *ClassroomController) LeaveClassroom(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	classroomID, err := parseIDParam(ctx, "id")
	if err != nil {
		return
	}

	if err := c.classroomService.LeaveClassroom(ctx.Request.Context(), classroomID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Left classroom"}))
}

// ListStudents lists a classroom's members for its owner
// @Summary List classroom students
// @Tags classrooms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Classroom ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.ClassroomStudentResponse}
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Router /classrooms/{id}/students [get]
func (c *ClassroomController) ListStudents(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	classroomID, err := parseIDParam(ctx, "id")
	if err != nil {
		return
	}

	resp, err := c.classroomService.ListStudents(ctx.Request.Context(), classroomID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// RemoveStudent removes a member from the classroom
// @Summary Remove student from classroom
// @Tags classrooms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Classroom ID"
// @Param studentId path int true "Student user ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Router /classrooms/{id}/students/{studentId} [delete]
func (c *ClassroomController) RemoveStudent(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	classroomID, err := parseIDParam(ctx, "id")
	if err != nil {
		return
	}
	studentID, err := parseIDParam(ctx, "studentId")
	if err != nil {
		return
	}

	if err := c.classroomService.RemoveStudent(ctx.Request.Context(), classroomID, userID, studentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Student removed"}))
}

// parseIDParam parses a numeric path parameter, writing a 400 response on
// failure. Callers must return immediately when an error comes back.
func parseIDParam(ctx *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid path parameter").
			WithField(name)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, strconv.ErrSyntax
	}
	return id, nil
}

func respondUnauthorized(ctx *gin.Context) {
	ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
}
