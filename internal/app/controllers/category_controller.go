package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/taskroom/internal/app/models/dto"
	"github.com/yigit/taskroom/internal/app/services"
	"github.com/yigit/taskroom/internal/middleware"
)

// CategoryController handles task category endpoints
type CategoryController struct {
	categoryService *services.CategoryService
	logger          zerolog.Logger
}

// NewCategoryController creates a new CategoryController
func NewCategoryController(categoryService *services.CategoryService, logger zerolog.Logger) *CategoryController {
	return &CategoryController{
		categoryService: categoryService,
		logger:          logger,
	}
}

// CreateCategory creates a category for the requester
// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CategoryRequest true "Category name"
// @Success 201 {object} dto.APIResponse{data=dto.CategoryResponse}
// @Failure 409 {object} dto.ErrorResponse "Category already exists"
// @Router /categories [post]
func (c *CategoryController) CreateCategory(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	var req dto.CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.categoryService.CreateCategory(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// ListCategories lists the requester's categories
// @Summary List categories
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.CategoryResponse}
// @Router /categories [get]
func (c *CategoryController) ListCategories(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	resp, err := c.categoryService.ListCategories(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// DeleteCategory removes a category, blanking it on tasks that used it
// @Summary Delete category
// @Description Deletes the category. Tasks that referenced it keep existing with an empty category.
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse "Category not found"
// @Router /categories/{id} [delete]
func (c *CategoryController) DeleteCategory(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	categoryID, err := parseIDParam(ctx, "id")
	if err != nil {
		return
	}

	if err := c.categoryService.DeleteCategory(ctx.Request.Context(), categoryID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Category deleted"}))
}
