package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yigit/taskroom/internal/app/models"
	"github.com/yigit/taskroom/internal/app/models/dto"
	"github.com/yigit/taskroom/internal/app/repositories"
	"github.com/yigit/taskroom/internal/pkg/apperrors"
)

// CategoryService handles per-user task categories
type CategoryService struct {
	categoryRepo *repositories.CategoryRepository
	taskRepo     *repositories.TaskRepository
	logger       zerolog.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(
	categoryRepo *repositories.CategoryRepository,
	taskRepo *repositories.TaskRepository,
	logger zerolog.Logger,
) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		taskRepo:     taskRepo,
		logger:       logger,
	}
}

// CreateCategory creates a category for the user
func (s *CategoryService) CreateCategory(ctx context.Context, userID int64, req *dto.CategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(req.CategoryName)
	if name == "" {
		return nil, apperrors.ErrValidationFailed
	}

	category := &models.Category{
		UserID:       userID,
		CategoryName: name,
	}

	id, err := s.categoryRepo.CreateCategory(ctx, category)
	if err != nil {
		return nil, err
	}

	return &dto.CategoryResponse{ID: id, CategoryName: name}, nil
}

// ListCategories retrieves all of the user's categories
func (s *CategoryService) ListCategories(ctx context.Context, userID int64) ([]dto.CategoryResponse, error) {
	categories, err := s.categoryRepo.GetCategoriesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		responses = append(responses, dto.CategoryResponse{
			ID:           category.ID,
			CategoryName: category.CategoryName,
		})
	}

	return responses, nil
}

// DeleteCategory removes a category. Tasks referencing it keep existing
// with a blank category rather than being deleted.
func (s *CategoryService) DeleteCategory(ctx context.Context, categoryID, userID int64) error {
	category, err := s.categoryRepo.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if category.UserID != userID {
		return apperrors.ErrCategoryNotFound
	}

	if err := s.categoryRepo.DeleteCategory(ctx, categoryID); err != nil {
		return err
	}

	cleared, err := s.taskRepo.ClearCategory(ctx, userID, category.CategoryName)
	if err != nil {
		return err
	}

	s.logger.Info().Int64("userID", userID).Str("category", category.CategoryName).Int64("tasksCleared", cleared).Msg("Category deleted")
	return nil
}
