package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/taskroom/internal/app/models"
	"github.com/yigit/taskroom/internal/pkg/apperrors"
	"github.com/yigit/taskroom/internal/pkg/dberrors"
	"github.com/yigit/taskroom/internal/pkg/logger"
)

// CategoryRepository handles database operations for per-user task categories
type CategoryRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanCategory(row pgx.Row) (*models.Category, error) {
	var c models.Category
	err := row.Scan(&c.ID, &c.UserID, &c.CategoryName, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCategoryNotFound
		}
		logger.Error().Err(err).Msg("Error scanning category row")
		return nil, err
	}
	return &c, nil
}

// CreateCategory inserts a new category and returns its ID.
// Category names are unique per user.
func (r *CategoryRepository) CreateCategory(ctx context.Context, category *models.Category) (int64, error) {
	sql, args, err := r.sb.Insert("categories").
		Columns("user_id", "category_name").
		Values(category.UserID, category.CategoryName).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create category query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "categories_user_id_category_name_key") {
			return 0, apperrors.ErrCategoryAlreadyExists
		}
		logger.Error().Err(err).Int64("userID", category.UserID).Msg("Error executing create category query")
		return 0, fmt.Errorf("error creating category: %w", err)
	}

	return id, nil
}

// GetCategoryByID retrieves a category by its ID
func (r *CategoryRepository) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	sql, args, err := r.sb.Select("id", "user_id", "category_name", "created_at").
		From("categories").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get category query: %w", err)
	}

	return scanCategory(r.db.QueryRow(ctx, sql, args...))
}

// GetCategoriesByUser retrieves all categories belonging to a user
func (r *CategoryRepository) GetCategoriesByUser(ctx context.Context, userID int64) ([]*models.Category, error) {
	sql, args, err := r.sb.Select("id", "user_id", "category_name", "created_at").
		From("categories").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("category_name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get categories query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing get categories query")
		return nil, fmt.Errorf("error listing categories: %w", err)
	}
	defer rows.Close()

	categories := make([]*models.Category, 0)
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}

	return categories, nil
}

// DeleteCategory removes a category by its ID
func (r *CategoryRepository) DeleteCategory(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("categories").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete category query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("categoryID", id).Msg("Error executing delete category query")
		return fmt.Errorf("error deleting category: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}
