package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/taskroom/internal/app/models"
	"github.com/yigit/taskroom/internal/pkg/apperrors"
	"github.com/yigit/taskroom/internal/pkg/dberrors"
	"github.com/yigit/taskroom/internal/pkg/logger"
)

var classroomTaskColumns = []string{
	"id", "classroom_id", "task_name", "description", "dead_line",
	"category", "created_by", "created_at", "updated_at",
}

// ClassroomTaskRepository handles database operations for canonical classroom tasks
type ClassroomTaskRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewClassroomTaskRepository creates a new ClassroomTaskRepository
func NewClassroomTaskRepository(db *pgxpool.Pool) *ClassroomTaskRepository {
	return &ClassroomTaskRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanClassroomTask(row pgx.Row) (*models.ClassroomTask, error) {
	var t models.ClassroomTask
	err := row.Scan(
		&t.ID, &t.ClassroomID, &t.TaskName, &t.Description, &t.DeadLine,
		&t.Category, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrClassroomTaskNotFound
		}
		logger.Error().Err(err).Msg("Error scanning classroom task row")
		return nil, err
	}
	return &t, nil
}

// CreateClassroomTask inserts a new canonical task and returns its ID
func (r *ClassroomTaskRepository) CreateClassroomTask(ctx context.Context, task *models.ClassroomTask) (int64, error) {
	sql, args, err := r.sb.Insert("classroom_tasks").
		Columns("classroom_id", "task_name", "description", "dead_line", "category", "created_by").
		Values(task.ClassroomID, task.TaskName, task.Description, task.DeadLine, task.Category, task.CreatedBy).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create classroom task SQL")
		return 0, fmt.Errorf("failed to build create classroom task query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrClassroomNotFound
		}
		logger.Error().Err(err).Int64("classroomID", task.ClassroomID).Msg("Error executing create classroom task query")
		return 0, fmt.Errorf("error creating classroom task: %w", err)
	}

	return id, nil
}

// GetClassroomTaskByID retrieves a canonical task by its ID
func (r *ClassroomTaskRepository) GetClassroomTaskByID(ctx context.Context, id int64) (*models.ClassroomTask, error) {
	sql, args, err := r.sb.Select(classroomTaskColumns...).
		From("classroom_tasks").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get classroom task query: %w", err)
	}

	return scanClassroomTask(r.db.QueryRow(ctx, sql, args...))
}

// GetTasksByClassroom retrieves all canonical tasks of a classroom,
// newest first.
func (r *ClassroomTaskRepository) GetTasksByClassroom(ctx context.Context, classroomID int64) ([]*models.ClassroomTask, error) {
	sql, args, err := r.sb.Select(classroomTaskColumns...).
		From("classroom_tasks").
		Where(squirrel.Eq{"classroom_id": classroomID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get tasks by classroom query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("classroomID", classroomID).Msg("Error executing get tasks by classroom query")
		return nil, fmt.Errorf("error listing classroom tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*models.ClassroomTask, 0)
	for rows.Next() {
		task, err := scanClassroomTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}

	return tasks, nil
}

// UpdateClassroomTask updates a canonical task
func (r *ClassroomTaskRepository) UpdateClassroomTask(ctx context.Context, task *models.ClassroomTask) error {
	sql, args, err := r.sb.Update("classroom_tasks").
		Set("task_name", task.TaskName).
		Set("description", task.Description).
		Set("dead_line", task.DeadLine).
		Set("category", task.Category).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": task.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update classroom task query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("taskID", task.ID).Msg("Error executing update classroom task query")
		return fmt.Errorf("error updating classroom task: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrClassroomTaskNotFound
	}
	return nil
}

// DeleteClassroomTask removes a canonical task
func (r *ClassroomTaskRepository) DeleteClassroomTask(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("classroom_tasks").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete classroom task query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("taskID", id).Msg("Error executing delete classroom task query")
		return fmt.Errorf("error deleting classroom task: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrClassroomTaskNotFound
	}
	return nil
}
