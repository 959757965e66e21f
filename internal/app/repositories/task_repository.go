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
	"github.com/yigit/taskroom/internal/app/models/dto"
	"github.com/yigit/taskroom/internal/pkg/apperrors"
	"github.com/yigit/taskroom/internal/pkg/helpers"
	"github.com/yigit/taskroom/internal/pkg/logger"
)

var taskColumns = []string{
	"id", "user_id", "task_name", "description", "category", "priority_level",
	"dead_line", "is_finished", "classroom_id", "classroom_task_id",
	"created_at", "updated_at",
}

// TaskRepository handles database operations for personal tasks,
// including the classroom task copies owned by students.
type TaskRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanTask(row pgx.Row) (*models.Task, error) {
	var t models.Task
	err := row.Scan(
		&t.ID, &t.UserID, &t.TaskName, &t.Description, &t.Category, &t.PriorityLevel,
		&t.DeadLine, &t.IsFinished, &t.ClassroomID, &t.ClassroomTaskID,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTaskNotFound
		}
		logger.Error().Err(err).Msg("Error scanning task row")
		return nil, err
	}
	return &t, nil
}

// CreateTask inserts a new task and returns its ID
func (r *TaskRepository) CreateTask(ctx context.Context, task *models.Task) (int64, error) {
	sql, args, err := r.sb.Insert("tasks").
		Columns("user_id", "task_name", "description", "category", "priority_level",
			"dead_line", "is_finished", "classroom_id", "classroom_task_id").
		Values(task.UserID, task.TaskName, task.Description, task.Category, task.PriorityLevel,
			task.DeadLine, task.IsFinished, task.ClassroomID, task.ClassroomTaskID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create task SQL")
		return 0, fmt.Errorf("failed to build create task query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		logger.Error().Err(err).Int64("userID", task.UserID).Msg("Error executing create task query")
		return 0, fmt.Errorf("error creating task: %w", err)
	}

	return id, nil
}

// GetTaskByID retrieves a task by its ID
func (r *TaskRepository) GetTaskByID(ctx context.Context, id int64) (*models.Task, error) {
	sql, args, err := r.sb.Select(taskColumns...).
		From("tasks").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get task query: %w", err)
	}

	return scanTask(r.db.QueryRow(ctx, sql, args...))
}

// GetTasksByUser retrieves a paginated and filtered list of a user's tasks
func (r *TaskRepository) GetTasksByUser(ctx context.Context, userID int64, filter dto.TaskListFilter) ([]*models.Task, dto.PaginationInfo, error) {
	base := r.sb.Select(taskColumns...).From("tasks").Where(squirrel.Eq{"user_id": userID})
	countBuilder := r.sb.Select("count(*)").From("tasks").Where(squirrel.Eq{"user_id": userID})

	if filter.Category != nil && *filter.Category != "" {
		base = base.Where(squirrel.Eq{"category": *filter.Category})
		countBuilder = countBuilder.Where(squirrel.Eq{"category": *filter.Category})
	}
	if filter.IsFinished != nil {
		base = base.Where(squirrel.Eq{"is_finished": *filter.IsFinished})
		countBuilder = countBuilder.Where(squirrel.Eq{"is_finished": *filter.IsFinished})
	}
	if filter.DeadlineFrom != nil {
		base = base.Where(squirrel.GtOrEq{"dead_line": *filter.DeadlineFrom})
		countBuilder = countBuilder.Where(squirrel.GtOrEq{"dead_line": *filter.DeadlineFrom})
	}
	if filter.DeadlineTo != nil {
		base = base.Where(squirrel.LtOrEq{"dead_line": *filter.DeadlineTo})
		countBuilder = countBuilder.Where(squirrel.LtOrEq{"dead_line": *filter.DeadlineTo})
	}

	countSql, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, dto.PaginationInfo{}, fmt.Errorf("failed to build count tasks query: %w", err)
	}

	var totalItems int64
	if err := r.db.QueryRow(ctx, countSql, countArgs...).Scan(&totalItems); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing count tasks query")
		return nil, dto.PaginationInfo{}, fmt.Errorf("error counting tasks: %w", err)
	}

	pagination := helpers.NewPaginationInfo(totalItems, filter.Page, filter.PageSize)
	if totalItems == 0 {
		return []*models.Task{}, pagination, nil
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.PageSize)
	base = base.OrderBy("created_at DESC").Limit(uint64(limit)).Offset(offset)

	sqlStr, args, err := base.ToSql()
	if err != nil {
		return nil, dto.PaginationInfo{}, fmt.Errorf("failed to build list tasks query: %w", err)
	}

	tasks, err := r.queryTasks(ctx, sqlStr, args)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	return tasks, pagination, nil
}

// GetClassroomCopies retrieves all of a user's classroom task copies.
// The sync routine diffs these against the canonical classroom tasks.
func (r *TaskRepository) GetClassroomCopies(ctx context.Context, userID int64) ([]*models.Task, error) {
	sql, args, err := r.sb.Select(taskColumns...).
		From("tasks").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.NotEq{"classroom_id": nil}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get classroom copies query: %w", err)
	}

	return r.queryTasks(ctx, sql, args)
}

func (r *TaskRepository) queryTasks(ctx context.Context, sql string, args []interface{}) ([]*models.Task, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing tasks query")
		return nil, fmt.Errorf("error listing tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
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

// UpdateTaskColumns applies a partial update of the given columns.
// The column map must not be empty.
func (r *TaskRepository) UpdateTaskColumns(ctx context.Context, taskID int64, columns map[string]interface{}) error {
	builder := r.sb.Update("tasks").Set("updated_at", time.Now())
	for col, val := range columns {
		builder = builder.Set(col, val)
	}

	sql, args, err := builder.Where(squirrel.Eq{"id": taskID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update task query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("taskID", taskID).Msg("Error executing update task query")
		return fmt.Errorf("error updating task: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}

// DeleteTask removes a task by its ID
func (r *TaskRepository) DeleteTask(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("tasks").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete task query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("taskID", id).Msg("Error executing delete task query")
		return fmt.Errorf("error deleting task: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}

// ClearCategory blanks the category on a user's tasks that reference it.
// Called when the category itself is deleted.
func (r *TaskRepository) ClearCategory(ctx context.Context, userID int64, category string) (int64, error) {
	sql, args, err := r.sb.Update("tasks").
		Set("category", "").
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"user_id": userID, "category": category}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build clear category query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Str("category", category).Msg("Error executing clear category query")
		return 0, fmt.Errorf("error clearing task category: %w", err)
	}

	return cmdTag.RowsAffected(), nil
}

// DeleteClassroomCopies removes a user's task copies for one classroom.
// Called when the student leaves or is removed from the classroom.
func (r *TaskRepository) DeleteClassroomCopies(ctx context.Context, userID, classroomID int64) (int64, error) {
	sql, args, err := r.sb.Delete("tasks").
		Where(squirrel.Eq{"user_id": userID, "classroom_id": classroomID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete classroom copies query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Int64("classroomID", classroomID).Msg("Error executing delete classroom copies query")
		return 0, fmt.Errorf("error deleting classroom task copies: %w", err)
	}

	return cmdTag.RowsAffected(), nil
}

// --- Transactional variants used by the sync routine ---

// CreateTaskTx inserts a task within an existing transaction
func (r *TaskRepository) CreateTaskTx(ctx context.Context, tx pgx.Tx, task *models.Task) (int64, error) {
	sql, args, err := r.sb.Insert("tasks").
		Columns("user_id", "task_name", "description", "category", "priority_level",
			"dead_line", "is_finished", "classroom_id", "classroom_task_id").
		Values(task.UserID, task.TaskName, task.Description, task.Category, task.PriorityLevel,
			task.DeadLine, task.IsFinished, task.ClassroomID, task.ClassroomTaskID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create task query: %w", err)
	}

	var id int64
	if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("error creating task in transaction: %w", err)
	}
	return id, nil
}

// UpdateTaskColumnsTx applies a partial update within an existing transaction
func (r *TaskRepository) UpdateTaskColumnsTx(ctx context.Context, tx pgx.Tx, taskID int64, columns map[string]interface{}) error {
	builder := r.sb.Update("tasks").Set("updated_at", time.Now())
	for col, val := range columns {
		builder = builder.Set(col, val)
	}

	sql, args, err := builder.Where(squirrel.Eq{"id": taskID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update task query: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating task in transaction: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}

// DeleteTasksTx removes the given tasks within an existing transaction
func (r *TaskRepository) DeleteTasksTx(ctx context.Context, tx pgx.Tx, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	sql, args, err := r.sb.Delete("tasks").
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete tasks query: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error deleting tasks in transaction: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
