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
	"github.com/yigit/taskroom/internal/pkg/logger"
)

var fileColumns = []string{
	"id", "file_name", "file_path", "file_url", "file_size", "file_type",
	"uploaded_by", "created_at",
}

// FileRepository handles file metadata database operations
type FileRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewFileRepository creates a new FileRepository
func NewFileRepository(db *pgxpool.Pool) *FileRepository {
	return &FileRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanFile(row pgx.Row) (*models.File, error) {
	var f models.File
	err := row.Scan(
		&f.ID, &f.FileName, &f.FilePath, &f.FileURL, &f.FileSize, &f.FileType,
		&f.UploadedBy, &f.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFileNotFound
		}
		logger.Error().Err(err).Msg("Error scanning file row")
		return nil, err
	}
	return &f, nil
}

// CreateFile inserts file metadata and returns its ID
func (r *FileRepository) CreateFile(ctx context.Context, file *models.File) (int64, error) {
	sql, args, err := r.sb.Insert("files").
		Columns("file_name", "file_path", "file_url", "file_size", "file_type", "uploaded_by").
		Values(file.FileName, file.FilePath, file.FileURL, file.FileSize, file.FileType, file.UploadedBy).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create file query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		logger.Error().Err(err).Str("fileName", file.FileName).Msg("Error executing create file query")
		return 0, fmt.Errorf("error creating file record: %w", err)
	}

	return id, nil
}

// GetFileByID retrieves file metadata by ID
func (r *FileRepository) GetFileByID(ctx context.Context, id int64) (*models.File, error) {
	sql, args, err := r.sb.Select(fileColumns...).
		From("files").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get file query: %w", err)
	}

	return scanFile(r.db.QueryRow(ctx, sql, args...))
}

// DeleteFile removes file metadata by ID. Link table rows cascade.
func (r *FileRepository) DeleteFile(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("files").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete file query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("fileID", id).Msg("Error executing delete file query")
		return fmt.Errorf("error deleting file record: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrFileNotFound
	}
	return nil
}

// AddClassroomTaskFile links a file to a canonical classroom task
func (r *FileRepository) AddClassroomTaskFile(ctx context.Context, classroomTaskID, fileID int64) error {
	sql, args, err := r.sb.Insert("classroom_task_files").
		Columns("classroom_task_id", "file_id").
		Values(classroomTaskID, fileID).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build add classroom task file query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("classroomTaskID", classroomTaskID).Int64("fileID", fileID).Msg("Error linking file to classroom task")
		return fmt.Errorf("error linking file to classroom task: %w", err)
	}
	return nil
}

// GetFilesByClassroomTask retrieves all files attached to a canonical task
func (r *FileRepository) GetFilesByClassroomTask(ctx context.Context, classroomTaskID int64) ([]*models.File, error) {
	cols := make([]string, 0, len(fileColumns))
	for _, c := range fileColumns {
		cols = append(cols, "f."+c)
	}

	sql, args, err := r.sb.Select(cols...).
		From("files f").
		Join("classroom_task_files ctf ON ctf.file_id = f.id").
		Where(squirrel.Eq{"ctf.classroom_task_id": classroomTaskID}).
		OrderBy("f.created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get classroom task files query: %w", err)
	}

	return r.queryFiles(ctx, sql, args)
}

// AddTaskFile links a file to a personal task
func (r *FileRepository) AddTaskFile(ctx context.Context, taskID, fileID int64) error {
	sql, args, err := r.sb.Insert("task_files").
		Columns("task_id", "file_id").
		Values(taskID, fileID).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build add task file query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("taskID", taskID).Int64("fileID", fileID).Msg("Error linking file to task")
		return fmt.Errorf("error linking file to task: %w", err)
	}
	return nil
}

// GetFilesByTask retrieves all files attached to a personal task
func (r *FileRepository) GetFilesByTask(ctx context.Context, taskID int64) ([]*models.File, error) {
	cols := make([]string, 0, len(fileColumns))
	for _, c := range fileColumns {
		cols = append(cols, "f."+c)
	}

	sql, args, err := r.sb.Select(cols...).
		From("files f").
		Join("task_files tf ON tf.file_id = f.id").
		Where(squirrel.Eq{"tf.task_id": taskID}).
		OrderBy("f.created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get task files query: %w", err)
	}

	return r.queryFiles(ctx, sql, args)
}

func (r *FileRepository) queryFiles(ctx context.Context, sql string, args []interface{}) ([]*models.File, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing files query")
		return nil, fmt.Errorf("error listing files: %w", err)
	}
	defer rows.Close()

	files := make([]*models.File, 0)
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}

	return files, nil
}
