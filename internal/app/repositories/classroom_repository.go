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

var classroomColumns = []string{
	"id", "name", "code", "teacher_id", "created_at", "updated_at",
}

// ClassroomRepository handles classroom database operations
type ClassroomRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewClassroomRepository creates a new ClassroomRepository
func NewClassroomRepository(db *pgxpool.Pool) *ClassroomRepository {
	return &ClassroomRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanClassroom(row pgx.Row) (*models.Classroom, error) {
	var c models.Classroom
	err := row.Scan(&c.ID, &c.Name, &c.Code, &c.TeacherID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrClassroomNotFound
		}
		logger.Error().Err(err).Msg("Error scanning classroom row")
		return nil, err
	}
	return &c, nil
}

// CreateClassroom inserts a new classroom and returns its ID
func (r *ClassroomRepository) CreateClassroom(ctx context.Context, classroom *models.Classroom) (int64, error) {
	sql, args, err := r.sb.Insert("classrooms").
		Columns("name", "code", "teacher_id").
		Values(classroom.Name, classroom.Code, classroom.TeacherID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create classroom SQL")
		return 0, fmt.Errorf("failed to build create classroom query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "classrooms_code_key") {
			// Caller retries with a fresh code
			return 0, apperrors.ErrResourceAlreadyExists
		}
		logger.Error().Err(err).Str("name", classroom.Name).Msg("Error executing create classroom query")
		return 0, fmt.Errorf("error creating classroom: %w", err)
	}

	return id, nil
}

// GetClassroomByID retrieves a classroom by its ID
func (r *ClassroomRepository) GetClassroomByID(ctx context.Context, id int64) (*models.Classroom, error) {
	sql, args, err := r.sb.Select(classroomColumns...).
		From("classrooms").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get classroom query: %w", err)
	}

	return scanClassroom(r.db.QueryRow(ctx, sql, args...))
}

// GetClassroomByCode retrieves a classroom by its join code
func (r *ClassroomRepository) GetClassroomByCode(ctx context.Context, code string) (*models.Classroom, error) {
	sql, args, err := r.sb.Select(classroomColumns...).
		From("classrooms").
		Where(squirrel.Eq{"code": code}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get classroom by code query: %w", err)
	}

	classroom, err := scanClassroom(r.db.QueryRow(ctx, sql, args...))
	if errors.Is(err, apperrors.ErrClassroomNotFound) {
		return nil, apperrors.ErrInvalidJoinCode
	}
	return classroom, err
}

// GetClassroomsByTeacher retrieves all classrooms owned by a teacher
func (r *ClassroomRepository) GetClassroomsByTeacher(ctx context.Context, teacherID int64) ([]*models.Classroom, error) {
	sql, args, err := r.sb.Select(classroomColumns...).
		From("classrooms").
		Where(squirrel.Eq{"teacher_id": teacherID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get classrooms by teacher query: %w", err)
	}

	return r.queryClassrooms(ctx, sql, args)
}

// GetClassroomsByStudent retrieves all classrooms a student has joined
func (r *ClassroomRepository) GetClassroomsByStudent(ctx context.Context, studentID int64) ([]*models.Classroom, error) {
	sql, args, err := r.sb.Select(
		"c.id", "c.name", "c.code", "c.teacher_id", "c.created_at", "c.updated_at",
	).
		From("classrooms c").
		Join("classroom_students cs ON cs.classroom_id = c.id").
		Where(squirrel.Eq{"cs.user_id": studentID}).
		OrderBy("cs.joined_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get classrooms by student query: %w", err)
	}

	return r.queryClassrooms(ctx, sql, args)
}

func (r *ClassroomRepository) queryClassrooms(ctx context.Context, sql string, args []interface{}) ([]*models.Classroom, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing classrooms query")
		return nil, fmt.Errorf("error listing classrooms: %w", err)
	}
	defer rows.Close()

	classrooms := make([]*models.Classroom, 0)
	for rows.Next() {
		classroom, err := scanClassroom(rows)
		if err != nil {
			return nil, err
		}
		classrooms = append(classrooms, classroom)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}

	return classrooms, nil
}

// UpdateClassroom updates a classroom's name
func (r *ClassroomRepository) UpdateClassroom(ctx context.Context, classroom *models.Classroom) error {
	sql, args, err := r.sb.Update("classrooms").
		Set("name", classroom.Name).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": classroom.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update classroom query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("classroomID", classroom.ID).Msg("Error executing update classroom query")
		return fmt.Errorf("error updating classroom: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrClassroomNotFound
	}
	return nil
}

// UpdateClassroomCode replaces the join code. A collision with another live
// classroom's code surfaces as ErrResourceAlreadyExists for the caller to retry.
func (r *ClassroomRepository) UpdateClassroomCode(ctx context.Context, id int64, code string) error {
	sql, args, err := r.sb.Update("classrooms").
		Set("code", code).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update classroom code query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "classrooms_code_key") {
			return apperrors.ErrResourceAlreadyExists
		}
		logger.Error().Err(err).Int64("classroomID", id).Msg("Error executing update classroom code query")
		return fmt.Errorf("error updating classroom code: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrClassroomNotFound
	}
	return nil
}

// DeleteClassroom removes a classroom. Membership rows and canonical tasks go
// with it via FK cascade; student task copies are left for sync to reconcile.
func (r *ClassroomRepository) DeleteClassroom(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("classrooms").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete classroom query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("classroomID", id).Msg("Error executing delete classroom query")
		return fmt.Errorf("error deleting classroom: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrClassroomNotFound
	}
	return nil
}

// addStudentQuery builds the membership insert. The conflict clause makes
// repeat joins a silent no-op instead of an error.
func addStudentQuery(sb squirrel.StatementBuilderType, classroomID, userID int64) (string, []interface{}, error) {
	return sb.Insert("classroom_students").
		Columns("classroom_id", "user_id").
		Values(classroomID, userID).
		Suffix("ON CONFLICT (classroom_id, user_id) DO NOTHING").
		ToSql()
}

// AddStudent adds a student to a classroom. Joining twice is a no-op.
func (r *ClassroomRepository) AddStudent(ctx context.Context, classroomID, userID int64) (bool, error) {
	sql, args, err := addStudentQuery(r.sb, classroomID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to build add student query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return false, apperrors.ErrClassroomNotFound
		}
		logger.Error().Err(err).Int64("classroomID", classroomID).Int64("userID", userID).Msg("Error executing add student query")
		return false, fmt.Errorf("error adding student to classroom: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

// RemoveStudent removes a student from a classroom
func (r *ClassroomRepository) RemoveStudent(ctx context.Context, classroomID, userID int64) error {
	sql, args, err := r.sb.Delete("classroom_students").
		Where(squirrel.Eq{"classroom_id": classroomID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build remove student query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("classroomID", classroomID).Int64("userID", userID).Msg("Error executing remove student query")
		return fmt.Errorf("error removing student from classroom: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotClassroomMember
	}
	return nil
}

// IsMember checks whether a user is enrolled in a classroom
func (r *ClassroomRepository) IsMember(ctx context.Context, classroomID, userID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("classroom_students").
		Where(squirrel.Eq{"classroom_id": classroomID, "user_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build is member query: %w", err)
	}

	var one int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error checking classroom membership: %w", err)
	}
	return true, nil
}

// ClassroomMember joins a member's user row with their enrollment time
type ClassroomMember struct {
	UserID      int64
	DisplayName string
	Email       string
	PhotoURL    *string
	JoinedAt    time.Time
}

// GetStudents retrieves all members enrolled in a classroom with their
// join times, oldest enrollment first.
func (r *ClassroomRepository) GetStudents(ctx context.Context, classroomID int64) ([]*ClassroomMember, error) {
	sql, args, err := r.sb.Select("u.id", "u.display_name", "u.email", "u.photo_url", "cs.joined_at").
		From("users u").
		Join("classroom_students cs ON cs.user_id = u.id").
		Where(squirrel.Eq{"cs.classroom_id": classroomID}).
		OrderBy("cs.joined_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("classroomID", classroomID).Msg("Error executing get students query")
		return nil, fmt.Errorf("error listing classroom students: %w", err)
	}
	defer rows.Close()

	members := make([]*ClassroomMember, 0)
	for rows.Next() {
		var m ClassroomMember
		if err := rows.Scan(&m.UserID, &m.DisplayName, &m.Email, &m.PhotoURL, &m.JoinedAt); err != nil {
			logger.Error().Err(err).Msg("Error scanning classroom member row")
			return nil, err
		}
		members = append(members, &m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}

	return members, nil
}

// GetStudentIDs retrieves the IDs of all students enrolled in a classroom
func (r *ClassroomRepository) GetStudentIDs(ctx context.Context, classroomID int64) ([]int64, error) {
	sql, args, err := r.sb.Select("user_id").
		From("classroom_students").
		Where(squirrel.Eq{"classroom_id": classroomID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student ids query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing classroom student ids: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}

	return ids, nil
}

// GetJoinedClassroomIDs retrieves the IDs of all classrooms a user belongs to
func (r *ClassroomRepository) GetJoinedClassroomIDs(ctx context.Context, userID int64) ([]int64, error) {
	sql, args, err := r.sb.Select("classroom_id").
		From("classroom_students").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get joined classroom ids query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing joined classroom ids: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("database iteration error: %w", err)
	}

	return ids, nil
}
