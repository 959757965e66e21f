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

// userColumns is the canonical column list for scanning user rows.
var userColumns = []string{
	"id", "email", "password", "display_name", "photo_url", "role_type",
	"is_active", "google_linked", "google_email", "google_uid",
	"original_display_name", "original_photo_url",
	"created_at", "updated_at", "last_login_at",
}

// UserRepository handles user database operations
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.PhotoURL, &u.Role,
		&u.IsActive, &u.GoogleLinked, &u.GoogleEmail, &u.GoogleUID,
		&u.OriginalDisplayName, &u.OriginalPhotoURL,
		&u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Msg("Error scanning user row")
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new user and returns its ID
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	sql, args, err := r.sb.Insert("users").
		Columns("email", "password", "display_name", "photo_url", "role_type",
			"is_active", "google_linked", "google_email", "google_uid").
		Values(user.Email, user.Password, user.DisplayName, user.PhotoURL, user.Role,
			user.IsActive, user.GoogleLinked, user.GoogleEmail, user.GoogleUID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create user SQL")
		return 0, fmt.Errorf("failed to build create user query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return 0, apperrors.ErrEmailAlreadyExists
		}
		if dberrors.IsDuplicateConstraintError(err, "users_google_uid_key") {
			return 0, apperrors.ErrGoogleIdentityInUse
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Error executing create user query")
		return 0, fmt.Errorf("error creating user: %w", err)
	}

	return id, nil
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	return scanUser(r.db.QueryRow(ctx, sql, args...))
}

// GetUserByEmail retrieves a user by email
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user by email query: %w", err)
	}

	return scanUser(r.db.QueryRow(ctx, sql, args...))
}

// GetUserByGoogleUID retrieves a user by linked Google account UID
func (r *UserRepository) GetUserByGoogleUID(ctx context.Context, googleUID string) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"google_uid": googleUID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user by google uid query: %w", err)
	}

	return scanUser(r.db.QueryRow(ctx, sql, args...))
}

// GetLinkedUserByGoogleEmail retrieves a user whose linked Google email matches.
// Only accounts with an active Google link are considered.
func (r *UserRepository) GetLinkedUserByGoogleEmail(ctx context.Context, googleEmail string) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"google_email": googleEmail, "google_linked": true}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user by google email query: %w", err)
	}

	return scanUser(r.db.QueryRow(ctx, sql, args...))
}

// EmailExists checks if an email already exists
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("users").
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build email exists query: %w", err)
	}

	var one int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error checking email existence: %w", err)
	}
	return true, nil
}

// UpdateProfile updates a user's display name and photo URL
func (r *UserRepository) UpdateProfile(ctx context.Context, userID int64, displayName string, photoURL *string) error {
	sql, args, err := r.sb.Update("users").
		Set("display_name", displayName).
		Set("photo_url", photoURL).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update profile query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing update profile query")
		return fmt.Errorf("error updating profile: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdatePassword updates a user's password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	sql, args, err := r.sb.Update("users").
		Set("password", passwordHash).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update password query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdateLastLogin updates the last login time
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID int64) error {
	sql, args, err := r.sb.Update("users").
		Set("last_login_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update last login query: %w", err)
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to update last login time")
		return fmt.Errorf("error updating last login: %w", err)
	}
	return nil
}

// LinkGoogleAccount records a Google identity link on an existing user.
// The pre-link display name and photo are preserved so an unlink can restore them.
func (r *UserRepository) LinkGoogleAccount(ctx context.Context, userID int64, googleUID, googleEmail, displayName string, photoURL *string, originalDisplayName string, originalPhotoURL *string) error {
	sql, args, err := r.sb.Update("users").
		Set("google_linked", true).
		Set("google_uid", googleUID).
		Set("google_email", googleEmail).
		Set("display_name", displayName).
		Set("photo_url", photoURL).
		Set("original_display_name", originalDisplayName).
		Set("original_photo_url", originalPhotoURL).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build link google query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_google_uid_key") {
			return apperrors.ErrGoogleIdentityInUse
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing link google query")
		return fmt.Errorf("error linking google account: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UnlinkGoogleAccount clears the Google identity fields and restores the
// user's pre-link display name and photo.
func (r *UserRepository) UnlinkGoogleAccount(ctx context.Context, userID int64, restoredDisplayName string, restoredPhotoURL *string) error {
	sql, args, err := r.sb.Update("users").
		Set("google_linked", false).
		Set("google_uid", nil).
		Set("google_email", nil).
		Set("display_name", restoredDisplayName).
		Set("photo_url", restoredPhotoURL).
		Set("original_display_name", nil).
		Set("original_photo_url", nil).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build unlink google query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing unlink google query")
		return fmt.Errorf("error unlinking google account: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// DeleteUser removes a user by ID
func (r *UserRepository) DeleteUser(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete user query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}
