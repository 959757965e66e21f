package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	appModels "github.com/yigit/taskroom/internal/app/models"
	appRepos "github.com/yigit/taskroom/internal/app/repositories"
)

// CreateDefaultData creates a default teacher account on first startup so the
// API is usable immediately after a fresh deployment.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)

	const defaultTeacherEmail = "teacher@taskroom.app"

	exists, err := userRepo.EmailExists(ctx, defaultTeacherEmail)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if default teacher exists")
		return err
	}
	if exists {
		lgr.Info().Msg("Default teacher account already exists, skipping creation")
		return nil
	}

	lgr.Info().Msg("Creating default teacher account...")

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("Teacher123!"), bcrypt.DefaultCost)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing default teacher password")
		return err
	}

	teacher := &appModels.User{
		Email:       defaultTeacherEmail,
		Password:    string(hashedPassword),
		DisplayName: "Default Teacher",
		Role:        appModels.RoleTeacher,
		IsActive:    true,
	}

	teacherID, err := userRepo.CreateUser(ctx, teacher)
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating default teacher account")
		return errors.Join(errors.New("failed to seed default teacher"), err)
	}

	lgr.Info().Int64("teacherID", teacherID).Msg("Default teacher account created")
	return nil
}
