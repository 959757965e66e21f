package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/taskroom/internal/app/controllers"
	appMigrations "github.com/yigit/taskroom/internal/app/migrations"
	appRepos "github.com/yigit/taskroom/internal/app/repositories"
	appRoutes "github.com/yigit/taskroom/internal/app/routes"
	appServices "github.com/yigit/taskroom/internal/app/services"
	"github.com/yigit/taskroom/internal/config"
	"github.com/yigit/taskroom/internal/db"
	appMiddleware "github.com/yigit/taskroom/internal/middleware"
	pkgAuth "github.com/yigit/taskroom/internal/pkg/auth"
	"github.com/yigit/taskroom/internal/pkg/filestorage"
	"github.com/yigit/taskroom/internal/pkg/helpers"
	"github.com/yigit/taskroom/internal/pkg/logger"
	"github.com/yigit/taskroom/internal/pkg/syncguard"
	"github.com/yigit/taskroom/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService          *appServices.AuthService
	IdentityService      *appServices.IdentityService
	ClassroomService     *appServices.ClassroomService
	ClassroomTaskService *appServices.ClassroomTaskService
	TaskService          *appServices.TaskService
	CategoryService      *appServices.CategoryService
	SyncService          *appServices.SyncService

	AuthController          *appControllers.AuthController
	ClassroomController     *appControllers.ClassroomController
	ClassroomTaskController *appControllers.ClassroomTaskController
	TaskController          *appControllers.TaskController
	CategoryController      *appControllers.CategoryController
	SyncController          *appControllers.SyncController

	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	Logger         zerolog.Logger
	FileStorage    *filestorage.LocalStorage
	RedisClient    *redis.Client
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Log the error but don't fail the startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// SetupRedis establishes the Redis connection used for sync locking.
func SetupRedis(cfg *config.Config, lgr zerolog.Logger) (*redis.Client, error) {
	lgr.Info().Str("addr", cfg.GetRedisAddr()).Msg("Establishing Redis connection...")
	client, err := db.NewRedisClient(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to Redis")
		return nil, err
	}
	lgr.Info().Msg("Redis connection successfully established.")
	return client, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, redisClient *redis.Client, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, RedisClient: redisClient}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	guard := syncguard.NewGuard(redisClient, helpers.ParseDuration(cfg.Sync.LockTTL, 30*time.Second))

	// Services
	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
		lgr,
	)
	googleVerifier := pkgAuth.NewGoogleIDTokenVerifier(cfg.Google.ClientID)
	deps.IdentityService = appServices.NewIdentityService(deps.Repos.UserRepository, deps.AuthService, googleVerifier, lgr)
	deps.ClassroomService = appServices.NewClassroomService(deps.Repos.ClassroomRepository, deps.Repos.UserRepository, deps.Repos.TaskRepository, lgr)
	deps.ClassroomTaskService = appServices.NewClassroomTaskService(
		deps.Repos.ClassroomRepository,
		deps.Repos.ClassroomTaskRepository,
		deps.Repos.FileRepository,
		deps.FileStorage,
		lgr,
	)
	deps.TaskService = appServices.NewTaskService(deps.Repos.TaskRepository, deps.Repos.FileRepository, deps.FileStorage, lgr)
	deps.CategoryService = appServices.NewCategoryService(deps.Repos.CategoryRepository, deps.Repos.TaskRepository, lgr)
	deps.SyncService = appServices.NewSyncService(
		database,
		deps.Repos.ClassroomRepository,
		deps.Repos.ClassroomTaskRepository,
		deps.Repos.TaskRepository,
		guard,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	// Controllers
	deps.AuthController = appControllers.NewAuthController(deps.AuthService, deps.IdentityService, lgr)
	deps.ClassroomController = appControllers.NewClassroomController(deps.ClassroomService, lgr)
	deps.ClassroomTaskController = appControllers.NewClassroomTaskController(deps.ClassroomTaskService, lgr)
	deps.TaskController = appControllers.NewTaskController(deps.TaskService, lgr)
	deps.CategoryController = appControllers.NewCategoryController(deps.CategoryService, lgr)
	deps.SyncController = appControllers.NewSyncController(deps.SyncService, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	appRoutes.SetupSwagger(router)

	// Attachments are served as static files under the storage base URL
	router.Static(cfg.Storage.BaseURL, cfg.Storage.BasePath)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.ClassroomController,
		deps.ClassroomTaskController,
		deps.TaskController,
		deps.CategoryController,
		deps.SyncController,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
