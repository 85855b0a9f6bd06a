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
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/tpmanager/backend/internal/app/controllers"
	appMigrations "github.com/tpmanager/backend/internal/app/migrations"
	appRepos "github.com/tpmanager/backend/internal/app/repositories"
	appRoutes "github.com/tpmanager/backend/internal/app/routes"
	appServices "github.com/tpmanager/backend/internal/app/services"
	"github.com/tpmanager/backend/internal/config"
	"github.com/tpmanager/backend/internal/db"
	appMiddleware "github.com/tpmanager/backend/internal/middleware"
	pkgAuth "github.com/tpmanager/backend/internal/pkg/auth"
	"github.com/tpmanager/backend/internal/pkg/helpers"
	"github.com/tpmanager/backend/internal/pkg/logger"
	"github.com/tpmanager/backend/internal/pkg/validation"
	"github.com/tpmanager/backend/internal/pkg/webhook"
	"github.com/tpmanager/backend/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService          *appServices.AuthService
	TPService            *appServices.TPService
	TeamService          *appServices.TeamService
	TaskService          *appServices.TaskService
	AssignmentService    *appServices.TeamAssignmentService
	AuthController       *appControllers.AuthController
	TPController         *appControllers.TPController
	TeamController       *appControllers.TeamController
	TaskController       *appControllers.TaskController
	AssignmentController *appControllers.AssignmentController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	Repos                *appRepos.Repositories
	JWTService           *pkgAuth.JWTService
	Notifier             *webhook.Notifier
	Logger               zerolog.Logger
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

// SetupDatabase establishes the database connection, runs migrations and
// seeds default data.
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
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	dbPool := database.Pool
	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.Notifier = webhook.NewNotifier(cfg.Webhook.TaskEventsURL, lgr)

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
		lgr,
	)
	deps.TPService = appServices.NewTPService(
		deps.Repos.TPRepository,
		deps.Repos.UserRepository,
		lgr,
	)
	deps.TeamService = appServices.NewTeamService(
		deps.Repos.TeamRepository,
		deps.Repos.TeamMemberRepository,
		deps.Repos.TPRepository,
		cfg.Assignment.MaxMembersPerTeam,
		lgr,
	)
	deps.TaskService = appServices.NewTaskService(
		deps.Repos.TaskRepository,
		deps.Repos.TaskUpdateRepository,
		deps.Repos.TeamRepository,
		deps.Repos.TeamMemberRepository,
		deps.Repos.UserRepository,
		deps.Notifier,
		lgr,
	)
	deps.AssignmentService = appServices.NewTeamAssignmentService(
		deps.Repos.TPRepository,
		deps.Repos.UserRepository,
		deps.Repos.TeamRepository,
		deps.Repos.TeamMemberRepository,
		database,
		dbPool,
		appServices.AssignmentDefaults{
			MaxMembersPerTeam: cfg.Assignment.MaxMembersPerTeam,
			TeamNamePrefix:    cfg.Assignment.TeamNamePrefix,
		},
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.TPController = appControllers.NewTPController(deps.TPService, lgr)
	deps.TeamController = appControllers.NewTeamController(deps.TeamService, lgr)
	deps.TaskController = appControllers.NewTaskController(deps.TaskService, lgr)
	deps.AssignmentController = appControllers.NewAssignmentController(deps.AssignmentService, lgr)

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

	if err := validation.RegisterCustomValidators(); err != nil {
		lgr.Warn().Err(err).Msg("Failed to register custom validators")
	}

	router := gin.Default()

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.TPController,
		deps.TeamController,
		deps.TaskController,
		deps.AssignmentController,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
