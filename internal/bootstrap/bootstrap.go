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
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/nkaya/campusgrid/internal/app/controllers"
	appMigrations "github.com/nkaya/campusgrid/internal/app/migrations"
	appRepos "github.com/nkaya/campusgrid/internal/app/repositories"
	appRoutes "github.com/nkaya/campusgrid/internal/app/routes"
	appServices "github.com/nkaya/campusgrid/internal/app/services"
	"github.com/nkaya/campusgrid/internal/config"
	"github.com/nkaya/campusgrid/internal/db"
	appMiddleware "github.com/nkaya/campusgrid/internal/middleware"
	pkgAuth "github.com/nkaya/campusgrid/internal/pkg/auth"
	"github.com/nkaya/campusgrid/internal/pkg/helpers"
	"github.com/nkaya/campusgrid/internal/pkg/logger"
	"github.com/nkaya/campusgrid/internal/pkg/notify"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	CatalogService       appServices.CatalogService
	CredentialService    appServices.CredentialService
	CatalogController    *appControllers.CatalogController
	CredentialController *appControllers.CredentialController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	Repos                *appRepos.Repositories
	JWTService           *pkgAuth.JWTService
	Notifier             notify.Notifier
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

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
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
	migrator := appMigrations.NewMigrator(dbPool, lgr)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(context.Background(), migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")
	return dbPool, nil
}

// buildNotifier selects the notification backend from configuration
func buildNotifier(cfg *config.Config, repos *appRepos.Repositories, lgr zerolog.Logger) notify.Notifier {
	if strings.ToLower(cfg.Notify.Backend) == "smtp" {
		return notify.NewEmailNotifier(notify.SMTPConfig{
			Host:      cfg.Notify.SMTPHost,
			Port:      cfg.Notify.SMTPPort,
			Username:  cfg.Notify.SMTPUser,
			Password:  cfg.Notify.SMTPPass,
			FromName:  cfg.Notify.FromName,
			FromEmail: cfg.Notify.FromEmail,
		}, repos.UserRepository, lgr)
	}
	return notify.NewLogNotifier(lgr)
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.Notifier = buildNotifier(cfg, deps.Repos, lgr)

	deps.CatalogService = appServices.NewCatalogService(
		deps.Repos.CourseRepository,
		deps.Repos.UserRepository,
		deps.Notifier,
		lgr,
	)
	deps.CredentialService = appServices.NewCredentialService(
		deps.Repos.StudentCourseRepository,
		deps.Repos.CourseRepository,
		deps.Repos.UserRepository,
		deps.Notifier,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.CatalogController = appControllers.NewCatalogController(deps.CatalogService)
	deps.CredentialController = appControllers.NewCredentialController(deps.CredentialService)

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

	appRoutes.SetupRouter(router,
		deps.CatalogController,
		deps.CredentialController,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
