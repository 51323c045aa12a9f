// Package setup bootstraps configuration, logging, tracing and storage.
package setup

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/robalyx/unbanmanager/internal/database"
	"github.com/robalyx/unbanmanager/internal/database/migrations"
	"github.com/robalyx/unbanmanager/internal/setup/config"
	"github.com/robalyx/unbanmanager/internal/setup/telemetry"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"
)

// ErrMigrationsPending is returned when the operator declines pending migrations.
var ErrMigrationsPending = errors.New("database migrations are pending")

// App bundles all core dependencies and services needed by the application.
// Each field represents a major subsystem that needs initialization and cleanup.
type App struct {
	Config     *config.Config     // Application configuration
	ConfigDir  string             // Directory the config was loaded from
	Logger     *zap.Logger        // Main application logger
	DBLogger   *zap.Logger        // Database-specific logger
	DB         database.Client    // Database connection pool
	LogManager *telemetry.Manager // Log and trace management
}

// InitializeApp bootstraps all application dependencies in the correct order,
// ensuring each component has its required dependencies available.
func InitializeApp(ctx context.Context, serviceType telemetry.ServiceType, logDir string) (*App, error) {
	cfg, configDir, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	// Logging system is initialized next to capture setup issues
	logManager := telemetry.NewManager(
		ctx, serviceType, logDir, &cfg.Common.Debug, &cfg.Common.Telemetry, config.RepositoryVersion,
	)

	logger, dbLogger, err := logManager.GetLoggers()
	if err != nil {
		logManager.Stop(ctx)
		return nil, err
	}

	logger.Info("Loaded configuration",
		zap.String("configDir", configDir),
		zap.String("storage", cfg.Common.Storage.Driver),
		zap.String("sessionDir", logManager.GetCurrentSessionDir()))

	if serviceName := logManager.TracingServiceName(); serviceName != "" {
		logger.Info("Tracing enabled", zap.String("service", serviceName))
	}

	dbLogger = dbLogger.Named("database")

	db, err := checkAndRunMigrations(ctx, &cfg.Common, dbLogger, cfg.Bot.AutoMigrate)
	if err != nil {
		logManager.Stop(ctx)
		return nil, err
	}

	return &App{
		Config:     cfg,
		ConfigDir:  configDir,
		Logger:     logger,
		DBLogger:   dbLogger,
		DB:         db,
		LogManager: logManager,
	}, nil
}

// Cleanup ensures graceful shutdown of all components in reverse initialization order.
// Logs but does not fail on cleanup errors to ensure all components get cleanup attempts.
func (s *App) Cleanup(ctx context.Context) {
	if err := s.DB.Close(); err != nil {
		s.Logger.Error("Failed to close database connection", zap.Error(err))
	}

	// Flush spans before the loggers go away
	s.LogManager.Stop(ctx)

	if err := s.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	if err := s.DBLogger.Sync(); err != nil {
		log.Printf("Failed to sync DB logger: %v", err)
	}
}

// checkAndRunMigrations connects to the database and applies pending migrations.
// Without autoMigrate the operator is asked before anything is applied.
func checkAndRunMigrations(
	ctx context.Context, cfg *config.CommonConfig, dbLogger *zap.Logger, autoMigrate bool,
) (database.Client, error) {
	if autoMigrate {
		return database.NewConnection(ctx, cfg, dbLogger, true)
	}

	tempDB, err := database.NewConnection(ctx, cfg, dbLogger, false)
	if err != nil {
		return nil, err
	}

	migrator := migrate.NewMigrator(tempDB.DB(), migrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		tempDB.Close()
		return nil, fmt.Errorf("failed to initialize migrations: %w", err)
	}

	ms, err := migrator.MigrationsWithStatus(ctx)
	if err != nil {
		tempDB.Close()
		return nil, fmt.Errorf("failed to check migration status: %w", err)
	}

	unapplied := ms.Unapplied()
	if len(unapplied) == 0 {
		return tempDB, nil
	}

	log.Printf("%d database migrations are pending. Would you like to run them now? (y/N)", len(unapplied))

	var response string

	_, _ = fmt.Scanln(&response)

	if !strings.EqualFold(strings.TrimSpace(response), "y") {
		tempDB.Close()
		return nil, fmt.Errorf("%w: %s", ErrMigrationsPending, unapplied.String())
	}

	group, err := database.Migrate(ctx, tempDB.DB())
	if err != nil {
		tempDB.Close()
		return nil, err
	}

	dbLogger.Info("Applied migrations", zap.String("group", group.String()))

	return tempDB, nil
}
