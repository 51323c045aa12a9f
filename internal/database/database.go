package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/robalyx/unbanmanager/internal/database/dbretry"
	"github.com/robalyx/unbanmanager/internal/database/migrations"
	"github.com/robalyx/unbanmanager/internal/setup/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bunjson"
	"github.com/uptrace/bun/extra/bunotel"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// sonicProvider is a JSON provider that uses Sonic for encoding and decoding.
type sonicProvider struct{}

func (sonicProvider) Marshal(v any) ([]byte, error) {
	return sonic.Marshal(v)
}

func (sonicProvider) Unmarshal(data []byte, v any) error {
	return sonic.Unmarshal(data, v)
}

func (sonicProvider) NewEncoder(w io.Writer) bunjson.Encoder {
	return sonic.ConfigDefault.NewEncoder(w)
}

func (sonicProvider) NewDecoder(r io.Reader) bunjson.Decoder {
	return sonic.ConfigDefault.NewDecoder(r)
}

// Client defines the methods that a database client must implement.
type Client interface {
	// Model returns the repository containing all model operations.
	Model() *Repository
	// Service returns the service containing all service operations.
	Service() *Service
	// Close gracefully shuts down the database connection.
	Close() error
	// DB returns the underlying bun.DB instance.
	DB() *bun.DB
}

// clientImpl represents the concrete implementation of the database client.
type clientImpl struct {
	db      *bun.DB
	logger  *zap.Logger
	repo    *Repository
	service *Service
}

// NewConnection establishes a new database connection and returns a Client instance.
func NewConnection(
	ctx context.Context, cfg *config.CommonConfig, logger *zap.Logger, autoMigrate bool,
) (Client, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	ConfigureRetry(&cfg.Retry)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	return NewClient(ctx, db, logger, autoMigrate)
}

// Open creates a bun.DB for the configured storage driver without connecting.
func Open(cfg *config.CommonConfig) (*bun.DB, error) {
	bunjson.SetProvider(sonicProvider{})

	var db *bun.DB

	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		sqldb, err := sql.Open("sqlite", sqliteDSN(cfg.SQLite.Path))
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}

		// SQLite allows a single writer
		sqldb.SetMaxOpenConns(1)

		db = bun.NewDB(sqldb, sqlitedialect.New())
	case config.DriverPostgres, "":
		pg := cfg.PostgreSQL
		sqldb := sql.OpenDB(pgdriver.NewConnector(
			pgdriver.WithAddr(fmt.Sprintf("%s:%d", pg.Host, pg.Port)),
			pgdriver.WithUser(pg.User),
			pgdriver.WithPassword(pg.Password),
			pgdriver.WithDatabase(pg.DBName),
			pgdriver.WithInsecure(!pg.SSL),
			pgdriver.WithApplicationName("unbanmanager"),
		))

		sqldb.SetMaxOpenConns(pg.MaxOpenConns)
		sqldb.SetMaxIdleConns(pg.MaxIdleConns)
		sqldb.SetConnMaxLifetime(time.Duration(pg.MaxLifetime) * time.Minute)
		sqldb.SetConnMaxIdleTime(time.Duration(pg.MaxIdleTime) * time.Minute)

		db = bun.NewDB(sqldb, pgdialect.New())
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownStorageDriver, cfg.Storage.Driver)
	}

	db.AddQueryHook(bunotel.NewQueryHook(bunotel.WithDBName("unbanmanager")))

	return db, nil
}

// NewClient wraps an open bun.DB, optionally running pending migrations.
func NewClient(ctx context.Context, db *bun.DB, logger *zap.Logger, autoMigrate bool) (Client, error) {
	db.AddQueryHook(NewHook(logger))

	if autoMigrate {
		group, err := Migrate(ctx, db)
		if err != nil {
			return nil, err
		}

		if !group.IsZero() {
			logger.Info("Automatically ran migrations", zap.String("group", group.String()))
		}
	}

	repo := NewRepository(db, logger)
	service := NewService(repo, logger)

	client := &clientImpl{
		db:      db,
		logger:  logger,
		repo:    repo,
		service: service,
	}

	logger.Info("Database connection established", zap.String("dialect", db.Dialect().Name().String()))

	return client, nil
}

// Migrate applies all pending migrations.
func Migrate(ctx context.Context, db *bun.DB) (*migrate.MigrationGroup, error) {
	migrator := migrate.NewMigrator(db, migrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize migrations: %w", err)
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return group, nil
}

// ConfigureRetry applies the configured retry policy to all storage operations.
func ConfigureRetry(cfg *config.Retry) {
	dbretry.Configure(dbretry.Policy{
		MaxElapsedTime:  time.Duration(cfg.MaxElapsed) * time.Millisecond,
		InitialInterval: time.Duration(cfg.Delay) * time.Millisecond,
		MaxInterval:     time.Duration(cfg.MaxDelay) * time.Millisecond,
		MaxRetries:      cfg.MaxRetries,
	})
}

// Close gracefully shuts down the database connection.
func (c *clientImpl) Close() error {
	err := c.db.Close()
	if err != nil {
		c.logger.Error("Failed to close database connection", zap.Error(err))
		return err
	}

	c.logger.Info("Database connection closed")

	return nil
}

// Model returns the repository containing all model operations.
func (c *clientImpl) Model() *Repository {
	return c.repo
}

// Service returns the service containing all service operations.
func (c *clientImpl) Service() *Service {
	return c.service
}

// DB returns the underlying bun.DB instance.
func (c *clientImpl) DB() *bun.DB {
	return c.db
}

// sqliteDSN turns a plain path into a DSN with foreign keys and a busy timeout.
func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}

	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
}

// isExpectedError reports whether a query error is part of normal control flow.
func isExpectedError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
