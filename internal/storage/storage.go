// Package storage opens the configured user store.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"exercise-tracker/internal/config"
	"exercise-tracker/internal/models"
	"exercise-tracker/internal/repository"
	"exercise-tracker/internal/repository/gormrepo"
	"exercise-tracker/internal/repository/mongorepo"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

// DetectDriver guesses the driver from a connection string.
func DetectDriver(uri string) string {
	lower := strings.ToLower(strings.TrimSpace(uri))
	switch {
	case strings.HasPrefix(lower, "mongodb://"), strings.HasPrefix(lower, "mongodb+srv://"):
		return DriverMongo
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"),
		strings.Contains(lower, "host=") && strings.Contains(lower, "dbname="):
		return DriverPostgres
	default:
		return DriverSQLite
	}
}

// Open connects to the store described by cfg and prepares its schema.
func Open(ctx context.Context, cfg config.StoreConfig, log *slog.Logger) (repository.UserRepository, error) {
	driver := strings.ToLower(cfg.Driver)
	if driver == "" {
		driver = DetectDriver(cfg.URI)
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	log.Info("opening store", "driver", driver)

	switch driver {
	case DriverMongo:
		repo, err := mongorepo.Connect(ctx, cfg.URI, cfg.Database)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case DriverPostgres:
		db, err := gorm.Open(postgres.Open(cfg.URI), gormConfig(log))
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return prepare(ctx, db)
	case DriverSQLite:
		if err := ensureDirForSQLite(cfg.URI); err != nil {
			return nil, err
		}
		db, err := gorm.Open(sqlite.Open(cfg.URI), gormConfig(log))
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// sqlite allows a single writer.
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
		return prepare(ctx, db)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func prepare(ctx context.Context, db *gorm.DB) (repository.UserRepository, error) {
	if err := models.Migrate(db.WithContext(ctx)); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			sqlDB.Close()
		}
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	return gormrepo.New(db), nil
}

func gormConfig(log *slog.Logger) *gorm.Config {
	return &gorm.Config{
		Logger: logger.New(
			slog.NewLogLogger(log.Handler(), slog.LevelWarn),
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	}
}

// ensureDirForSQLite creates the parent directory of a sqlite file DSN.
func ensureDirForSQLite(dsn string) error {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}
