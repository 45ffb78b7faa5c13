package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func migrationSource() (source.Driver, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("create migration source: %w", err)
	}
	return src, nil
}

// withMigrator runs fn against a migrator on its own connection and logs where the schema ended up.
func withMigrator(dsn string, logger *zap.Logger, fn func(m *migrate.Migrate) error) error {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("open db for migrations: %w", err)
	}
	defer conn.Close()

	src, err := migrationSource()
	if err != nil {
		return err
	}
	driver, err := postgres.WithInstance(conn, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	if err := fn(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		logger.Info("schema has no migrations applied")
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	case dirty:
		logger.Warn("schema is dirty", zap.Uint("version", version))
	default:
		logger.Info("schema migrated", zap.Uint("version", version))
	}
	return nil
}

// RunMigrations applies every pending embedded migration.
func RunMigrations(dsn string, logger *zap.Logger) error {
	return withMigrator(dsn, logger, func(m *migrate.Migrate) error {
		if err := m.Up(); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		return nil
	})
}

// RollbackMigrations reverts the last steps migrations.
func RollbackMigrations(dsn string, steps int, logger *zap.Logger) error {
	if steps < 1 {
		return fmt.Errorf("rollback steps must be >= 1, got %d", steps)
	}
	return withMigrator(dsn, logger, func(m *migrate.Migrate) error {
		if err := m.Steps(-steps); err != nil {
			return fmt.Errorf("roll back %d migrations: %w", steps, err)
		}
		return nil
	})
}
