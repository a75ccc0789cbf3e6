package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"

	"github.com/spigell/abang/internal/logger"
)

//go:embed migrations/*.sql
var migrations embed.FS

func newMigrator(db *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("load migrations: %w", err)
	}

	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return nil, fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}

	return m, nil
}

// Migrate applies all pending migrations over a dedicated connection that is
// closed on return. An up-to-date schema is not an error.
func Migrate(ctx context.Context, cfg Config, log *zap.Logger) error {
	log = logger.Component(log, "migrate")

	m, err := openMigrator(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration version: %w", err)
	}

	log.Info("schema migrated", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

// Rollback reverts the given number of migrations.
func Rollback(ctx context.Context, cfg Config, steps int, log *zap.Logger) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be greater than 0, got %d", steps)
	}

	log = logger.Component(log, "migrate")

	m, err := openMigrator(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Steps(-steps); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("no migrations to roll back")
		}
		return fmt.Errorf("rollback %d step(s): %w", steps, err)
	}

	log.Info("schema rolled back", zap.Int("steps", steps))
	return nil
}

// openMigrator owns its pool: closing the migrator closes the database too.
func openMigrator(ctx context.Context, cfg Config, log *zap.Logger) (*migrate.Migrate, error) {
	db, err := Open(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	m, err := newMigrator(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return m, nil
}
