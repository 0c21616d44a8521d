package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	"github.com/skinx/blog-api/internal/logging"
)

//go:embed migrations/*.sql
var sqlMigrations embed.FS

// Migrations holds every SQL migration shipped with the binary.
var Migrations = migrate.NewMigrations()

func init() {
	sub, err := fs.Sub(sqlMigrations, "migrations")
	if err != nil {
		panic(err)
	}
	if err := Migrations.Discover(sub); err != nil {
		panic(err)
	}
}

// Migrate applies all pending migrations under the migration lock.
func Migrate(ctx context.Context, db *bun.DB, logger *logging.Logger) error {
	migrator := migrate.NewMigrator(db, Migrations)

	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}
	if err := migrator.Lock(ctx); err != nil {
		return fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	defer migrator.Unlock(ctx) //nolint:errcheck

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	if group.IsZero() {
		logger.Info("database is up to date")
		return nil
	}
	logger.Info("migrations applied", "group", group.String())
	return nil
}

// Rollback reverts the last applied migration group.
func Rollback(ctx context.Context, db *bun.DB, logger *logging.Logger) error {
	migrator := migrate.NewMigrator(db, Migrations)

	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}
	if err := migrator.Lock(ctx); err != nil {
		return fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	defer migrator.Unlock(ctx) //nolint:errcheck

	group, err := migrator.Rollback(ctx)
	if err != nil {
		return fmt.Errorf("failed to rollback: %w", err)
	}

	if group.IsZero() {
		logger.Info("nothing to roll back")
		return nil
	}
	logger.Info("rolled back", "group", group.String())
	return nil
}
