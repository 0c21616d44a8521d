package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	_ "github.com/lib/pq"              // registers the "postgres" database/sql driver
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"github.com/skinx/blog-api/internal/config"
)

// Open creates the process-wide connection pool and wraps it in a Bun DB.
// The returned DB is shared by every request handler and closed on shutdown.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*bun.DB, error) {
	sqlDB, err := sql.Open(cfg.Driver, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewBunDB(sqlDB), nil
}

// NewBunDB creates a new Bun DB instance from an existing sql.DB connection
func NewBunDB(sqlDB *sql.DB) *bun.DB {
	db := bun.NewDB(sqlDB, pgdialect.New())
	db.RegisterModel((*User)(nil), (*Post)(nil))
	return db
}

// HealthCheck adapts a Bun DB to the Ping(ctx) shape used by health checks.
type HealthCheck struct {
	db *bun.DB
}

func NewHealthCheck(db *bun.DB) *HealthCheck {
	return &HealthCheck{db: db}
}

// Ping runs a trivial query rather than a driver ping so that a pool with a
// stale connection is reported as unhealthy.
func (h *HealthCheck) Ping(ctx context.Context) error {
	var one int
	if err := h.db.NewRaw("SELECT 1").Scan(ctx, &one); err != nil {
		return fmt.Errorf("database ping: %w", err)
	}
	return nil
}
