package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/skinx/blog-api/internal/config"
	"github.com/skinx/blog-api/internal/database"
	"github.com/skinx/blog-api/internal/logging"
)

// OpenDB connects to DATABASE_URL and applies migrations, skipping the test
// when the variable is unset. Tests share the database, so they should key
// their rows on UniqueEmail or UniqueTag rather than truncate tables.
func OpenDB(t testing.TB) *bun.DB {
	t.Helper()

	cfg := config.DatabaseConfig{
		URL:          RequireEnv(t, "DATABASE_URL"),
		Driver:       os.Getenv("DATABASE_DRIVER"),
		MaxOpenConns: 5,
		MaxIdleConns: 2,
	}
	if cfg.Driver == "" {
		cfg.Driver = "postgres"
	}

	ctx := context.Background()
	db, err := database.Open(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(ctx, db, logging.Discard()))
	return db
}

// UniqueEmail returns an address no other test run will use.
func UniqueEmail(prefix string) string {
	return prefix + "-" + uuid.NewString() + "@test.local"
}

// UniqueTag returns a tag that isolates one test's posts in shared tables.
func UniqueTag(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}
