// Package testutil provides in-memory stores and helpers shared by tests.
package testutil

import (
	"os"
	"testing"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}
