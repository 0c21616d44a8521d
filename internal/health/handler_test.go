package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockChecker is a mock implementation of Checker for testing.
type mockChecker struct {
	err error
}

func (m *mockChecker) Ping(ctx context.Context) error {
	return m.err
}

func serve(t *testing.T, h *Handler) (int, Response) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec.Code, resp
}

func TestHealth_Connected(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	h := NewHandler(&mockChecker{}, nil)
	h.now = func() time.Time { return fixed }

	code, resp := serve(t, h)

	assert.Equal(t, http.StatusOK, code)
	assert.True(t, resp.OK)
	assert.Equal(t, "connected", resp.Database)
	assert.Equal(t, fixed, resp.Timestamp)
	assert.Empty(t, resp.Error)
	assert.NotContains(t, resp.Checks, "redis")
}

func TestHealth_DatabaseDown(t *testing.T) {
	code, resp := serve(t, NewHandler(&mockChecker{err: errors.New("connection refused")}, nil))

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.False(t, resp.OK)
	assert.Equal(t, "disconnected", resp.Database)
	assert.Equal(t, "Database connection failed", resp.Error)
}

func TestHealth_RedisDown(t *testing.T) {
	code, resp := serve(t, NewHandler(&mockChecker{}, PingFunc(func(context.Context) error {
		return errors.New("dial tcp: refused")
	})))

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.False(t, resp.OK)
	assert.Equal(t, "connected", resp.Database)
	assert.Equal(t, "error", resp.Checks["redis"])
}
