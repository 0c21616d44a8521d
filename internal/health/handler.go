// Package health reports whether the API and its backing services respond.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/skinx/blog-api/internal/httputil"
	"github.com/skinx/blog-api/internal/logging"
)

// Checker defines an interface for checking service health.
type Checker interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Checker.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Response is the body of GET /health
type Response struct {
	OK        bool              `json:"ok"`
	Timestamp time.Time         `json:"timestamp"`
	Database  string            `json:"database"`
	Error     string            `json:"error,omitempty"`
	Checks    map[string]string `json:"checks"`
}

// Handler serves GET /health
type Handler struct {
	db      Checker
	cache   Checker
	timeout time.Duration
	now     func() time.Time
}

// NewHandler creates a health handler. Pass nil for cache when Redis is not
// configured.
func NewHandler(db, cache Checker) *Handler {
	return &Handler{db: db, cache: cache, timeout: 5 * time.Second, now: time.Now}
}

// Health reports database connectivity
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200 {object} Response
// @Failure      503 {object} Response
// @Router       /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	logger := logging.GetLoggerFromContext(r.Context())
	resp := Response{
		OK:        true,
		Timestamp: h.now().UTC(),
		Database:  "connected",
		Checks:    map[string]string{"postgres": "ok"},
	}

	if err := h.db.Ping(ctx); err != nil {
		logger.Error("health check failed", "check", "postgres", "error", err)
		resp.OK = false
		resp.Database = "disconnected"
		resp.Error = "Database connection failed"
		resp.Checks["postgres"] = "error"
	}

	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			logger.Error("health check failed", "check", "redis", "error", err)
			resp.OK = false
			resp.Checks["redis"] = "error"
			if resp.Error == "" {
				resp.Error = "Cache connection failed"
			}
		} else {
			resp.Checks["redis"] = "ok"
		}
	}

	status := http.StatusOK
	if !resp.OK {
		status = http.StatusServiceUnavailable
	}
	httputil.RespondJSON(w, r, resp, status)
}
