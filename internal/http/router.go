package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/skinx/blog-api/internal/auth"
	"github.com/skinx/blog-api/internal/config"
	"github.com/skinx/blog-api/internal/health"
	"github.com/skinx/blog-api/internal/httputil"
	"github.com/skinx/blog-api/internal/logging"
	"github.com/skinx/blog-api/internal/post"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth           *auth.Handler
	AuthMiddleware *auth.Middleware
	Posts          *post.Handler
	Health         *health.Handler
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, h Handlers, logger *logging.Logger) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if origins := cfg.Server.TrustedOrigins(); len(origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300, // 5 minutes
		}))
	}

	exposeDetails := cfg.Server.IsDevelopment()

	// Global middleware
	r.Use(SecurityHeaders)
	r.Use(middleware.RequestID)
	if cfg.Server.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(logging.RequestLogger(logger))
	r.Use(Recoverer(exposeDetails))
	r.Use(middleware.Compress(5))
	r.Use(MaxBodySize(cfg.Server.MaxRequestBodySize))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondErrorWithCode(w, r, "Route not found", httputil.CodeRouteNotFound, http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondErrorWithCode(w, r, "Method not allowed", httputil.CodeMethodNotAllowed, http.StatusMethodNotAllowed)
	})

	// Public routes
	r.Get("/health", h.Health.Health)

	// Swagger UI - only in development
	if cfg.Server.IsDevelopment() {
		logger.Info("swagger UI enabled", "path", "/swagger/")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)

		r.With(h.AuthMiddleware.RequireAuth).Get("/me", h.Auth.Me)
	})

	r.Route("/posts", func(r chi.Router) {
		r.Use(h.AuthMiddleware.RequireAuth)

		r.Get("/", h.Posts.List)
		r.Post("/", h.Posts.Create)
		r.Get("/{id}", h.Posts.Get)
		r.Put("/{id}", h.Posts.Update)
		r.Delete("/{id}", h.Posts.Delete)
	})

	return r
}
