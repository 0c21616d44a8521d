package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	_ "github.com/skinx/blog-api/docs" // Swagger docs
	"github.com/skinx/blog-api/internal/auth"
	"github.com/skinx/blog-api/internal/config"
	"github.com/skinx/blog-api/internal/database"
	"github.com/skinx/blog-api/internal/health"
	httpServer "github.com/skinx/blog-api/internal/http"
	"github.com/skinx/blog-api/internal/logging"
	"github.com/skinx/blog-api/internal/post"
	"github.com/skinx/blog-api/internal/ratelimit"
	"github.com/skinx/blog-api/internal/seed"
	"github.com/skinx/blog-api/internal/user"
	"github.com/skinx/blog-api/internal/validation"
)

// @title           Blog API
// @version         1.0
// @description     Blog posts with email/password accounts and bearer token authentication.

// @contact.name   API Support
// @contact.email  support@skinx.dev

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:4000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.

func main() {
	rootCmd := &cobra.Command{
		Use:           "blog-api",
		Short:         "Blog REST API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE:  func(cmd *cobra.Command, args []string) error { return runServe(cmd.Context()) },
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE:  runMigrate,
	}
	migrateCmd.Flags().Bool("rollback", false, "Roll back the last migration group instead")

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the demo user and import posts from a JSON file",
		RunE:  runSeed,
	}
	seedCmd.Flags().StringP("file", "f", "posts.json", "Path to the posts JSON file")

	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)

	// Running without a subcommand starts the server
	rootCmd.RunE = serveCmd.RunE

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

// bootstrap loads configuration, builds the logger and opens the database.
func bootstrap(ctx context.Context) (*config.Config, *logging.Logger, *bun.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLoggerWithLevel(cfg.Server.IsDevelopment(), cfg.Log.Level)

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return cfg, logger, db, nil
}

func runServe(ctx context.Context) error {
	cfg, logger, db, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"driver", cfg.Database.Driver,
		"token_format", cfg.Auth.TokenFormat,
	)

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db, logger); err != nil {
			return err
		}
	}

	// Redis is optional and only backs rate limiting
	var (
		redisClient *redis.Client
		rateLimiter auth.RateLimiter
		cacheCheck  health.Checker
	)
	if cfg.Redis.RedisEnabled() {
		redisClient, err = ratelimit.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("failed to initialize Redis: %w", err)
		}
		defer redisClient.Close()

		cacheCheck = health.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
		if cfg.RateLimit.Enabled {
			rateLimiter = ratelimit.NewLimiter(redisClient, cfg.RateLimit.Max, cfg.RateLimit.Window)
		}
	} else {
		logger.Info("REDIS_URL not set, rate limiting disabled")
	}

	tokenService, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}
	if cfg.Auth.JWTSecret == "" && cfg.Auth.PasetoKey == "" {
		logger.Warn("JWT_SECRET is not set; authentication requests will fail", "error", auth.ErrMissingSecret.Error())
	}

	validator := validation.New()
	exposeDetails := cfg.Server.IsDevelopment()

	// Repositories and services
	userRepo := user.NewRepository(db)
	postRepo := post.NewRepository(db)

	authService := auth.NewService(userRepo, tokenService, auth.NewPasswordHasher(cfg.Auth), logger)
	postService := post.NewService(postRepo, logger)

	router := httpServer.NewRouter(cfg, httpServer.Handlers{
		Auth:           auth.NewHandler(authService, validator, rateLimiter, exposeDetails),
		AuthMiddleware: auth.NewMiddleware(tokenService),
		Posts:          post.NewHandler(postService, validator, exposeDetails),
		Health:         health.NewHandler(database.NewHealthCheck(db), cacheCheck),
	}, logger)

	server := httpServer.NewServer(
		":"+cfg.Server.Port,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	rollback, _ := cmd.Flags().GetBool("rollback")

	ctx := cmd.Context()
	_, logger, db, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if rollback {
		return database.Rollback(ctx, db, logger)
	}
	return database.Migrate(ctx, db, logger)
}

func runSeed(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")

	ctx := cmd.Context()
	cfg, logger, db, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db, logger); err != nil {
			return err
		}
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("posts file %s not found", path)
		}
		return fmt.Errorf("failed to open posts file: %w", err)
	}
	defer f.Close()

	seeder := seed.New(
		user.NewRepository(db),
		post.NewRepository(db),
		auth.NewPasswordHasher(cfg.Auth),
		logger,
	)

	res, err := seeder.Run(ctx, f)
	if err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}

	fmt.Printf("Demo user: %s / %s\n", seed.DemoEmail, seed.DemoPassword)
	fmt.Printf("Imported %d posts\n", res.Imported)
	return nil
}
