package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port            string        `env:"PORT" envDefault:"4000"`
	Env             string        `env:"APP_ENV" envDefault:"development"` // development or production
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"15s"`

	// FrontendURL is the origin allowed by CORS. A comma-separated list is accepted.
	FrontendURL        string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	MaxRequestBodySize int64  `env:"MAX_REQUEST_BODY_SIZE" envDefault:"10485760"`

	// TrustProxyHeaders makes X-Forwarded-For / X-Real-IP the client address.
	// Enable only behind a proxy that overwrites those headers; otherwise any
	// caller can pick its own rate-limit key.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`
}

type DatabaseConfig struct {
	URL          string `env:"DATABASE_URL,required,notEmpty"`
	Driver       string `env:"DATABASE_DRIVER" envDefault:"postgres"` // postgres (lib/pq) or pgx
	MaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns int    `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	AutoMigrate  bool   `env:"AUTO_MIGRATE" envDefault:"true"`
}

type RedisConfig struct {
	// URL is optional; rate limiting is disabled without it.
	URL string `env:"REDIS_URL"`
}

type AuthConfig struct {
	// JWTSecret signs tokens. Left empty, the server starts but token issuance
	// and verification fail with a configuration error.
	JWTSecret string `env:"JWT_SECRET"`

	// PasetoKey overrides the key derived from JWTSecret (must be 32 bytes for v4.local)
	PasetoKey      string `env:"PASETO_KEY"`
	TokenFormat    string `env:"TOKEN_FORMAT" envDefault:"jwt"`        // jwt or paseto
	PasswordHasher string `env:"PASSWORD_HASHER" envDefault:"bcrypt"` // bcrypt or argon2id
	BcryptCost     int    `env:"BCRYPT_COST" envDefault:"10"`
}

type RateLimitConfig struct {
	Enabled bool          `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	Max     int64         `env:"RATE_LIMIT_MAX" envDefault:"20"`
	Window  time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`
}

type LogConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads configuration from environment variables.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "pgx":
	default:
		return fmt.Errorf("DATABASE_DRIVER must be postgres or pgx, got %q", c.Database.Driver)
	}

	switch c.Auth.TokenFormat {
	case "jwt", "paseto":
	default:
		return fmt.Errorf("TOKEN_FORMAT must be jwt or paseto, got %q", c.Auth.TokenFormat)
	}

	switch c.Auth.PasswordHasher {
	case "bcrypt", "argon2id":
	default:
		return fmt.Errorf("PASSWORD_HASHER must be bcrypt or argon2id, got %q", c.Auth.PasswordHasher)
	}

	if c.Auth.PasetoKey != "" && len(c.Auth.PasetoKey) != 32 {
		return fmt.Errorf("PASETO_KEY must be exactly 32 bytes, got %d", len(c.Auth.PasetoKey))
	}

	return nil
}

// IsDevelopment returns true if the environment is set to development
func (c *ServerConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// TrustedOrigins splits FrontendURL into the CORS origin list.
func (c *ServerConfig) TrustedOrigins() []string {
	parts := strings.Split(c.FrontendURL, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// RedisEnabled reports whether a Redis URL was configured.
func (c *RedisConfig) RedisEnabled() bool {
	return c.URL != ""
}
