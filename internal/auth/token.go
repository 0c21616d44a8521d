package auth

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"

	"github.com/skinx/blog-api/internal/config"
)

// TokenTTL is the lifetime of every session token.
const TokenTTL = 24 * time.Hour

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	// ErrMissingSecret is returned by every token operation when no signing
	// secret was configured.
	ErrMissingSecret = errors.New("token signing secret is not configured")
)

// TokenClaims is the payload carried by a session token
type TokenClaims struct {
	UserID    string    `json:"userId"` // UUID stored as string in token
	Email     string    `json:"email"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// TokenService defines the interface for token creation and validation.
// Implementations are JWTService (HS256) and PasetoService (PASETO v4.local).
type TokenService interface {
	CreateToken(userID uuid.UUID, email string, duration time.Duration) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}

// NewTokenService builds the token service selected by cfg.TokenFormat.
// Without any secret the returned service fails every call with
// ErrMissingSecret instead of refusing to start.
func NewTokenService(cfg config.AuthConfig) (TokenService, error) {
	switch cfg.TokenFormat {
	case "paseto":
		key := []byte(cfg.PasetoKey)
		if len(key) == 0 {
			if cfg.JWTSecret == "" {
				return unconfiguredTokenService{}, nil
			}
			derived, err := derivePasetoKey(cfg.JWTSecret)
			if err != nil {
				return nil, err
			}
			key = derived
		}
		return NewPasetoService(key)
	default:
		if cfg.JWTSecret == "" {
			return unconfiguredTokenService{}, nil
		}
		return NewJWTService([]byte(cfg.JWTSecret)), nil
	}
}

// derivePasetoKey stretches an arbitrary-length secret into a v4.local key.
func derivePasetoKey(secret string) ([]byte, error) {
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte("blog-api paseto v4.local"))
	key := make([]byte, 32)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("failed to derive paseto key: %w", err)
	}
	return key, nil
}

type unconfiguredTokenService struct{}

func (unconfiguredTokenService) CreateToken(uuid.UUID, string, time.Duration) (string, error) {
	return "", ErrMissingSecret
}

func (unconfiguredTokenService) VerifyToken(string) (*TokenClaims, error) {
	return nil, ErrMissingSecret
}
