package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/skinx/blog-api/internal/logging"
	"github.com/skinx/blog-api/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserExists         = errors.New("user already exists")
)

// UserStore is the persistence the auth service needs.
type UserStore interface {
	Create(ctx context.Context, id uuid.UUID, email, passwordHash string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// Session is what a successful register or login hands back to the caller.
type Session struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// MeResponse is the profile returned for the current caller
type MeResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Service handles authentication business logic
type Service struct {
	users     UserStore
	tokens    TokenService
	hasher    PasswordHasher
	dummyHash string
	logger    *logging.Logger
	tokenTTL  time.Duration
}

func NewService(users UserStore, tokens TokenService, hasher PasswordHasher, logger *logging.Logger) *Service {
	return &Service{
		users:     users,
		tokens:    tokens,
		hasher:    hasher,
		dummyHash: newDummyHash(hasher),
		logger:    logger,
		tokenTTL:  TokenTTL,
	}
}

// Register creates an account and returns a session for it. The token is
// minted before the row is written so a token failure leaves no user behind.
func (s *Service) Register(ctx context.Context, email, password string) (*Session, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, user.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id := uuid.New()
	token, err := s.tokens.CreateToken(id, email, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	created, err := s.users.Create(ctx, id, email, passwordHash)
	if err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", created.ID)

	return &Session{
		Token: token,
		User:  UserResponse{ID: created.ID, Email: created.Email},
	}, nil
}

// Login checks credentials and returns a fresh session. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			VerifyPassword(s.dummyHash, password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !VerifyPassword(existing.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.CreateToken(existing.ID, existing.Email, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	return &Session{
		Token: token,
		User:  UserResponse{ID: existing.ID, Email: existing.Email},
	}, nil
}

// Me returns the profile of the given user.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*MeResponse, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &MeResponse{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}, nil
}
