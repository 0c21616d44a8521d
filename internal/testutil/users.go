package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skinx/blog-api/internal/user"
)

// UserStore is an in-memory user repository with the same error contract as
// user.Repository.
type UserStore struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]*user.User
	Calls int
}

func NewUserStore() *UserStore {
	return &UserStore{byID: make(map[uuid.UUID]*user.User)}
}

func (s *UserStore) Create(_ context.Context, id uuid.UUID, email, passwordHash string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++

	for _, u := range s.byID {
		if u.Email == email {
			return nil, user.ErrDuplicateEmail
		}
	}

	now := time.Now().UTC()
	u := &user.User{ID: id, Email: email, PasswordHash: passwordHash, CreatedAt: now, UpdatedAt: now}
	s.byID[id] = u
	copied := *u
	return &copied, nil
}

func (s *UserStore) UpsertByEmail(ctx context.Context, email, passwordHash string) (*user.User, error) {
	if u, err := s.GetByEmail(ctx, email); err == nil {
		return u, nil
	}
	return s.Create(ctx, uuid.New(), email, passwordHash)
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.byID {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, user.ErrNotFound
}

func (s *UserStore) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

// Len reports how many users are stored.
func (s *UserStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}
