package post

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/skinx/blog-api/internal/logging"
)

var (
	ErrNotFound  = errors.New("post not found")
	ErrForbidden = errors.New("post belongs to another user")
)

// Store is the persistence the post service needs. Update and Delete run fn
// while the row is locked; an error from fn aborts the change.
type Store interface {
	List(ctx context.Context, f ListFilter) ([]*Post, int, error)
	Get(ctx context.Context, id uuid.UUID) (*Post, error)
	Create(ctx context.Context, p *Post) (*Post, error)
	Update(ctx context.Context, id uuid.UUID, fn func(*Post) error) (*Post, error)
	Delete(ctx context.Context, id uuid.UUID, fn func(*Post) error) error
}

// Author identifies the caller creating or changing posts.
type Author struct {
	ID    uuid.UUID
	Email string
}

// Service handles post business logic and ownership rules
type Service struct {
	store  Store
	logger *logging.Logger
	now    func() time.Time
}

func NewService(store Store, logger *logging.Logger) *Service {
	return &Service{store: store, logger: logger, now: time.Now}
}

func (s *Service) List(ctx context.Context, f ListFilter) (*ListResult, error) {
	items, total, err := s.store.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &ListResult{Items: items, Total: total, Page: f.Page, PageSize: f.PageSize}, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Post, error) {
	return s.store.Get(ctx, id)
}

// Create stores a new post owned by author. PostedBy is the author's email
// at this moment.
func (s *Service) Create(ctx context.Context, author Author, req CreatePostRequest) (*Post, error) {
	now := s.now().UTC()
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	created, err := s.store.Create(ctx, &Post{
		ID:        uuid.New(),
		Title:     req.Title,
		Content:   req.Content,
		Tags:      tags,
		PostedAt:  now,
		PostedBy:  author.Email,
		AuthorID:  author.ID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("post created", "post_id", created.ID, "author_id", author.ID)
	return created, nil
}

// Update applies the supplied fields. ErrNotFound wins over ErrForbidden.
func (s *Service) Update(ctx context.Context, callerID, id uuid.UUID, req UpdatePostRequest) (*Post, error) {
	updated, err := s.store.Update(ctx, id, func(p *Post) error {
		if p.AuthorID != callerID {
			return ErrForbidden
		}
		if req.Title != nil {
			p.Title = *req.Title
		}
		if req.Content != nil {
			p.Content = *req.Content
		}
		if req.Tags != nil {
			p.Tags = *req.Tags
		}
		p.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrForbidden) {
			return nil, err
		}
		return nil, fmt.Errorf("update post %s: %w", id, err)
	}
	return updated, nil
}

// Delete removes the post if callerID owns it.
func (s *Service) Delete(ctx context.Context, callerID, id uuid.UUID) error {
	err := s.store.Delete(ctx, id, func(p *Post) error {
		if p.AuthorID != callerID {
			return ErrForbidden
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrForbidden) {
			return err
		}
		return fmt.Errorf("delete post %s: %w", id, err)
	}

	s.logger.Info("post deleted", "post_id", id, "author_id", callerID)
	return nil
}
