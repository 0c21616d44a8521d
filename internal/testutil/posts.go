package testutil

import (
	"bytes"
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/skinx/blog-api/internal/post"
)

// PostStore is an in-memory post.Store that filters, orders and pages the
// same way the SQL repository does.
type PostStore struct {
	mu    sync.Mutex
	posts map[uuid.UUID]*post.Post
}

func NewPostStore() *PostStore {
	return &PostStore{posts: make(map[uuid.UUID]*post.Post)}
}

func (s *PostStore) List(_ context.Context, f post.ListFilter) ([]*post.Post, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]*post.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if f.Tag != "" && !slices.Contains(p.Tags, f.Tag) {
			continue
		}
		if f.Query != "" && !containsFold(p.Title, f.Query) && !containsFold(p.Content, f.Query) {
			continue
		}
		matched = append(matched, p)
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.PostedAt.Equal(b.PostedAt) {
			return a.PostedAt.After(b.PostedAt)
		}
		return bytes.Compare(a.ID[:], b.ID[:]) > 0
	})

	total := len(matched)
	start := min(f.Offset(), total)
	end := min(start+f.PageSize, total)

	page := make([]*post.Post, 0, end-start)
	for _, p := range matched[start:end] {
		page = append(page, clonePost(p))
	}
	return page, total, nil
}

func (s *PostStore) Get(_ context.Context, id uuid.UUID) (*post.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, post.ErrNotFound
	}
	return clonePost(p), nil
}

func (s *PostStore) Create(_ context.Context, p *post.Post) (*post.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts[p.ID] = clonePost(p)
	return clonePost(p), nil
}

func (s *PostStore) Update(_ context.Context, id uuid.UUID, fn func(*post.Post) error) (*post.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.posts[id]
	if !ok {
		return nil, post.ErrNotFound
	}

	working := clonePost(existing)
	if err := fn(working); err != nil {
		return nil, err
	}

	s.posts[id] = working
	return clonePost(working), nil
}

func (s *PostStore) Delete(_ context.Context, id uuid.UUID, fn func(*post.Post) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.posts[id]
	if !ok {
		return post.ErrNotFound
	}
	if err := fn(clonePost(existing)); err != nil {
		return err
	}

	delete(s.posts, id)
	return nil
}

// Len reports how many posts are stored.
func (s *PostStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.posts)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func clonePost(p *post.Post) *post.Post {
	copied := *p
	copied.Tags = append([]string{}, p.Tags...)
	return &copied
}
