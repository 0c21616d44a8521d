// Package seed imports a posts.json export and the demo account it is
// attributed to.
package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/skinx/blog-api/internal/logging"
	"github.com/skinx/blog-api/internal/post"
	"github.com/skinx/blog-api/internal/user"
)

const (
	DemoEmail    = "demo@skinx.dev"
	DemoPassword = "password123"

	unknownAuthor = "Unknown"
	progressEvery = 10
)

// RawPost is one entry of posts.json. Only title and content are required.
type RawPost struct {
	ID       string   `json:"id,omitempty"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags,omitempty"`
	PostedAt string   `json:"postedAt,omitempty"`
	PostedBy string   `json:"postedBy,omitempty"`
}

// UserStore upserts the demo account.
type UserStore interface {
	UpsertByEmail(ctx context.Context, email, passwordHash string) (*user.User, error)
}

// PostStore receives imported posts.
type PostStore interface {
	Create(ctx context.Context, p *post.Post) (*post.Post, error)
}

// Hasher hashes the demo password.
type Hasher interface {
	Hash(password string) (string, error)
}

// Result summarizes an import.
type Result struct {
	DemoUser *user.User
	Imported int
}

type Seeder struct {
	users  UserStore
	posts  PostStore
	hasher Hasher
	logger *logging.Logger
	now    func() time.Time
}

func New(users UserStore, posts PostStore, hasher Hasher, logger *logging.Logger) *Seeder {
	return &Seeder{users: users, posts: posts, hasher: hasher, logger: logger, now: time.Now}
}

// Run ensures the demo user exists and imports every post in r as owned by
// it. Posts are inserted one at a time; a failure stops the import and
// reports how far it got.
func (s *Seeder) Run(ctx context.Context, r io.Reader) (*Result, error) {
	s.logger.Info("creating demo user", "email", DemoEmail)

	hash, err := s.hasher.Hash(DemoPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash demo password: %w", err)
	}
	demo, err := s.users.UpsertByEmail(ctx, DemoEmail, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert demo user: %w", err)
	}

	raws, err := ParsePosts(r)
	if err != nil {
		return nil, err
	}

	res := &Result{DemoUser: demo}
	if len(raws) == 0 {
		s.logger.Info("no posts found in input")
		return res, nil
	}

	s.logger.Info("importing posts", "count", len(raws))
	for i, raw := range raws {
		p, err := s.toPost(raw, demo.ID)
		if err != nil {
			return res, fmt.Errorf("post %d: %w", i, err)
		}
		if _, err := s.posts.Create(ctx, p); err != nil {
			return res, fmt.Errorf("post %d: %w", i, err)
		}
		res.Imported++

		if res.Imported%progressEvery == 0 {
			s.logger.Info("import progress", "imported", res.Imported, "total", len(raws))
		}
	}

	s.logger.Info("seed complete", "imported", res.Imported, "demo_user", DemoEmail)
	return res, nil
}

func (s *Seeder) toPost(raw RawPost, authorID uuid.UUID) (*post.Post, error) {
	now := s.now().UTC()

	postedAt := now
	if raw.PostedAt != "" {
		t, err := parseTime(raw.PostedAt)
		if err != nil {
			return nil, err
		}
		postedAt = t
	}

	postedBy := raw.PostedBy
	if postedBy == "" {
		postedBy = unknownAuthor
	}

	tags := raw.Tags
	if tags == nil {
		tags = []string{}
	}

	return &post.Post{
		ID:        uuid.New(),
		Title:     raw.Title,
		Content:   raw.Content,
		Tags:      tags,
		PostedAt:  postedAt,
		PostedBy:  postedBy,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(value string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized postedAt %q", value)
}

// ParsePosts accepts either a bare JSON array of posts or an object with a
// "posts" array.
func ParsePosts(r io.Reader) ([]RawPost, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read posts: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("posts input is empty")
	}

	if trimmed[0] == '[' {
		var posts []RawPost
		if err := json.Unmarshal(trimmed, &posts); err != nil {
			return nil, fmt.Errorf("failed to decode posts: %w", err)
		}
		return posts, nil
	}

	var wrapped struct {
		Posts []RawPost `json:"posts"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}
	return wrapped.Posts, nil
}
