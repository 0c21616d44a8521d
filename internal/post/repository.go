package post

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/skinx/blog-api/internal/database"
)

// Repository handles post persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// List returns one page of posts matching f, newest first, and the number of
// posts matching f across all pages.
func (r *Repository) List(ctx context.Context, f ListFilter) ([]*Post, int, error) {
	var rows []database.Post

	q := r.db.NewSelect().Model(&rows)
	if f.Tag != "" {
		q = q.Where("? = ANY(p.tags)", f.Tag)
	}
	if f.Query != "" {
		pattern := "%" + escapeLike(f.Query) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("p.title ILIKE ?", pattern).WhereOr("p.content ILIKE ?", pattern)
		})
	}

	total, err := q.
		OrderExpr("p.posted_at DESC").
		OrderExpr("p.id DESC").
		Limit(f.PageSize).
		Offset(f.Offset()).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}

	items := make([]*Post, 0, len(rows))
	for i := range rows {
		items = append(items, mapDBPostToModel(&rows[i]))
	}
	return items, total, nil
}

// Get retrieves a post by ID
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*Post, error) {
	row := new(database.Post)
	err := r.db.NewSelect().
		Model(row).
		Where("p.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return mapDBPostToModel(row), nil
}

// Create inserts p and returns the stored row.
func (r *Repository) Create(ctx context.Context, p *Post) (*Post, error) {
	row := mapModelToDBPost(p)

	_, err := r.db.NewInsert().
		Model(row).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return mapDBPostToModel(row), nil
}

// Update locks the post, lets fn inspect and modify it, then writes the
// mutable columns back. An error from fn aborts the transaction unchanged.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, fn func(*Post) error) (*Post, error) {
	var updated *Post

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		row, err := lockPost(ctx, tx, id)
		if err != nil {
			return err
		}

		p := mapDBPostToModel(row)
		if err := fn(p); err != nil {
			return err
		}

		row.Title = p.Title
		row.Content = p.Content
		row.Tags = p.Tags
		row.UpdatedAt = p.UpdatedAt

		_, err = tx.NewUpdate().
			Model(row).
			Column("title", "content", "tags", "updated_at").
			WherePK().
			Returning("*").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to update post: %w", err)
		}

		updated = mapDBPostToModel(row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete locks the post, lets fn veto the deletion, then removes the row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID, fn func(*Post) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		row, err := lockPost(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := fn(mapDBPostToModel(row)); err != nil {
			return err
		}

		if _, err := tx.NewDelete().Model(row).WherePK().Exec(ctx); err != nil {
			return fmt.Errorf("failed to delete post: %w", err)
		}
		return nil
	})
}

func lockPost(ctx context.Context, tx bun.Tx, id uuid.UUID) (*database.Post, error) {
	row := new(database.Post)
	err := tx.NewSelect().
		Model(row).
		Where("p.id = ?", id).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock post: %w", err)
	}
	return row, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func mapDBPostToModel(row *database.Post) *Post {
	tags := row.Tags
	if tags == nil {
		tags = []string{}
	}
	return &Post{
		ID:        row.ID,
		Title:     row.Title,
		Content:   row.Content,
		Tags:      tags,
		PostedAt:  row.PostedAt,
		PostedBy:  row.PostedBy,
		AuthorID:  row.AuthorID,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func mapModelToDBPost(p *Post) *database.Post {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return &database.Post{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Tags:      tags,
		PostedAt:  p.PostedAt,
		PostedBy:  p.PostedBy,
		AuthorID:  p.AuthorID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
