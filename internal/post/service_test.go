package post_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skinx/blog-api/internal/logging"
	"github.com/skinx/blog-api/internal/post"
	"github.com/skinx/blog-api/internal/testutil"
)

func newService() (*post.Service, *testutil.PostStore) {
	store := testutil.NewPostStore()
	return post.NewService(store, logging.Discard()), store
}

func seedPost(t *testing.T, store *testutil.PostStore, authorID uuid.UUID, title string, tags []string, postedAt time.Time) *post.Post {
	t.Helper()
	p, err := store.Create(context.Background(), &post.Post{
		ID:       uuid.New(),
		Title:    title,
		Content:  "<p>" + title + "</p>",
		Tags:     tags,
		PostedAt: postedAt,
		PostedBy: "author@example.com",
		AuthorID: authorID,
	})
	require.NoError(t, err)
	return p
}

func TestService_Create(t *testing.T) {
	svc, store := newService()
	author := post.Author{ID: uuid.New(), Email: "demo@skinx.dev"}

	created, err := svc.Create(context.Background(), author, post.CreatePostRequest{
		Title:   "Hello",
		Content: "<p>Hi</p>",
	})
	require.NoError(t, err)

	assert.Equal(t, author.ID, created.AuthorID)
	assert.Equal(t, "demo@skinx.dev", created.PostedBy)
	assert.Equal(t, []string{}, created.Tags)
	assert.False(t, created.PostedAt.IsZero())
	assert.Equal(t, 1, store.Len())
}

func TestService_ListFiltersAndPages(t *testing.T) {
	svc, store := newService()
	author := uuid.New()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	seedPost(t, store, author, "Go generics", []string{"go", "intro"}, base.Add(3*time.Hour))
	seedPost(t, store, author, "Rust traits", []string{"rust"}, base.Add(2*time.Hour))
	seedPost(t, store, author, "More GO", []string{"Go"}, base.Add(1*time.Hour))

	ctx := context.Background()

	t.Run("tag is exact and case sensitive", func(t *testing.T) {
		res, err := svc.List(ctx, post.ListFilter{Tag: "go", Page: 1, PageSize: 10})
		require.NoError(t, err)
		require.Equal(t, 1, res.Total)
		assert.Equal(t, "Go generics", res.Items[0].Title)
	})

	t.Run("query is case insensitive", func(t *testing.T) {
		res, err := svc.List(ctx, post.ListFilter{Query: "go", Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, 2, res.Total)
	})

	t.Run("newest first with total independent of page", func(t *testing.T) {
		res, err := svc.List(ctx, post.ListFilter{Page: 2, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, 3, res.Total)
		assert.Equal(t, 2, res.Page)
		assert.Equal(t, 2, res.PageSize)
		require.Len(t, res.Items, 1)
		assert.Equal(t, "More GO", res.Items[0].Title)
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		res, err := svc.List(ctx, post.ListFilter{Page: 5, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, 3, res.Total)
		assert.Empty(t, res.Items)
	})
}

func TestService_UpdateOwnership(t *testing.T) {
	svc, store := newService()
	owner := uuid.New()
	p := seedPost(t, store, owner, "Original", []string{"a"}, time.Now())
	ctx := context.Background()

	title := "Changed"
	_, err := svc.Update(ctx, uuid.New(), p.ID, post.UpdatePostRequest{Title: &title})
	assert.ErrorIs(t, err, post.ErrForbidden)

	_, err = svc.Update(ctx, uuid.New(), uuid.New(), post.UpdatePostRequest{Title: &title})
	assert.ErrorIs(t, err, post.ErrNotFound, "missing post wins over ownership")

	updated, err := svc.Update(ctx, owner, p.ID, post.UpdatePostRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Changed", updated.Title)
	assert.Equal(t, p.Content, updated.Content, "absent fields are unchanged")
	assert.Equal(t, []string{"a"}, updated.Tags)
	assert.False(t, updated.UpdatedAt.Before(p.UpdatedAt))
}

func TestService_DeleteOwnership(t *testing.T) {
	svc, store := newService()
	owner := uuid.New()
	p := seedPost(t, store, owner, "Mine", nil, time.Now())
	ctx := context.Background()

	assert.ErrorIs(t, svc.Delete(ctx, uuid.New(), p.ID), post.ErrForbidden)
	assert.Equal(t, 1, store.Len())

	require.NoError(t, svc.Delete(ctx, owner, p.ID))
	assert.Equal(t, 0, store.Len())

	_, err := svc.Get(ctx, p.ID)
	assert.ErrorIs(t, err, post.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, owner, p.ID), post.ErrNotFound)
}
