package post

import (
	"time"

	"github.com/google/uuid"
)

// Post is a blog entry. PostedBy is a display-name snapshot taken at creation
// and is not kept in sync with the author's account.
type Post struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	PostedAt  time.Time `json:"postedAt"`
	PostedBy  string    `json:"postedBy"`
	AuthorID  uuid.UUID `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListFilter selects and pages posts. Tag is an exact member match, Query a
// case-insensitive substring of title or content.
type ListFilter struct {
	Tag      string
	Query    string
	Page     int
	PageSize int
}

// Offset is the number of rows skipped before the requested page.
func (f ListFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// ListResult is one page of posts plus the total across all pages.
type ListResult struct {
	Items    []*Post `json:"items"`
	Total    int     `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"pageSize"`
}
