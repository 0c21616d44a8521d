package post

import (
	"strings"

	"github.com/skinx/blog-api/internal/validation"
)

// CreatePostRequest represents the create post request body
type CreatePostRequest struct {
	Title   string   `json:"title" validate:"min=1,max=200" errmsg:"min=Title is required;max=Title too long"`
	Content string   `json:"content" validate:"min=1,max=10000" errmsg:"min=Content is required;max=Content too long"`
	Tags    []string `json:"tags" validate:"max=10" errmsg:"Maximum 10 tags"`
}

func (r *CreatePostRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Content = strings.TrimSpace(r.Content)
	if r.Tags == nil {
		r.Tags = []string{}
	}
	r.Tags = validation.TrimStrings(r.Tags)
}

// UpdatePostRequest is a partial update; absent fields are left unchanged.
type UpdatePostRequest struct {
	Title   *string   `json:"title" validate:"omitnil,min=1,max=200" errmsg:"min=Title is required;max=Title too long"`
	Content *string   `json:"content" validate:"omitnil,min=1,max=10000" errmsg:"min=Content is required;max=Content too long"`
	Tags    *[]string `json:"tags" validate:"omitnil,max=10" errmsg:"Maximum 10 tags"`
}

func (r *UpdatePostRequest) Normalize() {
	if r.Title != nil {
		trimmed := strings.TrimSpace(*r.Title)
		r.Title = &trimmed
	}
	if r.Content != nil {
		trimmed := strings.TrimSpace(*r.Content)
		r.Content = &trimmed
	}
	if r.Tags != nil {
		tags := validation.TrimStrings(*r.Tags)
		r.Tags = &tags
	}
}

// MaxPageSize caps pageSize on GET /posts.
const MaxPageSize = 100

// ListQuery holds the query string of GET /posts. Empty tag and q mean no
// filter; values are matched as given, without trimming. Out of range page
// and pageSize are clamped by Filter rather than rejected.
type ListQuery struct {
	Tag      string `schema:"tag"`
	Q        string `schema:"q"`
	Page     int    `schema:"page"`
	PageSize int    `schema:"pageSize"`
}

// DefaultListQuery returns the values used for absent query parameters.
func DefaultListQuery() ListQuery {
	return ListQuery{Page: 1, PageSize: 10}
}

// Filter converts the query into a repository filter.
func (q ListQuery) Filter() ListFilter {
	return ListFilter{
		Tag:      q.Tag,
		Query:    q.Q,
		Page:     max(q.Page, 1),
		PageSize: min(max(q.PageSize, 1), MaxPageSize),
	}
}
