package client

import "time"

// User is the account summary returned with a session.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is returned by register and login.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Profile is the body of GET /auth/me.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	PostedAt  time.Time `json:"postedAt"`
	PostedBy  string    `json:"postedBy"`
	AuthorID  string    `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PostList is one page of GET /posts.
type PostList struct {
	Items    []Post `json:"items"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

// ListParams filters GET /posts. Zero values are omitted from the query.
type ListParams struct {
	Tag      string
	Q        string
	Page     int
	PageSize int
}

// PostInput is the body of POST /posts.
type PostInput struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"`
}

// PostPatch is the body of PUT /posts/{id}; nil fields are left unchanged.
type PostPatch struct {
	Title   *string   `json:"title,omitempty"`
	Content *string   `json:"content,omitempty"`
	Tags    *[]string `json:"tags,omitempty"`
}

// Health is the body of GET /health.
type Health struct {
	OK        bool              `json:"ok"`
	Timestamp time.Time         `json:"timestamp"`
	Database  string            `json:"database"`
	Error     string            `json:"error,omitempty"`
	Checks    map[string]string `json:"checks"`
}
