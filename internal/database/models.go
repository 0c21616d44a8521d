package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the persisted form of an account.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           uuid.UUID `bun:"id,pk,type:uuid"`
	Email        string    `bun:"email,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Post is the persisted form of a blog post. Tags map to a text[] column.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:p"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	Title     string    `bun:"title,notnull"`
	Content   string    `bun:"content,notnull"`
	Tags      []string  `bun:"tags,array,notnull"`
	PostedAt  time.Time `bun:"posted_at,nullzero,notnull,default:current_timestamp"`
	PostedBy  string    `bun:"posted_by,notnull"`
	AuthorID  uuid.UUID `bun:"author_id,type:uuid,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
