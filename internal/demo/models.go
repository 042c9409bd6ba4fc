// Package demo holds the blog entities used by the CLI and integration tests.
package demo

import (
	"context"
	"fmt"

	"github.com/goliatone/go-admingen/pkg/entity"
	"github.com/goliatone/go-admingen/pkg/repository"
)

// Author writes posts.
type Author struct {
	entity.Model
	Name  string `gorm:"size:120;not null" json:"name"`
	Email string `gorm:"size:255" json:"email"`
}

// Post is the main admin-managed entity. Author is a belongs-to relation and
// Meta a has-one relation.
type Post struct {
	entity.Model
	Title     string    `gorm:"size:255;not null" json:"title"`
	Body      string    `json:"body"`
	Status    string    `gorm:"size:20;default:draft" json:"status"`
	Views     int       `json:"views"`
	Published bool      `json:"published"`
	Cover     string    `json:"cover"`
	AuthorID  *uint     `json:"author_id"`
	Author    *Author   `json:"author,omitempty"`
	Meta      *PostMeta `json:"meta,omitempty"`
}

// PostMeta carries SEO metadata owned by a post.
type PostMeta struct {
	entity.Model
	PostID   uint   `gorm:"uniqueIndex" json:"post_id"`
	Keywords string `json:"keywords"`
}

// Models lists every demo entity for migrations.
func Models() []any {
	return []any{&Author{}, &Post{}, &PostMeta{}}
}

// Seed inserts a small data set: two authors, three posts, one of them
// trashed.
func Seed(ctx context.Context, repo repository.Repository) error {
	authors := []*Author{
		{Name: "Ada", Email: "ada@example.com"},
		{Name: "Linus", Email: "linus@example.com"},
	}
	for _, author := range authors {
		if err := repo.Save(ctx, author); err != nil {
			return fmt.Errorf("demo: seed author: %w", err)
		}
	}

	posts := []*Post{
		{Title: "Hello admin", Body: "First post", Status: "published", Published: true, AuthorID: &authors[0].ID},
		{Title: "Drafting", Body: "Work in progress", Status: "draft", AuthorID: &authors[1].ID},
		{Title: "Old news", Body: "Trashed on purpose", Status: "published"},
	}
	for _, post := range posts {
		if err := repo.Save(ctx, post); err != nil {
			return fmt.Errorf("demo: seed post: %w", err)
		}
	}
	if err := repo.Delete(ctx, posts[2]); err != nil {
		return fmt.Errorf("demo: seed trashed post: %w", err)
	}
	return nil
}
