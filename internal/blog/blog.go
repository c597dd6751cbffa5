package blog

import (
	"errors"
	"time"
)

var (
	ErrBlogNotFound    = errors.New("blog post not found")
	ErrBlogFieldsEmpty = errors.New("blog post fields empty")
)

type Blog struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Snippet   string    `json:"snippet"`
	Sector    string    `json:"sector"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// Fields holds the caller-supplied part of a blog post, i.e. everything
// except the server-assigned id and creation timestamp.
type Fields struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Snippet string `json:"snippet"`
	Sector  string `json:"sector"`
	Author  string `json:"author"`
}

func (f Fields) Empty() bool {
	return f.Title == "" || f.Content == "" || f.Snippet == "" || f.Sector == "" || f.Author == ""
}
