// Package content is a small content model used to exercise the package
// analyzer: embedded bases, iterator shapes, generic containers and
// constructor functions.
package content

import (
	"time"
)

// Node is the common root of every stored content item.
type Node struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNode creates a node.
func NewNode(id int64, name string) *Node {
	return &Node{ID: id, Name: name, CreatedAt: time.Now()}
}

// Article is a node with a title and body.
type Article struct {
	Node

	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
}

// NewArticle creates an article with an empty body.
func NewArticle(title string) *Article {
	return &Article{Title: title}
}

// NewArticleWithBody creates an article.
func NewArticleWithBody(title, body string) *Article {
	return &Article{Title: title, Body: body}
}

func (a *Article) Render() string { return a.Title + "\n\n" + a.Body }

func (a *Article) Headline() string { return a.Title }

// NewsArticle is an article attributed to an outside source. It has no
// constructor of its own.
type NewsArticle struct {
	*Article

	Source string `json:"source"`
}

// Renderer renders content to text.
type Renderer interface {
	Render() string
}

// Document is renderable content with a headline.
type Document interface {
	Renderer
	Headline() string
}
