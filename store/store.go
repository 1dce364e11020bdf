package store

import (
	"context"
	"errors"

	"blog-articles-service/model"
)

const ArticlesCollection = "articles"

var (
	ErrNotFound    = errors.New("article not found")
	ErrUnavailable = errors.New("article store unavailable")
)

// ArticleStore is the document collection holding articles, keyed by name.
// Every mutation is a single atomic operation on the backing store.
type ArticleStore interface {
	FindByName(ctx context.Context, name string) (*model.Article, error)
	// AddUpvote counts uid once. It reports false when uid had already
	// upvoted or the article does not exist.
	AddUpvote(ctx context.Context, name, uid string) (bool, error)
	AppendComment(ctx context.Context, name string, comment model.Comment) error
	ClearInteractions(ctx context.Context, name string) error
	// EnsureArticle creates an empty article if name is unknown.
	EnsureArticle(ctx context.Context, name string) (bool, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
