package events

import (
	"context"

	"blog-articles-service/model"
)

// Publisher announces interactions that landed on an article.
type Publisher interface {
	Publish(ctx context.Context, event model.InteractionEvent) error
	Close()
}

// NoopPublisher is used when no NATS server is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, model.InteractionEvent) error { return nil }

func (NoopPublisher) Close() {}
