package service

import (
	"context"
	"errors"
	"log"
	"time"

	"blog-articles-service/events"
	"blog-articles-service/metrics"
	"blog-articles-service/model"
	"blog-articles-service/store"
)

var (
	ErrArticleNotFound = errors.New("article not found")
	ErrCommentRequired = errors.New("comment is required")
)

// ArticleService runs every article route as load, conditional mutation,
// reload and normalize.
type ArticleService struct {
	store     store.ArticleStore
	publisher events.Publisher
	admins    AdminPolicy
	now       func() time.Time
}

func NewArticleService(s store.ArticleStore, p events.Publisher, admins AdminPolicy) *ArticleService {
	if p == nil {
		p = events.NoopPublisher{}
	}
	return &ArticleService{store: s, publisher: p, admins: admins, now: time.Now}
}

func (s *ArticleService) Get(ctx context.Context, name string, viewer *model.Identity) (*model.NormalizedArticle, error) {
	article, err := s.load(ctx, name)
	if err != nil {
		return nil, err
	}
	return Normalize(article, viewer), nil
}

// Upvote counts viewer once. Anonymous viewers and repeat upvotes are
// no-ops that still return the current article.
func (s *ArticleService) Upvote(ctx context.Context, name string, viewer *model.Identity) (*model.NormalizedArticle, error) {
	article, err := s.load(ctx, name)
	if err != nil {
		return nil, err
	}

	uid := model.UIDOf(viewer)
	applied := false
	if uid != "" && !article.HasUpvoted(uid) {
		applied, err = s.store.AddUpvote(ctx, name, uid)
		if err != nil {
			return nil, err
		}
	}
	s.count(model.ActionUpvoted, applied)

	updated, err := s.load(ctx, name)
	if err != nil {
		return nil, err
	}
	if applied {
		log.Printf("[INFO] Article %s upvoted by %s", name, uid)
		s.publish(ctx, model.InteractionEvent{
			Action:   model.ActionUpvoted,
			Article:  name,
			UID:      uid,
			Upvotes:  updated.Upvotes,
			Comments: len(updated.Comments),
		})
	}
	return Normalize(updated, viewer), nil
}

// Comment appends text under the viewer's email. A missing article wins
// over a missing text.
func (s *ArticleService) Comment(ctx context.Context, name string, viewer *model.Identity, text string) (*model.NormalizedArticle, error) {
	if _, err := s.load(ctx, name); err != nil {
		return nil, err
	}
	if text == "" {
		metrics.ArticleInteractions.WithLabelValues(model.ActionCommented, "rejected").Inc()
		return nil, ErrCommentRequired
	}

	comment := model.Comment{Text: text}
	if viewer != nil {
		comment.Email = viewer.Email
	}
	if err := s.store.AppendComment(ctx, name, comment); err != nil {
		return nil, s.mapNotFound(err)
	}
	s.count(model.ActionCommented, true)

	updated, err := s.load(ctx, name)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, model.InteractionEvent{
		Action:   model.ActionCommented,
		Article:  name,
		UID:      model.UIDOf(viewer),
		Email:    comment.Email,
		Text:     text,
		Upvotes:  updated.Upvotes,
		Comments: len(updated.Comments),
	})
	return Normalize(updated, viewer), nil
}

// ClearInteractions resets upvotes and comments when viewer is an admin.
// For anyone else it is a no-op returning the current article.
func (s *ArticleService) ClearInteractions(ctx context.Context, name string, viewer *model.Identity) (*model.NormalizedArticle, error) {
	if _, err := s.load(ctx, name); err != nil {
		return nil, err
	}

	cleared := s.admins.IsAdmin(viewer)
	if cleared {
		if err := s.store.ClearInteractions(ctx, name); err != nil {
			return nil, s.mapNotFound(err)
		}
		log.Printf("[INFO] Cleared all interactions for %s", name)
	} else {
		log.Printf("[WARN] Clear interactions on %s refused for uid=%s", name, model.UIDOf(viewer))
	}
	s.count(model.ActionCleared, cleared)

	updated, err := s.load(ctx, name)
	if err != nil {
		return nil, err
	}
	if cleared {
		s.publish(ctx, model.InteractionEvent{
			Action:  model.ActionCleared,
			Article: name,
			UID:     model.UIDOf(viewer),
			Email:   viewer.Email,
		})
	}
	return Normalize(updated, viewer), nil
}

func (s *ArticleService) load(ctx context.Context, name string) (*model.Article, error) {
	article, err := s.store.FindByName(ctx, name)
	if err != nil {
		return nil, s.mapNotFound(err)
	}
	return article, nil
}

func (s *ArticleService) mapNotFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrArticleNotFound
	}
	return err
}

func (s *ArticleService) count(action string, applied bool) {
	outcome := "skipped"
	if applied {
		outcome = "applied"
	}
	metrics.ArticleInteractions.WithLabelValues(action, outcome).Inc()
}

// publish never fails the request; the mutation has already landed.
func (s *ArticleService) publish(ctx context.Context, event model.InteractionEvent) {
	event.At = s.now()
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Printf("[WARN] Failed to publish %s event for %s: %v", event.Action, event.Article, err)
	}
}
