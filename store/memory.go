package store

import (
	"context"
	"sync"

	"blog-articles-service/model"
)

// MemoryStore keeps articles in process. It backs STORE_BACKEND=memory for
// local development and the handler tests.
type MemoryStore struct {
	mu       sync.RWMutex
	articles map[string]*model.Article
}

func NewMemoryStore(articles ...model.Article) *MemoryStore {
	s := &MemoryStore{articles: make(map[string]*model.Article, len(articles))}
	for _, a := range articles {
		a := a
		s.articles[a.Name] = cloneArticle(&a)
	}
	return s
}

func (s *MemoryStore) FindByName(_ context.Context, name string) (*model.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.articles[name]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneArticle(a), nil
}

func (s *MemoryStore) AddUpvote(_ context.Context, name, uid string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.articles[name]
	if !ok || a.HasUpvoted(uid) {
		return false, nil
	}
	a.Upvotes++
	a.UpvoteIDs = append(a.UpvoteIDs, uid)
	return true, nil
}

func (s *MemoryStore) AppendComment(_ context.Context, name string, comment model.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.articles[name]
	if !ok {
		return ErrNotFound
	}
	a.Comments = append(a.Comments, comment)
	return nil
}

func (s *MemoryStore) ClearInteractions(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.articles[name]
	if !ok {
		return ErrNotFound
	}
	a.Upvotes = 0
	a.UpvoteIDs = []string{}
	a.Comments = []model.Comment{}
	return nil
}

func (s *MemoryStore) EnsureArticle(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.articles[name]; ok {
		return false, nil
	}
	s.articles[name] = &model.Article{Name: name, UpvoteIDs: []string{}, Comments: []model.Comment{}}
	return true, nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close(context.Context) error { return nil }

// cloneArticle copies the slices so callers never alias stored state. Nil
// slices stay nil to mirror documents that lack the field.
func cloneArticle(a *model.Article) *model.Article {
	c := *a
	if a.UpvoteIDs != nil {
		c.UpvoteIDs = append([]string{}, a.UpvoteIDs...)
	}
	if a.Comments != nil {
		c.Comments = append([]model.Comment{}, a.Comments...)
	}
	if a.Extra != nil {
		c.Extra = make(map[string]interface{}, len(a.Extra))
		for k, v := range a.Extra {
			c.Extra[k] = v
		}
	}
	return &c
}
