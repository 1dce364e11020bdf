package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"blog-articles-service/model"
	"blog-articles-service/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.InteractionEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e model.InteractionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() {}

func (p *recordingPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		out = append(out, e.Action)
	}
	return out
}

type brokenStore struct {
	store.ArticleStore
}

func (brokenStore) FindByName(context.Context, string) (*model.Article, error) {
	return nil, fmt.Errorf("find: %w", store.ErrUnavailable)
}

var (
	viewer1 = &model.Identity{UID: "u1", Email: "e1"}
	viewer2 = &model.Identity{UID: "u2", Email: "e2"}
	admin   = &model.Identity{UID: "root", Email: DefaultAdminEmail}
)

func newTestService(articles ...model.Article) (*ArticleService, *store.MemoryStore, *recordingPublisher) {
	st := store.NewMemoryStore(articles...)
	pub := &recordingPublisher{}
	return NewArticleService(st, pub, NewAdminPolicy([]string{DefaultAdminEmail}, "admin")), st, pub
}

func hello() model.Article {
	return model.Article{Name: "hello", UpvoteIDs: []string{}, Comments: []model.Comment{}}
}

func TestGetUnknownArticle(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.Get(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, ErrArticleNotFound)
}

func TestUpvoteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _, pub := newTestService(hello())

	first, err := svc.Upvote(ctx, "hello", viewer1)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Upvotes)
	assert.Equal(t, []string{"u1"}, first.UpvoteIDs)
	assert.False(t, first.CanUpvote)

	second, err := svc.Upvote(ctx, "hello", viewer1)
	require.NoError(t, err)
	assert.Equal(t, first.Upvotes, second.Upvotes)
	assert.Equal(t, first.UpvoteIDs, second.UpvoteIDs)

	assert.Equal(t, []string{model.ActionUpvoted}, pub.actions())
}

func TestUpvoteByAnonymousIsNoop(t *testing.T) {
	svc, _, pub := newTestService(hello())

	got, err := svc.Upvote(context.Background(), "hello", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Upvotes)
	assert.False(t, got.CanUpvote)
	assert.Empty(t, pub.actions())
}

func TestConcurrentUpvotesFromDistinctViewers(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newTestService(hello())

	var wg sync.WaitGroup
	for _, v := range []*model.Identity{viewer1, viewer2} {
		wg.Add(1)
		go func(v *model.Identity) {
			defer wg.Done()
			_, err := svc.Upvote(ctx, "hello", v)
			assert.NoError(t, err)
		}(v)
	}
	wg.Wait()

	a, err := st.FindByName(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, 2, a.Upvotes)
	assert.ElementsMatch(t, []string{"u1", "u2"}, a.UpvoteIDs)
}

func TestCommentsKeepOrder(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(hello())

	var got *model.NormalizedArticle
	var want []model.Comment
	for i := 0; i < 4; i++ {
		text := fmt.Sprintf("comment %d", i)
		var err error
		got, err = svc.Comment(ctx, "hello", viewer1, text)
		require.NoError(t, err)
		want = append(want, model.Comment{Email: "e1", Text: text})
	}
	assert.Equal(t, want, got.Comments)
}

func TestCommentRequiresText(t *testing.T) {
	ctx := context.Background()
	svc, st, pub := newTestService(hello())

	_, err := svc.Comment(ctx, "hello", viewer1, "")
	assert.ErrorIs(t, err, ErrCommentRequired)

	a, err := st.FindByName(ctx, "hello")
	require.NoError(t, err)
	assert.Empty(t, a.Comments)
	assert.Empty(t, pub.actions())
}

func TestCommentWhitespaceTextIsStoredAsIs(t *testing.T) {
	svc, _, _ := newTestService(hello())

	got, err := svc.Comment(context.Background(), "hello", viewer1, "   ")
	require.NoError(t, err)
	assert.Equal(t, []model.Comment{{Email: "e1", Text: "   "}}, got.Comments)
}

func TestCommentOnUnknownArticleIsNotFoundEvenWithoutText(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.Comment(context.Background(), "missing", viewer1, "")
	assert.ErrorIs(t, err, ErrArticleNotFound)
}

func TestClearInteractionsByNonAdminIsNoop(t *testing.T) {
	ctx := context.Background()
	seeded := model.Article{
		Name:      "hello",
		Upvotes:   1,
		UpvoteIDs: []string{"u1"},
		Comments:  []model.Comment{{Email: "e1", Text: "nice"}},
	}
	svc, _, pub := newTestService(seeded)

	got, err := svc.ClearInteractions(ctx, "hello", viewer2)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Upvotes)
	assert.Equal(t, []string{"u1"}, got.UpvoteIDs)
	assert.Equal(t, seeded.Comments, got.Comments)
	assert.Empty(t, pub.actions())
}

func TestEndToEndScenario(t *testing.T) {
	ctx := context.Background()
	svc, _, pub := newTestService(hello())

	got, err := svc.Upvote(ctx, "hello", viewer1)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Upvotes)
	assert.Equal(t, []string{"u1"}, got.UpvoteIDs)
	assert.False(t, got.CanUpvote)

	got, err = svc.Upvote(ctx, "hello", viewer1)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Upvotes)

	got, err = svc.Comment(ctx, "hello", viewer1, "nice")
	require.NoError(t, err)
	assert.Equal(t, []model.Comment{{Email: "e1", Text: "nice"}}, got.Comments)

	got, err = svc.ClearInteractions(ctx, "hello", admin)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Upvotes)
	assert.Empty(t, got.UpvoteIDs)
	assert.Empty(t, got.Comments)
	assert.True(t, got.CanUpvote)

	assert.Equal(t, []string{model.ActionUpvoted, model.ActionCommented, model.ActionCleared}, pub.actions())
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	svc, _, pub := newTestService(hello())
	pub.err = errors.New("nats down")

	got, err := svc.Upvote(context.Background(), "hello", viewer1)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Upvotes)
}

func TestStoreUnavailablePropagates(t *testing.T) {
	svc := NewArticleService(brokenStore{}, nil, NewAdminPolicy(nil, ""))
	_, err := svc.Get(context.Background(), "hello", nil)
	assert.ErrorIs(t, err, store.ErrUnavailable)
	assert.NotErrorIs(t, err, ErrArticleNotFound)
}
