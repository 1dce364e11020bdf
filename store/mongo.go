package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"blog-articles-service/metrics"
	"blog-articles-service/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	timeout    time.Duration
}

// ConnectMongo dials uri, pings the server and makes sure the unique name
// index exists.
func ConnectMongo(ctx context.Context, uri, database string, timeout time.Duration) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	s := NewMongoStore(client, client.Database(database), timeout)
	if err := s.Ping(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	log.Printf("[INFO] Connected to MongoDB database=%s collection=%s", database, ArticlesCollection)
	return s, nil
}

func NewMongoStore(client *mongo.Client, db *mongo.Database, timeout time.Duration) *MongoStore {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &MongoStore{
		client:     client,
		collection: db.Collection(ArticlesCollection),
		timeout:    timeout,
	}
}

func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("name_unique"),
	})
	if err != nil {
		return fmt.Errorf("create name index: %w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *MongoStore) FindByName(ctx context.Context, name string) (*model.Article, error) {
	var article model.Article
	err := s.observe(ctx, "find_one", func(ctx context.Context) error {
		return s.collection.FindOne(ctx, nameFilter(name)).Decode(&article)
	})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find article %q: %w: %v", name, ErrUnavailable, err)
	}
	return &article, nil
}

func (s *MongoStore) AddUpvote(ctx context.Context, name, uid string) (bool, error) {
	var res *mongo.UpdateResult
	err := s.observe(ctx, "upvote", func(ctx context.Context) error {
		var err error
		res, err = s.collection.UpdateOne(ctx, upvoteFilter(name, uid), upvoteUpdate(uid))
		return err
	})
	if err != nil {
		return false, fmt.Errorf("upvote article %q: %w: %v", name, ErrUnavailable, err)
	}
	return res.ModifiedCount == 1, nil
}

func (s *MongoStore) AppendComment(ctx context.Context, name string, comment model.Comment) error {
	var res *mongo.UpdateResult
	err := s.observe(ctx, "append_comment", func(ctx context.Context) error {
		var err error
		res, err = s.collection.UpdateOne(ctx, nameFilter(name), commentUpdate(comment))
		return err
	})
	if err != nil {
		return fmt.Errorf("comment on article %q: %w: %v", name, ErrUnavailable, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) ClearInteractions(ctx context.Context, name string) error {
	var res *mongo.UpdateResult
	err := s.observe(ctx, "clear_interactions", func(ctx context.Context) error {
		var err error
		res, err = s.collection.UpdateOne(ctx, nameFilter(name), clearUpdate())
		return err
	})
	if err != nil {
		return fmt.Errorf("clear article %q: %w: %v", name, ErrUnavailable, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) EnsureArticle(ctx context.Context, name string) (bool, error) {
	var res *mongo.UpdateResult
	err := s.observe(ctx, "ensure_article", func(ctx context.Context) error {
		var err error
		res, err = s.collection.UpdateOne(ctx, nameFilter(name), seedUpdate(), options.Update().SetUpsert(true))
		return err
	})
	if err != nil {
		return false, fmt.Errorf("seed article %q: %w: %v", name, ErrUnavailable, err)
	}
	return res.UpsertedCount == 1, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongo ping: %w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// observe runs op under the store timeout and records mongo metrics.
// ErrNoDocuments counts as a successful lookup.
func (s *MongoStore) observe(ctx context.Context, operation string, op func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err := op(ctx)
	metrics.MongoOperationDuration.WithLabelValues(operation, ArticlesCollection).Observe(time.Since(start).Seconds())

	status := "success"
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		status = "error"
		log.Printf("[ERROR] Mongo %s on %s failed: %v", operation, ArticlesCollection, err)
	}
	metrics.MongoOperationsTotal.WithLabelValues(operation, ArticlesCollection, status).Inc()
	return err
}

func nameFilter(name string) bson.M {
	return bson.M{"name": name}
}

// upvoteFilter only matches while uid is absent, so the increment and the
// append can never apply twice for the same viewer.
func upvoteFilter(name, uid string) bson.M {
	return bson.M{"name": name, "upvoteIds": bson.M{"$ne": uid}}
}

func upvoteUpdate(uid string) bson.M {
	return bson.M{
		"$inc":  bson.M{"upvotes": 1},
		"$push": bson.M{"upvoteIds": uid},
	}
}

func commentUpdate(comment model.Comment) bson.M {
	return bson.M{
		"$push": bson.M{"comments": bson.M{"email": comment.Email, "text": comment.Text}},
	}
}

func clearUpdate() bson.M {
	return bson.M{
		"$set": bson.M{"upvotes": 0, "upvoteIds": bson.A{}, "comments": bson.A{}},
	}
}

// seedUpdate relies on the upsert copying name from the filter.
func seedUpdate() bson.M {
	return bson.M{
		"$setOnInsert": bson.M{"upvotes": 0, "upvoteIds": bson.A{}, "comments": bson.A{}},
	}
}
