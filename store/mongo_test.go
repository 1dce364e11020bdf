package store

import (
	"testing"

	"blog-articles-service/model"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestUpvoteFilterExcludesExistingUpvoter(t *testing.T) {
	assert.Equal(t, bson.M{"name": "hello", "upvoteIds": bson.M{"$ne": "u1"}}, upvoteFilter("hello", "u1"))
}

func TestUpvoteUpdateCombinesIncAndPush(t *testing.T) {
	update := upvoteUpdate("u1")
	assert.Equal(t, bson.M{"upvotes": 1}, update["$inc"])
	assert.Equal(t, bson.M{"upvoteIds": "u1"}, update["$push"])
}

func TestCommentUpdateAppendsEmailAndText(t *testing.T) {
	update := commentUpdate(model.Comment{Email: "e1", Text: "nice"})
	assert.Equal(t, bson.M{"comments": bson.M{"email": "e1", "text": "nice"}}, update["$push"])
}

func TestClearUpdateResetsAllInteractions(t *testing.T) {
	set, ok := clearUpdate()["$set"].(bson.M)
	assert.True(t, ok)
	assert.Equal(t, 0, set["upvotes"])
	assert.Equal(t, bson.A{}, set["upvoteIds"])
	assert.Equal(t, bson.A{}, set["comments"])
}

func TestSeedUpdateOnlySetsOnInsert(t *testing.T) {
	update := seedUpdate()
	assert.Len(t, update, 1)
	assert.Contains(t, update, "$setOnInsert")
}

func TestArticleDecodeKeepsUnknownFields(t *testing.T) {
	raw, err := bson.Marshal(bson.M{
		"name":    "hello",
		"upvotes": int32(2),
		"title":   "Hello world",
	})
	assert.NoError(t, err)

	var a model.Article
	assert.NoError(t, bson.Unmarshal(raw, &a))
	assert.Equal(t, "hello", a.Name)
	assert.Equal(t, 2, a.Upvotes)
	assert.Nil(t, a.UpvoteIDs)
	assert.Equal(t, "Hello world", a.Extra["title"])
}
