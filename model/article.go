// model/article.go
package model

import "encoding/json"

type Comment struct {
	Email string `json:"email" bson:"email"`
	Text  string `json:"text" bson:"text"`
}

// Article is one stored document of the articles collection. Fields the
// service does not manage (including _id) are kept in Extra untouched.
type Article struct {
	Name      string                 `json:"name" bson:"name"`
	Upvotes   int                    `json:"upvotes" bson:"upvotes"`
	UpvoteIDs []string               `json:"upvoteIds" bson:"upvoteIds"`
	Comments  []Comment              `json:"comments" bson:"comments"`
	Extra     map[string]interface{} `json:"-" bson:",inline"`
}

// HasUpvoted reports whether uid is already in the upvoter list.
func (a *Article) HasUpvoted(uid string) bool {
	for _, id := range a.UpvoteIDs {
		if id == uid {
			return true
		}
	}
	return false
}

// NormalizedArticle is the response shape of every article route.
type NormalizedArticle struct {
	Article
	CanUpvote bool `json:"canUpvote"`
}

func (n NormalizedArticle) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(n.Extra)+5)
	for k, v := range n.Extra {
		out[k] = v
	}
	out["name"] = n.Name
	out["upvotes"] = n.Upvotes
	out["upvoteIds"] = n.UpvoteIDs
	out["comments"] = n.Comments
	out["canUpvote"] = n.CanUpvote
	return json.Marshal(out)
}
