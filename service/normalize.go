package service

import "blog-articles-service/model"

// Normalize fills the fields legacy documents may lack and derives
// canUpvote for viewer. It never mutates article and returns nil for a nil
// article.
func Normalize(article *model.Article, viewer *model.Identity) *model.NormalizedArticle {
	if article == nil {
		return nil
	}

	out := model.NormalizedArticle{Article: *article}
	if out.Comments == nil {
		out.Comments = []model.Comment{}
	}
	if out.UpvoteIDs == nil {
		out.UpvoteIDs = []string{}
	}

	uid := model.UIDOf(viewer)
	out.CanUpvote = uid != "" && !out.HasUpvoted(uid)
	return &out
}
