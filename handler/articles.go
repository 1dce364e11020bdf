package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"blog-articles-service/middleware"
	"blog-articles-service/model"
	"blog-articles-service/service"
	"blog-articles-service/store"

	"github.com/gin-gonic/gin"
)

// ArticleService is the subset of service.ArticleService the handlers use.
type ArticleService interface {
	Get(ctx context.Context, name string, viewer *model.Identity) (*model.NormalizedArticle, error)
	Upvote(ctx context.Context, name string, viewer *model.Identity) (*model.NormalizedArticle, error)
	Comment(ctx context.Context, name string, viewer *model.Identity, text string) (*model.NormalizedArticle, error)
	ClearInteractions(ctx context.Context, name string, viewer *model.Identity) (*model.NormalizedArticle, error)
}

type ArticleHandler struct {
	articles ArticleService
}

func NewArticleHandler(articles ArticleService) *ArticleHandler {
	return &ArticleHandler{articles: articles}
}

type commentRequest struct {
	Text string `json:"text"`
}

func (h *ArticleHandler) GetArticle(c *gin.Context) {
	name := c.Param("name")
	article, err := h.articles.Get(c.Request.Context(), name, middleware.Viewer(c))
	h.respond(c, "GetArticle", name, article, err)
}

func (h *ArticleHandler) Upvote(c *gin.Context) {
	name := c.Param("name")
	article, err := h.articles.Upvote(c.Request.Context(), name, middleware.Viewer(c))
	h.respond(c, "Upvote", name, article, err)
}

func (h *ArticleHandler) AddComment(c *gin.Context) {
	name := c.Param("name")

	// A missing or malformed body is treated as a missing text, which the
	// service reports after the article lookup.
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[WARN] AddComment on %s: unreadable body: %v", name, err)
	}

	article, err := h.articles.Comment(c.Request.Context(), name, middleware.Viewer(c), req.Text)
	h.respond(c, "AddComment", name, article, err)
}

func (h *ArticleHandler) ClearInteractions(c *gin.Context) {
	name := c.Param("name")
	article, err := h.articles.ClearInteractions(c.Request.Context(), name, middleware.Viewer(c))
	h.respond(c, "ClearInteractions", name, article, err)
}

func (h *ArticleHandler) respond(c *gin.Context, op, name string, article *model.NormalizedArticle, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, article)
	case errors.Is(err, service.ErrArticleNotFound):
		log.Printf("[INFO] %s: article %s not found", op, name)
		c.String(http.StatusNotFound, "Article not found.")
	case errors.Is(err, service.ErrCommentRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment is required."})
	case errors.Is(err, store.ErrUnavailable):
		log.Printf("[ERROR] %s on %s failed: %v", op, name, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Article store unavailable."})
	default:
		log.Printf("[ERROR] %s on %s failed: %v", op, name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error."})
	}
}
