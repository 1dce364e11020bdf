package router

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"blog-articles-service/auth"
	"blog-articles-service/handler"
	"blog-articles-service/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const ServiceName = "blog-articles-service"

// Pinger reports whether the article store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Options struct {
	Articles    handler.ArticleService
	Verifier    auth.Verifier
	Store       Pinger
	StaticDir   string
	CORSOrigins []string
}

func Setup(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.Prometheus(ServiceName))
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": ServiceName})
	})
	r.GET("/ready", readiness(opts.Store))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	articles := handler.NewArticleHandler(opts.Articles)

	api := r.Group("/api", middleware.Authenticate(opts.Verifier))
	{
		api.GET("/articles/:name", articles.GetArticle)

		mutating := api.Group("", middleware.RequireIdentity())
		mutating.PUT("/articles/:name/upvote", articles.Upvote)
		mutating.POST("/articles/:name/comments", articles.AddComment)
		mutating.PUT("/articles/:name/clear-interactions", articles.ClearInteractions)
	}

	r.NoRoute(spa(opts.StaticDir))
	return r
}

func corsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", middleware.TokenHeader}
	config.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	return config
}

func readiness(store Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if store != nil {
			if err := store.Ping(ctx); err != nil {
				log.Printf("[ERROR] Readiness check failed: %v", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "service": ServiceName})
	}
}

// spa serves files from the frontend build and falls back to index.html for
// client side routes. Unknown /api paths stay 404.
func spa(staticDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/api" || strings.HasPrefix(path, "/api/") || staticDir == "" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found."})
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Status(http.StatusMethodNotAllowed)
			return
		}

		file := filepath.Join(staticDir, filepath.FromSlash(filepath.Clean("/"+path)))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}

		index := filepath.Join(staticDir, "index.html")
		if _, err := os.Stat(index); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found."})
			return
		}
		c.File(index)
	}
}
