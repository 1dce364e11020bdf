package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blog-articles-service/auth"
	"blog-articles-service/config"
	"blog-articles-service/events"
	"blog-articles-service/metrics"
	"blog-articles-service/router"
	"blog-articles-service/service"
	"blog-articles-service/store"

	"github.com/gin-gonic/gin"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	metrics.Init(router.ServiceName, version, cfg.Environment)

	ctx := context.Background()

	articleStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open article store: ", err)
	}
	defer articleStore.Close(context.Background())

	verifier, err := newVerifier(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize identity verifier: ", err)
	}

	publisher := newPublisher(cfg)
	defer publisher.Close()

	articles := service.NewArticleService(articleStore, publisher, service.NewAdminPolicy(cfg.AdminEmails, cfg.AdminClaim))

	r := router.Setup(router.Options{
		Articles:    articles,
		Verifier:    verifier,
		Store:       articleStore,
		StaticDir:   cfg.StaticDir,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	go func() {
		log.Printf("[INFO] Server is listening on port %d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[INFO] Shutting down blog articles service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] Server forced to shutdown: %v", err)
	}

	log.Println("[INFO] Blog articles service stopped")
}

func openStore(ctx context.Context, cfg config.Config) (store.ArticleStore, error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		log.Println("[WARN] Using in-memory article store; data is lost on restart")
		return store.NewMemoryStore(), nil
	case config.StoreMongo:
		return store.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.StoreTimeout)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func newVerifier(ctx context.Context, cfg config.Config) (auth.Verifier, error) {
	switch cfg.AuthMode {
	case config.AuthLocal:
		log.Println("[WARN] Using local HMAC token verification; do not use in production")
		return auth.NewLocalVerifier(cfg.AuthSecret), nil
	case config.AuthFirebase:
		return auth.NewFirebaseVerifier(ctx, cfg.CredentialsPath)
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.AuthMode)
	}
}

func newPublisher(cfg config.Config) events.Publisher {
	if cfg.NATSURL == "" {
		log.Println("[INFO] NATS_URL not set, interaction events are not published")
		return events.NoopPublisher{}
	}
	p, err := events.NewNATSPublisher(events.NATSConfig{URL: cfg.NATSURL, Subject: cfg.NATSSubject})
	if err != nil {
		log.Printf("[WARN] NATS unavailable, interaction events are not published: %v", err)
		return events.NoopPublisher{}
	}
	return p
}
