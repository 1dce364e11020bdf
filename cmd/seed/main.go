package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"blog-articles-service/store"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// seedFile lists the articles the blog frontend links to.
type seedFile struct {
	Articles []string `yaml:"articles"`
}

func main() {
	file := pflag.String("file", "articles.yaml", "YAML file with an articles list")
	mongoURI := pflag.String("mongo-uri", envOr("MONGO_URI", "mongodb://127.0.0.1:27017"), "MongoDB connection string")
	database := pflag.String("database", envOr("MONGO_DATABASE", "react-blog-db"), "MongoDB database")
	pflag.Parse()

	names, err := readSeedFile(*file)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	st, err := store.ConnectMongo(ctx, *mongoURI, *database, 0)
	if err != nil {
		log.Fatal("MongoDB connection error: ", err)
	}
	defer st.Close(ctx)

	created, err := seed(ctx, st, names)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("[INFO] Seeded %d new articles (%d listed)", created, len(names))
}

func readSeedFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	if len(f.Articles) == 0 {
		return nil, fmt.Errorf("seed file %s lists no articles", path)
	}
	return f.Articles, nil
}

// seed creates missing articles; existing ones keep their interactions.
func seed(ctx context.Context, st store.ArticleStore, names []string) (int, error) {
	created := 0
	for _, name := range names {
		ok, err := st.EnsureArticle(ctx, name)
		if err != nil {
			return created, err
		}
		if ok {
			created++
			log.Printf("[INFO] Created article %s", name)
		}
	}
	return created, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
