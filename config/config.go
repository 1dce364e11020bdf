package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"

	AuthFirebase = "firebase"
	AuthLocal    = "local"
)

type Config struct {
	Port          int           `yaml:"port"`
	Environment   string        `yaml:"environment"`
	StoreBackend  string        `yaml:"storeBackend"`
	MongoURI      string        `yaml:"mongoURI"`
	MongoDatabase string        `yaml:"mongoDatabase"`
	StoreTimeout  time.Duration `yaml:"storeTimeout"`
	AuthMode      string        `yaml:"authMode"`
	// CredentialsPath points at the Firebase service account JSON.
	CredentialsPath string   `yaml:"credentialsPath"`
	AuthSecret      string   `yaml:"authSecret"`
	AdminEmails     []string `yaml:"adminEmails"`
	AdminClaim      string   `yaml:"adminClaim"`
	NATSURL         string   `yaml:"natsURL"`
	NATSSubject     string   `yaml:"natsSubject"`
	StaticDir       string   `yaml:"staticDir"`
	CORSOrigins     []string `yaml:"corsOrigins"`
}

func Default() Config {
	return Config{
		Port:            8000,
		Environment:     "development",
		StoreBackend:    StoreMongo,
		MongoURI:        "mongodb://127.0.0.1:27017",
		MongoDatabase:   "react-blog-db",
		StoreTimeout:    10 * time.Second,
		AuthMode:        AuthFirebase,
		CredentialsPath: "./credentials.json",
		AdminEmails:     []string{"admin@my-blog.com"},
		AdminClaim:      "admin",
		NATSSubject:     "articles.interactions",
		StaticDir:       "./build",
		CORSOrigins:     []string{"*"},
	}
}

// Load builds the configuration from, in increasing precedence: defaults,
// the YAML file given by --config, a .env file, environment variables and
// command line flags.
func Load(args []string) (Config, error) {
	fs := pflag.NewFlagSet("blog-articles-service", pflag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML config file")
	envFile := fs.String("env-file", ".env", "path to a dotenv file, ignored when missing")
	port := fs.Int("port", 0, "listening port (overrides PORT)")
	storeBackend := fs.String("store", "", "article store backend: mongo or memory")
	authMode := fs.String("auth", "", "identity verifier: firebase or local")
	credentials := fs.String("credentials", "", "path to the Firebase credentials file")
	staticDir := fs.String("static-dir", "", "frontend build directory")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Default()
	if *configPath != "" {
		if err := cfg.loadFile(*configPath); err != nil {
			return Config{}, err
		}
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", *envFile, err)
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if fs.Changed("port") {
		cfg.Port = *port
	}
	if fs.Changed("store") {
		cfg.StoreBackend = *storeBackend
	}
	if fs.Changed("auth") {
		cfg.AuthMode = *authMode
	}
	if fs.Changed("credentials") {
		cfg.CredentialsPath = *credentials
	}
	if fs.Changed("static-dir") {
		cfg.StaticDir = *staticDir
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	log.Printf("[INFO] Config: port=%d env=%s store=%s db=%s auth=%s nats=%t admins=%v",
		cfg.Port, cfg.Environment, cfg.StoreBackend, cfg.MongoDatabase, cfg.AuthMode, cfg.NATSURL != "", cfg.AdminEmails)
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Port = port
	}
	if v := os.Getenv("STORE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid STORE_TIMEOUT %q: %w", v, err)
		}
		c.StoreTimeout = d
	}

	setString(&c.Environment, "ENVIRONMENT")
	setString(&c.StoreBackend, "STORE_BACKEND")
	setString(&c.MongoURI, "MONGO_URI")
	setString(&c.MongoDatabase, "MONGO_DATABASE")
	setString(&c.AuthMode, "AUTH_MODE")
	setString(&c.CredentialsPath, "CREDENTIALS_PATH")
	setString(&c.AuthSecret, "AUTH_SECRET")
	setString(&c.AdminClaim, "ADMIN_CLAIM")
	setString(&c.NATSURL, "NATS_URL")
	setString(&c.NATSSubject, "NATS_SUBJECT")
	setString(&c.StaticDir, "STATIC_DIR")
	setList(&c.AdminEmails, "ADMIN_EMAILS")
	setList(&c.CORSOrigins, "CORS_ORIGINS")
	return nil
}

func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	switch c.StoreBackend {
	case StoreMongo:
		if c.MongoURI == "" || c.MongoDatabase == "" {
			return errors.New("mongo store needs MONGO_URI and MONGO_DATABASE")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}
	switch c.AuthMode {
	case AuthFirebase:
		if c.CredentialsPath == "" {
			return errors.New("firebase auth needs CREDENTIALS_PATH")
		}
	case AuthLocal:
		if c.AuthSecret == "" {
			return errors.New("local auth needs AUTH_SECRET")
		}
	default:
		return fmt.Errorf("unknown auth mode %q", c.AuthMode)
	}
	if len(c.AdminEmails) == 0 && c.AdminClaim == "" {
		log.Printf("[WARN] No admin emails or admin claim configured; clear-interactions is disabled")
	}
	return nil
}

func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setList(dst *[]string, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	*dst = out
}
