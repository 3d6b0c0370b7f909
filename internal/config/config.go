package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Store     StoreConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Scraper   ScraperConfig
	Generator GeneratorConfig
	Refresh   RefreshConfig
	MinIO     MinIOConfig
	Auth      AuthConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type MongoDBConfig struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

// StoreConfig selects the article store backend ("mongo" or "memory").
type StoreConfig struct {
	Backend       string
	TitleCacheTTL time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
}

type ScraperConfig struct {
	URL        string
	Selector   string
	ChromePath string
	Headless   bool
	Timeout    time.Duration
	Settle     time.Duration
	MaxTopics  int
}

type GeneratorConfig struct {
	Provider       string
	GeminiAPIKey   string
	GeminiModel    string
	OllamaModel    string
	Timeout        time.Duration
	RenderMarkdown bool
}

// RefreshConfig bounds a single refresh run: at most Cap new articles,
// Delay between successful generations.
type RefreshConfig struct {
	Cap   int
	Delay time.Duration
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Region    string
}

type AuthConfig struct {
	JWTSecret    string
	OIDCIssuer   string
	OIDCClientID string
}

// LoadConfig loads configuration from environment variables and an optional .env file.
// It fails with a *ConfigurationError when a required variable is missing.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("MONGODB_DATABASE", "trendpress")
	v.SetDefault("MONGODB_COLLECTION", "articles")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("STORE_BACKEND", "mongo")
	v.SetDefault("TITLE_CACHE_TTL", "24h")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("RATE_LIMIT_RPS", 0.1)
	v.SetDefault("RATE_LIMIT_BURST", 1)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("SCRAPER_URL", "https://trends24.in/india/")
	v.SetDefault("SCRAPER_SELECTOR", ".trend-link")
	v.SetDefault("SCRAPER_HEADLESS", true)
	v.SetDefault("SCRAPER_TIMEOUT", "60s")
	v.SetDefault("SCRAPER_SETTLE", "2s")
	v.SetDefault("GENERATOR_PROVIDER", "gemini")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("OLLAMA_MODEL", "llama3")
	v.SetDefault("GENERATOR_TIMEOUT", "120s")
	v.SetDefault("REFRESH_CAP", 2)
	v.SetDefault("REFRESH_DELAY", "2s")
	v.SetDefault("MINIO_BUCKET", "trendpress")
	v.SetDefault("MINIO_REGION", "us-east-1")

	// PORT is what most hosting platforms inject; it wins over SERVER_PORT.
	port := v.GetString("SERVER_PORT")
	if p := strings.TrimSpace(os.Getenv("PORT")); p != "" {
		port = p
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         port,
			Host:         v.GetString("SERVER_HOST"),
			Environment:  v.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 10 * time.Minute,
		},
		MongoDB: MongoDBConfig{
			URI:        strings.TrimSpace(v.GetString("MONGODB_URI")),
			Database:   v.GetString("MONGODB_DATABASE"),
			Collection: v.GetString("MONGODB_COLLECTION"),
			Timeout:    time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Store: StoreConfig{
			Backend:       strings.ToLower(v.GetString("STORE_BACKEND")),
			TitleCacheTTL: v.GetDuration("TITLE_CACHE_TTL"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Scraper: ScraperConfig{
			URL:        v.GetString("SCRAPER_URL"),
			Selector:   v.GetString("SCRAPER_SELECTOR"),
			ChromePath: v.GetString("SCRAPER_CHROME_PATH"),
			Headless:   v.GetBool("SCRAPER_HEADLESS"),
			Timeout:    v.GetDuration("SCRAPER_TIMEOUT"),
			Settle:     v.GetDuration("SCRAPER_SETTLE"),
			MaxTopics:  v.GetInt("SCRAPER_MAX_TOPICS"),
		},
		Generator: GeneratorConfig{
			Provider:       strings.ToLower(v.GetString("GENERATOR_PROVIDER")),
			GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
			GeminiModel:    v.GetString("GEMINI_MODEL"),
			OllamaModel:    v.GetString("OLLAMA_MODEL"),
			Timeout:        v.GetDuration("GENERATOR_TIMEOUT"),
			RenderMarkdown: v.GetBool("ARTICLE_RENDER_MARKDOWN"),
		},
		Refresh: RefreshConfig{
			Cap:   v.GetInt("REFRESH_CAP"),
			Delay: v.GetDuration("REFRESH_DELAY"),
		},
		MinIO: MinIOConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
			Bucket:    v.GetString("MINIO_BUCKET"),
			Region:    v.GetString("MINIO_REGION"),
		},
		Auth: AuthConfig{
			JWTSecret:    os.Getenv("AUTH_JWT_SECRET"),
			OIDCIssuer:   v.GetString("AUTH_OIDC_ISSUER"),
			OIDCClientID: v.GetString("AUTH_OIDC_CLIENT_ID"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required and mutually dependent settings.
func (c *Config) Validate() error {
	if c.MongoDB.URI == "" && c.Store.Backend != "memory" {
		return &ConfigurationError{Key: "MONGODB_URI", Reason: "is not defined"}
	}
	switch c.Store.Backend {
	case "mongo", "memory":
	default:
		return &ConfigurationError{Key: "STORE_BACKEND", Reason: fmt.Sprintf("unsupported backend %q", c.Store.Backend)}
	}
	switch c.Generator.Provider {
	case "gemini", "ollama":
	default:
		return &ConfigurationError{Key: "GENERATOR_PROVIDER", Reason: fmt.Sprintf("unsupported provider %q", c.Generator.Provider)}
	}
	if c.Refresh.Cap < 0 {
		return &ConfigurationError{Key: "REFRESH_CAP", Reason: "must not be negative"}
	}
	if c.Refresh.Delay < 0 {
		return &ConfigurationError{Key: "REFRESH_DELAY", Reason: "must not be negative"}
	}
	if c.Scraper.URL == "" || c.Scraper.Selector == "" {
		return &ConfigurationError{Key: "SCRAPER_URL/SCRAPER_SELECTOR", Reason: "must be set"}
	}
	// a bare number parses as nanoseconds
	for _, d := range []struct {
		key string
		val time.Duration
	}{
		{"REFRESH_DELAY", c.Refresh.Delay},
		{"SCRAPER_TIMEOUT", c.Scraper.Timeout},
		{"SCRAPER_SETTLE", c.Scraper.Settle},
		{"GENERATOR_TIMEOUT", c.Generator.Timeout},
		{"TITLE_CACHE_TTL", c.Store.TitleCacheTTL},
	} {
		if d.val > 0 && d.val < time.Millisecond {
			return &ConfigurationError{Key: d.key, Reason: fmt.Sprintf("%s is below 1ms; use a unit such as 2s or 2000ms", d.val)}
		}
	}
	return nil
}

// RedisAddr returns host:port, or "" when Redis is not configured.
func (c *Config) RedisAddr() string {
	if c.Redis.Host == "" {
		return ""
	}
	return c.Redis.Host + ":" + c.Redis.Port
}
