// Package app assembles the refresh pipeline and its stores from configuration.
package app

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/trendpress/trendpress/internal/article/repository"
	"github.com/trendpress/trendpress/internal/article/service"
	"github.com/trendpress/trendpress/internal/auth"
	"github.com/trendpress/trendpress/internal/config"
	"github.com/trendpress/trendpress/internal/database"
	"github.com/trendpress/trendpress/internal/generator"
	"github.com/trendpress/trendpress/internal/pipeline"
	"github.com/trendpress/trendpress/internal/runs"
	"github.com/trendpress/trendpress/internal/scraper"
	"github.com/trendpress/trendpress/internal/storage"
	"github.com/trendpress/trendpress/pkg/logger"
	"github.com/trendpress/trendpress/pkg/middleware"
)

// App holds the long-lived components shared by the HTTP server and the CLI.
type App struct {
	Config    *config.Config
	Articles  service.Provider
	Runs      runs.Store
	Refresher *pipeline.Refresher
	Redis     *redis.Client
	// Verifier is nil when no bearer auth is configured.
	Verifier middleware.Verifier

	cache *database.Cache
}

// Build wires every component. Optional backends (Redis, MinIO, OIDC) that
// cannot be reached are logged and left out.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	if addr := cfg.RedisAddr(); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v", addr, err)
			_ = client.Close()
		} else {
			logger.Infof("connected to Redis at %s", addr)
			a.Redis = client
		}
	}

	switch cfg.Store.Backend {
	case "memory":
		logger.Warnf("using in-memory article store; articles are lost on restart")
		a.Articles = service.NewMemoryProvider(repository.NewMemoryRepo())
		a.Runs = runs.NewMemoryStore()
	default:
		cache, err := database.NewCache(cfg.MongoDB.URI, cfg.MongoDB.Timeout)
		if err != nil {
			return nil, err
		}
		a.cache = cache
		a.Articles = service.NewMongoProvider(cache, service.MongoOptions{
			Database:   cfg.MongoDB.Database,
			Collection: cfg.MongoDB.Collection,
			Redis:      a.Redis,
			CacheTTL:   cfg.Store.TitleCacheTTL,
		})
		a.Runs = runs.NewMongoStore(cache, cfg.MongoDB.Database, "refresh_runs")
	}

	model, err := newModel(ctx, cfg.Generator)
	if err != nil {
		return nil, err
	}
	genOpts := generator.Options{Timeout: cfg.Generator.Timeout, RenderMarkdown: cfg.Generator.RenderMarkdown}
	if cfg.MinIO.Endpoint != "" {
		archive, err := storage.NewArchive(ctx, cfg.MinIO)
		if err != nil {
			logger.Warnf("raw response archive disabled: %v", err)
		} else {
			genOpts.Archive = archive
		}
	}

	a.Refresher = pipeline.New(a.Articles, scraper.New(cfg.Scraper), generator.New(model, genOpts), pipeline.Options{
		Cap:   cfg.Refresh.Cap,
		Delay: cfg.Refresh.Delay,
		Runs:  a.Runs,
	})
	a.Verifier = newVerifier(ctx, cfg.Auth)
	return a, nil
}

type unavailableModel struct{ err error }

func (m unavailableModel) Generate(context.Context, string) (string, error) { return "", m.err }

func newModel(ctx context.Context, cfg config.GeneratorConfig) (generator.Model, error) {
	switch cfg.Provider {
	case "ollama":
		return generator.NewOllamaModel(cfg.OllamaModel)
	default:
		if cfg.GeminiAPIKey == "" {
			// every generation fails until the key is provided
			logger.Warnf("GEMINI_API_KEY is not set; article generation will fail")
			return unavailableModel{err: errors.New("GEMINI_API_KEY is not set")}, nil
		}
		return generator.NewGeminiModel(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	}
}

func newVerifier(ctx context.Context, cfg config.AuthConfig) middleware.Verifier {
	var chain auth.Chain
	if cfg.JWTSecret != "" {
		chain = append(chain, auth.NewHMACVerifier(cfg.JWTSecret))
	}
	if cfg.OIDCIssuer != "" && cfg.OIDCClientID != "" {
		v, err := auth.NewOIDCVerifier(ctx, cfg.OIDCIssuer, cfg.OIDCClientID)
		if err != nil {
			logger.Warnf("failed to initialize OIDC verifier: %v", err)
		} else {
			chain = append(chain, v)
		}
	}
	if len(chain) == 0 {
		return nil
	}
	return chain
}

// Ready reports whether the article store and, when configured, Redis answer.
func (a *App) Ready(ctx context.Context) (bool, map[string]bool) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	deps := map[string]bool{}
	_, err := a.Articles.Repository(ctx)
	deps["store"] = err == nil
	if a.Config.RedisAddr() != "" {
		deps["redis"] = a.Redis != nil && a.Redis.Ping(ctx).Err() == nil
	}
	ready := true
	for _, ok := range deps {
		ready = ready && ok
	}
	return ready, deps
}

// Close releases the database client and the Redis connection.
func (a *App) Close(ctx context.Context) {
	if a.cache != nil {
		if err := a.cache.Close(ctx); err != nil {
			logger.Warnf("closing MongoDB client: %v", err)
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
}
