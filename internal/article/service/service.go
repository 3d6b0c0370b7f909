package service

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/trendpress/trendpress/internal/article/repository"
	"github.com/trendpress/trendpress/internal/database"
	"github.com/trendpress/trendpress/pkg/logger"
)

// Provider resolves the article repository for one unit of work. Resolving
// is where the database connection is ensured, so a provider error means the
// store is unreachable.
type Provider interface {
	Repository(ctx context.Context) (repository.Repository, error)
}

// NewMemoryProvider returns a Provider backed by a single in-memory repository.
func NewMemoryProvider(repo *repository.MemoryRepo) Provider {
	if repo == nil {
		repo = repository.NewMemoryRepo()
	}
	return &memoryProvider{repo: repo}
}

type memoryProvider struct {
	repo *repository.MemoryRepo
}

func (m *memoryProvider) Repository(context.Context) (repository.Repository, error) {
	return m.repo, nil
}

// MongoOptions configures NewMongoProvider.
type MongoOptions struct {
	Database   string
	Collection string
	// Redis, when set, fronts the collection with a covered-title cache.
	Redis    *redis.Client
	CacheTTL time.Duration
}

// NewMongoProvider returns a Provider that obtains the client from the
// process-wide connection cache on every call.
func NewMongoProvider(cache *database.Cache, opts MongoOptions) Provider {
	return &mongoProvider{cache: cache, opts: opts}
}

type mongoProvider struct {
	cache *database.Cache
	opts  MongoOptions

	indexOnce sync.Once
}

func (m *mongoProvider) Repository(ctx context.Context) (repository.Repository, error) {
	client, err := m.cache.Client(ctx)
	if err != nil {
		return nil, err
	}
	repo := repository.NewMongoRepo(client.Database(m.opts.Database).Collection(m.opts.Collection))
	m.indexOnce.Do(func() {
		if err := repo.EnsureIndexes(ctx); err != nil {
			logger.Warnf("article indexes not ensured: %v", err)
		}
	})
	return repository.NewCachedRepo(repo, m.opts.Redis, "", m.opts.CacheTTL), nil
}
