package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/trendpress/trendpress/internal/article"
	"github.com/trendpress/trendpress/pkg/logger"
)

// CachedRepo fronts a Repository with a Redis record of covered titles.
// Articles are never deleted, so a positive answer stays valid and only
// positives are cached. Redis failures fall through to the inner repository.
type CachedRepo struct {
	Repository
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewCachedRepo wraps inner. A nil client returns inner unchanged.
func NewCachedRepo(inner Repository, client *redis.Client, prefix string, ttl time.Duration) Repository {
	if client == nil {
		return inner
	}
	if prefix == "" {
		prefix = "article:title:"
	}
	return &CachedRepo{Repository: inner, client: client, prefix: prefix, ttl: ttl}
}

func (r *CachedRepo) key(title string) string {
	return r.prefix + title
}

func (r *CachedRepo) Exists(ctx context.Context, title string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(title)).Result()
	if err == nil && n > 0 {
		return true, nil
	}
	if err != nil {
		logger.Warnf("title cache lookup failed, falling back to store: %v", err)
	}
	ok, err := r.Repository.Exists(ctx, title)
	if err != nil {
		return false, err
	}
	if ok {
		r.remember(ctx, title)
	}
	return ok, nil
}

func (r *CachedRepo) Insert(ctx context.Context, a *article.Article) (*article.Article, error) {
	stored, err := r.Repository.Insert(ctx, a)
	if err != nil {
		return nil, err
	}
	r.remember(ctx, stored.Title)
	return stored, nil
}

func (r *CachedRepo) remember(ctx context.Context, title string) {
	if err := r.client.Set(ctx, r.key(title), "1", r.ttl).Err(); err != nil {
		logger.Warnf("title cache write failed: %v", err)
	}
}
