package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/trendpress/trendpress/internal/article"
)

// MemoryRepo is an in-memory repository used for tests and local runs
// (STORE_BACKEND=memory).
type MemoryRepo struct {
	mu    sync.RWMutex
	seq   int
	store []*article.Article
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (m *MemoryRepo) Exists(_ context.Context, title string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.store {
		if a.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryRepo) Insert(_ context.Context, a *article.Article) (*article.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	stored := *a
	stored.Media = append([]string(nil), a.Media...)
	stored.ID = fmt.Sprintf("mem_%06d", m.seq)
	stored.CreatedAt = time.Now().UTC()
	m.store = append(m.store, &stored)
	out := stored
	return &out, nil
}

// List returns the newest articles first; limit <= 0 returns all of them.
func (m *MemoryRepo) List(_ context.Context, limit int) ([]*article.Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*article.Article, 0, len(m.store))
	for _, a := range m.store {
		c := *a
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// GetBySlug returns the newest stored article with the slug.
func (m *MemoryRepo) GetBySlug(_ context.Context, slug string) (*article.Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.store) - 1; i >= 0; i-- {
		if a := m.store[i]; a.Slug == slug {
			c := *a
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

// Len returns the number of stored articles.
func (m *MemoryRepo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store)
}
