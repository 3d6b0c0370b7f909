package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/trendpress/trendpress/internal/article"
)

var (
	ErrNotFound = errors.New("article not found")
)

// StoreError wraps a failed store operation.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("article store %s: %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }

// Repository is the article persistence contract. The refresh pipeline only
// uses Exists and Insert; List and GetBySlug back the read endpoints.
type Repository interface {
	// Exists reports whether an article with exactly this title is stored.
	Exists(ctx context.Context, title string) (bool, error)
	// Insert persists a and returns the stored record with ID and CreatedAt set.
	Insert(ctx context.Context, a *article.Article) (*article.Article, error)
	List(ctx context.Context, limit int) ([]*article.Article, error)
	GetBySlug(ctx context.Context, slug string) (*article.Article, error)
}
