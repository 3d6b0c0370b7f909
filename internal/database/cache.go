package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/singleflight"

	"github.com/trendpress/trendpress/internal/config"
	"github.com/trendpress/trendpress/pkg/logger"
)

// ConnectionError reports a failed attempt to reach MongoDB.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string { return "database connection: " + e.Err.Error() }
func (e *ConnectionError) Unwrap() error { return e.Err }

// ConnectFunc opens a verified client. ConnectMongo is the production implementation.
type ConnectFunc func(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error)

// Cache lazily opens one MongoDB client per process and hands the same client
// to every caller. Concurrent callers during the first attempt share that
// attempt; a failed attempt is forgotten so the next call retries.
type Cache struct {
	uri     string
	timeout time.Duration
	connect ConnectFunc

	mu     sync.RWMutex
	client *mongo.Client
	group  singleflight.Group
}

// NewCache returns a cache for the given URI. An empty URI is a configuration error.
func NewCache(uri string, timeout time.Duration) (*Cache, error) {
	return NewCacheWithConnect(uri, timeout, ConnectMongo)
}

// NewCacheWithConnect is NewCache with an injectable connect function.
func NewCacheWithConnect(uri string, timeout time.Duration, connect ConnectFunc) (*Cache, error) {
	if uri == "" {
		return nil, &config.ConfigurationError{Key: "MONGODB_URI", Reason: "is not defined"}
	}
	return &Cache{uri: uri, timeout: timeout, connect: connect}, nil
}

// Client returns the memoized client, connecting on first use.
func (c *Cache) Client(ctx context.Context) (*mongo.Client, error) {
	if cl := c.cached(); cl != nil {
		return cl, nil
	}

	ch := c.group.DoChan("connect", func() (interface{}, error) {
		if cl := c.cached(); cl != nil {
			return cl, nil
		}
		// the attempt is shared, so one caller's cancellation must not fail the others
		cl, err := c.connect(context.WithoutCancel(ctx), c.uri, c.timeout)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.client = cl
		c.mu.Unlock()
		logger.Infof("connected to MongoDB")
		return cl, nil
	})

	select {
	case <-ctx.Done():
		return nil, &ConnectionError{Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, &ConnectionError{Err: res.Err}
		}
		return res.Val.(*mongo.Client), nil
	}
}

func (c *Cache) cached() *mongo.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client
}

// Connected reports whether a client has been established.
func (c *Cache) Connected() bool {
	return c.cached() != nil
}

// Close disconnects the memoized client, if any.
func (c *Cache) Close(ctx context.Context) error {
	c.mu.Lock()
	cl := c.client
	c.client = nil
	c.mu.Unlock()
	if cl == nil {
		return nil
	}
	if err := cl.Disconnect(ctx); err != nil {
		return fmt.Errorf("mongo disconnect: %w", err)
	}
	return nil
}
