package runs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trendpress/trendpress/internal/database"
)

// Run statuses.
const (
	StatusRunning = "running"
	StatusOK      = "ok"
	StatusError   = "error"
)

// Run is the persisted summary of one refresh.
type Run struct {
	RunID      string    `bson:"runId" json:"runId"`
	Trigger    string    `bson:"trigger" json:"trigger"`
	Status     string    `bson:"status" json:"status"`
	StartedAt  time.Time `bson:"startedAt" json:"startedAt"`
	FinishedAt time.Time `bson:"finishedAt,omitempty" json:"finishedAt,omitempty"`
	Topics     int       `bson:"topics" json:"topics"`
	Skipped    int       `bson:"skipped" json:"skipped"`
	Failed     int       `bson:"failed" json:"failed"`
	Generated  []string  `bson:"generated" json:"generated"`
	Error      string    `bson:"error,omitempty" json:"error,omitempty"`
}

// Store persists run summaries. Load returns nil, nil when the run is unknown.
type Store interface {
	Save(ctx context.Context, r *Run) error
	Load(ctx context.Context, runID string) (*Run, error)
}

// MongoStore keeps runs in a collection reached through the shared connection cache.
type MongoStore struct {
	cache      *database.Cache
	database   string
	collection string
}

func NewMongoStore(cache *database.Cache, databaseName, collection string) *MongoStore {
	if collection == "" {
		collection = "refresh_runs"
	}
	return &MongoStore{cache: cache, database: databaseName, collection: collection}
}

func (s *MongoStore) col(ctx context.Context) (*mongo.Collection, error) {
	client, err := s.cache.Client(ctx)
	if err != nil {
		return nil, err
	}
	return client.Database(s.database).Collection(s.collection), nil
}

// Save upserts the run by runId.
func (s *MongoStore) Save(ctx context.Context, r *Run) error {
	col, err := s.col(ctx)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	filter := bson.M{"runId": r.RunID}
	opts := options.Update().SetUpsert(true)
	if _, err := col.UpdateOne(ctx, filter, bson.M{"$set": r}, opts); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

func (s *MongoStore) Load(ctx context.Context, runID string) (*Run, error) {
	col, err := s.col(ctx)
	if err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}
	var r Run
	if err := col.FindOne(ctx, bson.M{"runId": runID}).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("load run: %w", err)
	}
	return &r, nil
}

// MemoryStore keeps runs in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]Run
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: map[string]Run{}}
}

func (m *MemoryStore) Save(_ context.Context, r *Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *r
	c.Generated = append([]string(nil), r.Generated...)
	m.runs[r.RunID] = c
	return nil
}

func (m *MemoryStore) Load(_ context.Context, runID string) (*Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.runs[runID]
	if !ok {
		return nil, nil
	}
	return &r, nil
}
