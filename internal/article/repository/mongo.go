package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trendpress/trendpress/internal/article"
)

// MongoRepo implements Repository on a MongoDB collection.
// Title and slug are indexed but not unique: dedup is a lookup before insert.
type MongoRepo struct {
	col *mongo.Collection
}

// newestFirst orders reads by insertion time, latest first.
var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col}
}

// EnsureIndexes creates the lookup indexes. It is idempotent.
func (m *MongoRepo) EnsureIndexes(ctx context.Context) error {
	_, err := m.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "title", Value: 1}}},
		{Keys: bson.D{{Key: "slug", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return &StoreError{Op: "ensure indexes", Err: err}
	}
	return nil
}

func (m *MongoRepo) Exists(ctx context.Context, title string) (bool, error) {
	err := m.col.FindOne(ctx, bson.M{"title": title}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, &StoreError{Op: "exists", Err: err}
	}
	return true, nil
}

func (m *MongoRepo) Insert(ctx context.Context, a *article.Article) (*article.Article, error) {
	stored := *a
	stored.ID = ""
	stored.CreatedAt = time.Now().UTC()
	if stored.Media == nil {
		stored.Media = []string{}
	}
	res, err := m.col.InsertOne(ctx, &stored)
	if err != nil {
		return nil, &StoreError{Op: "insert", Err: err}
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		stored.ID = oid.Hex()
	}
	return &stored, nil
}

func (m *MongoRepo) List(ctx context.Context, limit int) ([]*article.Article, error) {
	opts := options.Find().SetSort(newestFirst)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, &StoreError{Op: "list", Err: err}
	}
	defer cur.Close(ctx)
	out := []*article.Article{}
	for cur.Next(ctx) {
		var rec mongoArticle
		if err := cur.Decode(&rec); err != nil {
			return nil, &StoreError{Op: "list", Err: err}
		}
		out = append(out, rec.toArticle())
	}
	if err := cur.Err(); err != nil {
		return nil, &StoreError{Op: "list", Err: err}
	}
	return out, nil
}

// GetBySlug returns the newest article with the slug; slugs are not unique.
func (m *MongoRepo) GetBySlug(ctx context.Context, slug string) (*article.Article, error) {
	var rec mongoArticle
	err := m.col.FindOne(ctx, bson.M{"slug": slug}, getBySlugOptions()).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, &StoreError{Op: "get", Err: err}
	}
	return rec.toArticle(), nil
}

func getBySlugOptions() *options.FindOneOptions {
	return options.FindOne().SetSort(newestFirst)
}

// mongoArticle decodes _id as an ObjectID; article.Article keeps it as a hex string.
type mongoArticle struct {
	ID              primitive.ObjectID `bson:"_id"`
	article.Article `bson:",inline"`
}

func (r *mongoArticle) toArticle() *article.Article {
	a := r.Article
	a.ID = r.ID.Hex()
	return &a
}
