package article

import "time"

// Meta is the SEO metadata pair of an article.
type Meta struct {
	Title       string `json:"title" bson:"title"`
	Description string `json:"description" bson:"description"`
}

// Article is a generated blog article. Title doubles as the deduplication key
// against scraped topics; Slug is the URL identifier and is not required to be unique.
type Article struct {
	ID        string    `json:"id,omitempty" bson:"-"`
	Title     string    `json:"title" bson:"title"`
	Slug      string    `json:"slug" bson:"slug"`
	Meta      Meta      `json:"meta" bson:"meta"`
	Content   string    `json:"content" bson:"content"`
	Media     []string  `json:"media" bson:"media"`
	Topic     string    `json:"topic,omitempty" bson:"topic,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
