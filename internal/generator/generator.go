package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/trendpress/trendpress/internal/article"
	"github.com/trendpress/trendpress/pkg/logger"
	"github.com/trendpress/trendpress/pkg/metrics"
)

var log = logger.Named("generator")

// Archive keeps raw model responses for later inspection.
type Archive interface {
	Put(ctx context.Context, key string, data []byte) error
}

// Options configures a Generator.
type Options struct {
	// Timeout bounds one model call; zero means no extra bound beyond ctx.
	Timeout time.Duration
	// RenderMarkdown converts the article content from Markdown to HTML.
	RenderMarkdown bool
	// Archive, when set, receives every raw model response.
	Archive Archive
}

// Generator produces structured articles for topics.
type Generator struct {
	model Model
	opts  Options
	now   func() time.Time
}

func New(model Model, opts Options) *Generator {
	return &Generator{model: model, opts: opts, now: time.Now}
}

// GenerateArticle asks the model for an article about topic and parses the
// answer. Errors are *GenerationError.
func (g *Generator) GenerateArticle(ctx context.Context, topic string) (*article.Article, error) {
	callCtx := ctx
	if g.opts.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.opts.Timeout)
		defer cancel()
	}

	start := g.now()
	raw, err := g.model.Generate(callCtx, BuildPrompt(topic))
	metrics.GenerationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, &GenerationError{Topic: topic, Kind: KindModel, Err: err}
	}
	g.archive(ctx, topic, raw)

	a, err := ParseArticle(raw)
	if err != nil {
		return nil, &GenerationError{Topic: topic, Kind: KindParse, Err: err}
	}
	if strings.TrimSpace(a.Slug) == "" {
		a.Slug = article.SlugFor(topic)
		log.Debugf("model omitted slug for %q, using %q", topic, a.Slug)
	}
	if strings.TrimSpace(a.Title) == "" {
		a.Title = topic
	}
	if a.Media == nil {
		a.Media = []string{}
	}
	a.Topic = topic

	if g.opts.RenderMarkdown {
		html, err := RenderMarkdown(a.Content)
		if err != nil {
			log.Warnf("markdown rendering failed for %q, keeping raw content: %v", topic, err)
		} else {
			a.Content = html
		}
	}
	return a, nil
}

func (g *Generator) archive(ctx context.Context, topic, raw string) {
	if g.opts.Archive == nil {
		return
	}
	key := fmt.Sprintf("raw/%s/%d.txt", article.SlugFor(topic), g.now().UnixNano())
	if err := g.opts.Archive.Put(ctx, key, []byte(raw)); err != nil {
		log.Warnf("archiving raw response for %q failed: %v", topic, err)
	}
}
