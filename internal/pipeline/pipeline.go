// Package pipeline runs one refresh: scrape trending topics, generate an
// article for each unseen topic and store it.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/trendpress/trendpress/internal/article"
	"github.com/trendpress/trendpress/internal/article/service"
	"github.com/trendpress/trendpress/internal/runs"
	"github.com/trendpress/trendpress/pkg/logger"
	"github.com/trendpress/trendpress/pkg/metrics"
)

// TopicScraper returns trending topics in page order.
type TopicScraper interface {
	ScrapeTrendingTopics(ctx context.Context) ([]string, error)
}

// ArticleGenerator produces a draft article for a topic.
type ArticleGenerator interface {
	GenerateArticle(ctx context.Context, topic string) (*article.Article, error)
}

// Options tune a Refresher. Cap bounds the articles generated per run and
// Delay is the pause between successful generations.
type Options struct {
	Cap   int
	Delay time.Duration
	// Runs records a summary of every run when set.
	Runs runs.Store
}

// Result summarizes a run.
type Result struct {
	RunID     string
	Topics    int
	Skipped   int
	Failed    int
	Generated []string
}

// Refresher wires the article store, scraper and generator together.
type Refresher struct {
	store     service.Provider
	scraper   TopicScraper
	generator ArticleGenerator
	opts      Options

	wait func(ctx context.Context, d time.Duration) error
	now  func() time.Time
}

func New(store service.Provider, scraper TopicScraper, generator ArticleGenerator, opts Options) *Refresher {
	return &Refresher{
		store:     store,
		scraper:   scraper,
		generator: generator,
		opts:      opts,
		wait:      sleep,
		now:       time.Now,
	}
}

// Run executes one refresh. The store is resolved before the browser is
// launched so a database outage never leaves a scrape running. Per-topic
// generation or insert failures are logged and skipped; anything else aborts
// the run. Articles stored before an abort stay stored.
func (r *Refresher) Run(ctx context.Context, trigger string) (*Result, error) {
	res := &Result{RunID: uuid.NewString(), Generated: []string{}}
	log := logger.Named("pipeline").With("run", res.RunID[:8])
	started := r.now()

	rec := &runs.Run{RunID: res.RunID, Trigger: trigger, Status: runs.StatusRunning, StartedAt: started, Generated: []string{}}
	r.record(ctx, log, rec)

	err := r.run(ctx, log, res)

	metrics.RunDuration.Observe(r.now().Sub(started).Seconds())
	rec.FinishedAt = r.now()
	rec.Topics, rec.Skipped, rec.Failed, rec.Generated = res.Topics, res.Skipped, res.Failed, res.Generated
	if err != nil {
		rec.Status, rec.Error = runs.StatusError, err.Error()
		metrics.Runs.WithLabelValues(runs.StatusError).Inc()
		log.Errorf("run failed after %d articles: %v", len(res.Generated), err)
	} else {
		rec.Status = runs.StatusOK
		metrics.Runs.WithLabelValues(runs.StatusOK).Inc()
		log.Infof("run finished: topics=%d skipped=%d failed=%d generated=%d", res.Topics, res.Skipped, res.Failed, len(res.Generated))
	}
	// the summary is written even when the caller has gone away
	r.record(context.WithoutCancel(ctx), log, rec)
	return res, err
}

func (r *Refresher) run(ctx context.Context, log *logger.Component, res *Result) error {
	repo, err := r.store.Repository(ctx)
	if err != nil {
		return err
	}

	topics, err := r.scraper.ScrapeTrendingTopics(ctx)
	if err != nil {
		return err
	}
	res.Topics = len(topics)
	metrics.TopicsScraped.Add(float64(len(topics)))
	log.Infof("scraped %d topics", len(topics))

	throttle := false
	for _, topic := range topics {
		if err := ctx.Err(); err != nil {
			return err
		}
		exists, err := repo.Exists(ctx, topic)
		if err != nil {
			return err
		}
		if exists {
			res.Skipped++
			metrics.TopicOutcomes.WithLabelValues("skipped").Inc()
			log.Debugf("already published: %q", topic)
			continue
		}
		if len(res.Generated) >= r.opts.Cap {
			break
		}
		if throttle {
			if err := r.wait(ctx, r.opts.Delay); err != nil {
				return err
			}
		}

		a, err := r.generator.GenerateArticle(ctx, topic)
		if err != nil {
			throttle = false
			res.Failed++
			metrics.TopicOutcomes.WithLabelValues("generation_failed").Inc()
			log.Warnf("generation failed for %q: %v", topic, err)
			continue
		}

		stored, err := repo.Insert(ctx, a)
		// only a stored article counts as a success for the throttle
		throttle = err == nil
		if err != nil {
			res.Failed++
			metrics.TopicOutcomes.WithLabelValues("store_failed").Inc()
			log.Warnf("storing article for %q: %v", topic, err)
			continue
		}
		res.Generated = append(res.Generated, stored.Slug)
		metrics.TopicOutcomes.WithLabelValues("generated").Inc()
		log.Infof("generated %q as %s", topic, stored.Slug)
	}
	return nil
}

func (r *Refresher) record(ctx context.Context, log *logger.Component, rec *runs.Run) {
	if r.opts.Runs == nil {
		return
	}
	if err := r.opts.Runs.Save(ctx, rec); err != nil {
		log.Warnf("recording run: %v", err)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
