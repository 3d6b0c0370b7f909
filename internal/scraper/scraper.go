package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/trendpress/trendpress/internal/config"
	"github.com/trendpress/trendpress/pkg/logger"
)

var log = logger.Named("scraper")

// ScrapeError reports a failed scrape: browser launch, navigation or extraction.
type ScrapeError struct {
	URL string
	Err error
}

func (e *ScrapeError) Error() string { return fmt.Sprintf("scrape %s: %v", e.URL, e.Err) }
func (e *ScrapeError) Unwrap() error { return e.Err }

// Scraper fetches trending topics from a JavaScript-rendered page with a
// fresh headless Chrome per call.
type Scraper struct {
	url        string
	selector   string
	chromePath string
	headless   bool
	timeout    time.Duration
	settle     time.Duration
	maxTopics  int

	// fetch renders the page and returns its HTML; replaced in tests.
	fetch func(ctx context.Context) (string, error)
}

func New(cfg config.ScraperConfig) *Scraper {
	s := &Scraper{
		url:        cfg.URL,
		selector:   cfg.Selector,
		chromePath: cfg.ChromePath,
		headless:   cfg.Headless,
		timeout:    cfg.Timeout,
		settle:     cfg.Settle,
		maxTopics:  cfg.MaxTopics,
	}
	s.fetch = s.render
	return s
}

// ScrapeTrendingTopics returns the topic strings in page order. An empty
// result is not an error.
func (s *Scraper) ScrapeTrendingTopics(ctx context.Context) ([]string, error) {
	start := time.Now()
	html, err := s.fetch(ctx)
	if err != nil {
		return nil, &ScrapeError{URL: s.url, Err: err}
	}
	topics, err := ExtractTopics(html, s.selector)
	if err != nil {
		return nil, &ScrapeError{URL: s.url, Err: err}
	}
	if s.maxTopics > 0 && len(topics) > s.maxTopics {
		topics = topics[:s.maxTopics]
	}
	log.Infof("scraped %d topics from %s in %s", len(topics), s.url, time.Since(start).Round(time.Millisecond))
	return topics, nil
}

// render launches an isolated browser, loads the page and returns the DOM.
// Both the allocator and the browser context are cancelled on return, which
// terminates the Chrome process on every path.
func (s *Scraper) render(ctx context.Context) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.headless),
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.NoFirstRun,
	)
	if s.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(s.chromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithErrorf(log.Errorf))
	defer cancelBrowser()

	if s.timeout > 0 {
		var cancelTimeout context.CancelFunc
		browserCtx, cancelTimeout = context.WithTimeout(browserCtx, s.timeout)
		defer cancelTimeout()
	}

	var html string
	tasks := chromedp.Tasks{
		chromedp.Navigate(s.url),
		// DOM content loaded; the page never reaches network idle reliably.
		chromedp.WaitReady("body", chromedp.ByQuery),
	}
	if s.settle > 0 {
		tasks = append(tasks, chromedp.Sleep(s.settle))
	}
	tasks = append(tasks, chromedp.OuterHTML("html", &html, chromedp.ByQuery))

	if err := chromedp.Run(browserCtx, tasks); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("page not ready within %s: %w", s.timeout, err)
		}
		return "", err
	}
	return html, nil
}
