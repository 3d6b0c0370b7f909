// Command refresh runs a single scrape-and-generate pass without the HTTP
// server, for cron jobs and manual backfills.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/trendpress/trendpress/internal/app"
	"github.com/trendpress/trendpress/internal/config"
	"github.com/trendpress/trendpress/pkg/logger"
)

func main() {
	capFlag := flag.Int("cap", -1, "maximum articles to generate (default REFRESH_CAP)")
	flag.Parse()

	logger.Init(os.Getenv("LOG_LEVEL"))
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	if *capFlag >= 0 {
		cfg.Refresh.Cap = *capFlag
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to initialize: %v", err)
	}
	defer a.Close(context.Background())

	res, err := a.Refresher.Run(ctx, "cli")
	if err != nil {
		a.Close(context.Background())
		logger.Fatalf("refresh failed: %v", err)
	}
	fmt.Printf("run %s: %d topics, %d skipped, %d failed\n", res.RunID, res.Topics, res.Skipped, res.Failed)
	for _, slug := range res.Generated {
		fmt.Println(slug)
	}
}
