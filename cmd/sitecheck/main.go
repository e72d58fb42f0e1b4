package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/nestudio/internal/sitecheck"
	"github.com/okian/nestudio/pkg/logger"
)

const (
	defaultTimeout = 10 * time.Second
	defaultRunTime = 5 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the site")
		workers = flag.Int("workers", sitecheck.DefaultWorkers, "Number of concurrent filter checks")
		maxTags = flag.Int("max-tags", sitecheck.DefaultMaxTags, "Largest tag combination to try")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose = flag.Bool("verbose", false, "Log every case")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		sitecheck.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTime)
	defer cancel()

	_, err := sitecheck.Run(ctx, &sitecheck.Config{
		BaseURL: *baseURL,
		Workers: *workers,
		MaxTags: *maxTags,
		Timeout: *timeout,
		Verbose: *verbose,
	})
	if err != nil {
		logger.Get().Error(ctx, "site check failed", logger.Error(err))
		os.Exit(1)
	}
}
