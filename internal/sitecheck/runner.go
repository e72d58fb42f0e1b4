package sitecheck

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/nestudio/internal/domain/model"
	"github.com/okian/nestudio/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Runner defaults.
const (
	DefaultWorkers       = 4
	DefaultMaxTags       = 2
	percentageMultiplier = 100
)

// Run executes the complete site check.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{RunID: uuid.NewString(), StartTime: time.Now()}
	log := logger.Get().Named("sitecheck")

	workers := config.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	maxTags := config.MaxTags
	if maxTags <= 0 {
		maxTags = DefaultMaxTags
	}

	log.Info(ctx, "starting site check",
		logger.String("runID", stats.RunID),
		logger.String("baseURL", config.BaseURL),
		logger.Int("workers", workers),
		logger.Duration("timeout", config.Timeout),
		logger.Bool("verbose", config.Verbose))

	client := newHTTPClient(config.BaseURL, config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, err
	}

	// Step 2: Load the full catalogue and tags
	var all projectsResponse
	if err := client.GetJSON(ctx, "/api/projects", &all); err != nil {
		return stats, fmt.Errorf("catalogue: %w", err)
	}
	var tags struct {
		Tags []string `json:"tags"`
	}
	if err := client.GetJSON(ctx, "/api/tags", &tags); err != nil {
		return stats, fmt.Errorf("tags: %w", err)
	}
	full := make([]model.ProjectRecord, len(all.Projects))
	for i := range all.Projects {
		full[i] = all.Projects[i].Project
	}
	stats.Projects = len(full)
	stats.Tags = len(tags.Tags)

	// Step 3: Verify generated filter states concurrently
	cases := generateCases(full, tags.Tags, maxTags)
	stats.CasesGenerated = len(cases)
	passed, failed, firstErr := runCases(ctx, client, full, cases, workers, config.Verbose)
	stats.CasesPassed = passed
	stats.CasesFailed = failed

	// Step 4: Label determinism
	n, err := verifyLabels(ctx, client, full)
	stats.LabelsChecked = n

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if firstErr != nil {
		return stats, firstErr
	}
	if err != nil {
		return stats, err
	}
	log.Info(ctx, "site check passed", logger.String("runID", stats.RunID))
	return stats, nil
}

// runCases verifies every case with a bounded number of goroutines. All
// cases run; the first failure is returned.
func runCases(ctx context.Context, client *HTTPClient, full []model.ProjectRecord, cases []Case, workers int, verbose bool) (int, int, error) {
	var (
		passed, failed atomic.Int64
		firstErr       atomic.Pointer[error]
	)
	log := logger.Get().Named("sitecheck")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, c := range cases {
		g.Go(func() error {
			if err := verifyCase(gctx, client, full, c); err != nil {
				failed.Add(1)
				firstErr.CompareAndSwap(nil, &err)
				log.Warn(gctx, "case failed", logger.String("query", c.Query), logger.Any("tags", c.Tags), logger.Error(err))
				return nil
			}
			passed.Add(1)
			if verbose {
				log.Info(gctx, "case passed", logger.String("query", c.Query), logger.Any("tags", c.Tags))
			}
			return nil
		})
	}
	_ = g.Wait()

	var err error
	if p := firstErr.Load(); p != nil {
		err = *p
	}
	return int(passed.Load()), int(failed.Load()), err
}

// checkServiceHealth verifies the site is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	logger.Get().Info(ctx, "checking service health")
	if _, err := client.Get(ctx, "/healthz"); err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var passRate float64
	if stats.CasesGenerated > 0 {
		passRate = float64(stats.CasesPassed) / float64(stats.CasesGenerated) * percentageMultiplier
	}
	logger.Get().Info(ctx, "final statistics",
		logger.String("runID", stats.RunID),
		logger.Int("projects", stats.Projects),
		logger.Int("tags", stats.Tags),
		logger.Int("casesGenerated", stats.CasesGenerated),
		logger.Int("casesPassed", stats.CasesPassed),
		logger.Int("casesFailed", stats.CasesFailed),
		logger.Int("labelsChecked", stats.LabelsChecked),
		logger.Duration("duration", stats.Duration),
		logger.Float64("passRate", passRate))
}
