package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/nestudio/internal/adapters/enhance"
	"github.com/okian/nestudio/internal/adapters/http/api"
	"github.com/okian/nestudio/internal/adapters/http/site"
	"github.com/okian/nestudio/internal/adapters/http/swagger"
	"github.com/okian/nestudio/internal/adapters/preference"
	"github.com/okian/nestudio/internal/adapters/qrservice"
	service "github.com/okian/nestudio/internal/app"
	"github.com/okian/nestudio/internal/config"
	"github.com/okian/nestudio/internal/domain/motion"
	"github.com/okian/nestudio/internal/domain/theme"
	"github.com/okian/nestudio/pkg/logger"
	"github.com/okian/nestudio/pkg/metrics"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	redisPingTimeout          = 2 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.Get().Error(ctx, "nestudio exited", logger.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

// run wires the process from configuration and blocks until ctx is done
// or the HTTP server fails.
func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := logger.InitWithWriter(os.Stdout, cfg.LogFormat); err != nil {
		return err
	}
	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	if cfg.Environment != "" {
		metrics.Configure(metrics.WithConstLabels(map[string]string{"env": cfg.Environment}))
	}

	store, closeStore, err := themeStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := newService(cfg, store, log)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	mux, err := newMux(ctx, svc)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info(gctx, "starting HTTP server", logger.String("addr", cfg.Addr), logger.String("base_url", cfg.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		startSystemMetricsUpdater(gctx)
		return nil
	})
	g.Go(func() error {
		startServiceMetricsUpdater(gctx, svc)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info(gctx, "shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error(gctx, "server shutdown failed", logger.Error(err))
			return err
		}
		log.Info(gctx, "server stopped")
		return nil
	})
	return g.Wait()
}

// themeStore builds the configured preference backend. The returned func
// releases it.
func themeStore(ctx context.Context, cfg *config.Config) (theme.Store, func(), error) {
	if cfg.ThemeStore != config.ThemeStoreRedis {
		return preference.NewMemoryStore(cfg.ThemeMemoryEntries), func() {}, nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	store := preference.NewRedisStore(client)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}

func newService(cfg *config.Config, store theme.Store, log logger.Logger) *service.Service {
	opts := []service.Option{
		service.WithLogger(log),
		service.WithThemeStore(store),
		service.WithWorkerCount(cfg.QRWarmWorkers),
		service.WithQueueSize(cfg.QRWarmQueueSize),
		service.WithDedupeSize(cfg.QRWarmDedupeSize),
		service.WithCacheSize(cfg.QRCacheSize),
		service.WithReadWPM(cfg.ReadWPM),
		service.WithQRModules(cfg.QRModules),
		service.WithFieldCell(cfg.FieldCell),
		service.WithSpring(motion.Spring{
			Stiffness: cfg.SpringStiffness,
			Damping:   cfg.SpringDamping,
			Mass:      cfg.SpringMass,
		}),
		service.WithEnhancer(enhance.NewLoader(site.Assets(), cfg.EnhanceScripts,
			enhance.WithFallbacks(cfg.EnhanceFallbackURLs),
			enhance.WithTimeout(cfg.EnhanceTimeout()),
		)),
	}
	if cfg.QREnabled {
		opts = append(opts, service.WithQRClient(qrservice.New(cfg.QREndpoint, qrservice.WithTimeout(cfg.QRTimeout()))))
	}
	return service.New(opts...)
}

// newMux registers the JSON API, the page, and the API docs on one mux.
func newMux(ctx context.Context, svc *service.Service) (*http.ServeMux, error) {
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(ctx, mux)
	swagger.Register(ctx, mux)
	h, err := site.New(svc)
	if err != nil {
		return nil, err
	}
	h.Register(ctx, mux)
	return mux, nil
}

// startSystemMetricsUpdater updates system metrics until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater updates service gauges until ctx is done.
func startServiceMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

func updateServiceMetrics(svc *service.Service) {
	stats := svc.GetStats()
	if queueLen, ok := stats["queueLength"].(int); ok {
		metrics.UpdateQueueSize(queueLen)
	}
	if workerCount, ok := stats["workerCount"].(int); ok {
		// Without a QR endpoint no warm-up pool is started.
		if enabled, _ := stats["qrEnabled"].(bool); !enabled {
			workerCount = 0
		}
		metrics.UpdateWorkerCount(workerCount)
	}
	if entries, ok := stats["qrCacheSize"].(int); ok {
		metrics.UpdateQRCacheEntries(entries)
	}
}
