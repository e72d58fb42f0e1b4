// Package config defines site configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load(ctx) layers a YAML file, a .env file and the environment on top.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"time"
)

// Theme store backends.
const (
	ThemeStoreMemory = "memory"
	ThemeStoreRedis  = "redis"

	minQRModules = 21
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Environment, when set, is attached to every metric as the env label.
	Environment string `koanf:"environment"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`
	// BaseURL is the public origin used by sitecheck and absolute links.
	BaseURL string `koanf:"base_url"`

	// QREnabled turns the external QR image endpoint on or off.
	QREnabled bool `koanf:"qr_enabled"`
	// QREndpoint is the third-party QR generation URL.
	QREndpoint string `koanf:"qr_endpoint"`
	// QRTimeoutMS bounds each external QR request.
	QRTimeoutMS int `koanf:"qr_timeout_ms"`
	// QRCacheSize bounds the number of cached QR images.
	QRCacheSize int `koanf:"qr_cache_size"`
	// QRWarmWorkers is the number of warm-up workers.
	QRWarmWorkers int `koanf:"qr_warm_workers"`
	// QRWarmQueueSize bounds pending warm-up jobs.
	QRWarmQueueSize int `koanf:"qr_warm_queue_size"`
	// QRWarmDedupeSize bounds the warm-up dedupe set.
	QRWarmDedupeSize int `koanf:"qr_warm_dedupe_size"`
	// QRModules is the pseudo-QR grid size.
	QRModules int `koanf:"qr_modules"`

	// ThemeStore selects the preference backend: memory or redis.
	ThemeStore string `koanf:"theme_store"`
	// ThemeMemoryEntries caps the visitors kept by the memory theme store.
	ThemeMemoryEntries int `koanf:"theme_memory_entries"`
	// RedisAddr and RedisDB configure the redis theme store.
	RedisAddr string `koanf:"redis_addr"`
	RedisDB   int    `koanf:"redis_db"`

	// ReadWPM is the words-per-minute constant for read-time estimates.
	ReadWPM int `koanf:"read_wpm"`

	// FieldCell is the magnetic background cell size in pixels.
	FieldCell int `koanf:"field_cell"`

	// Spring parameters for the scroll easing curve.
	SpringStiffness float64 `koanf:"spring_stiffness"`
	SpringDamping   float64 `koanf:"spring_damping"`
	SpringMass      float64 `koanf:"spring_mass"`

	// EnhanceScripts are static asset paths probed at startup.
	EnhanceScripts []string `koanf:"enhance_scripts"`
	// EnhanceFallbackURLs maps a script path to a remote fallback.
	EnhanceFallbackURLs map[string]string `koanf:"enhance_fallback_urls"`
	// EnhanceTimeoutMS bounds each fallback probe.
	EnhanceTimeoutMS int `koanf:"enhance_timeout_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		BaseURL:            "http://localhost:9080",
		QREnabled:          true,
		QREndpoint:         "https://api.qrserver.com/v1/create-qr-code/",
		QRTimeoutMS:        2500,
		QRCacheSize:        256,
		QRWarmWorkers:      2,
		QRWarmQueueSize:    64,
		QRWarmDedupeSize:   1024,
		QRModules:          21,
		ThemeStore:         ThemeStoreMemory,
		ThemeMemoryEntries: 10000,
		RedisAddr:          "localhost:6379",
		ReadWPM:            220,
		FieldCell:          44,
		SpringStiffness:    160,
		SpringDamping:      28,
		SpringMass:         0.28,
		EnhanceScripts:     []string{"/static/gsap.min.js", "/static/ScrollSmoother.min.js"},
		EnhanceFallbackURLs: map[string]string{
			"/static/gsap.min.js": "https://cdn.jsdelivr.net/npm/gsap@3.12.5/dist/gsap.min.js",
		},
		EnhanceTimeoutMS: 1500,
	}
}

// QRTimeout returns QRTimeoutMS as a duration.
func (c *Config) QRTimeout() time.Duration {
	return time.Duration(c.QRTimeoutMS) * time.Millisecond
}

// EnhanceTimeout returns EnhanceTimeoutMS as a duration.
func (c *Config) EnhanceTimeout() time.Duration {
	return time.Duration(c.EnhanceTimeoutMS) * time.Millisecond
}

// Validate checks the invariants the rest of the process relies on.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.ThemeStore != ThemeStoreMemory && c.ThemeStore != ThemeStoreRedis:
		return fmt.Errorf("%w: theme_store must be %q or %q, got %q", ErrInvalidConfig, ThemeStoreMemory, ThemeStoreRedis, c.ThemeStore)
	case c.ThemeStore == ThemeStoreRedis && c.RedisAddr == "":
		return fmt.Errorf("%w: redis_addr is required for the redis theme store", ErrInvalidConfig)
	case c.ThemeStore == ThemeStoreMemory && c.ThemeMemoryEntries <= 0:
		return fmt.Errorf("%w: theme_memory_entries must be positive", ErrInvalidConfig)
	case c.ReadWPM <= 0:
		return fmt.Errorf("%w: read_wpm must be positive", ErrInvalidConfig)
	case c.QRModules < minQRModules:
		return fmt.Errorf("%w: qr_modules must be at least %d", ErrInvalidConfig, minQRModules)
	case c.QREnabled && c.QREndpoint == "":
		return fmt.Errorf("%w: qr_endpoint is required when qr_enabled", ErrInvalidConfig)
	case c.FieldCell <= 0:
		return fmt.Errorf("%w: field_cell must be positive", ErrInvalidConfig)
	case c.SpringStiffness <= 0 || c.SpringMass <= 0 || c.SpringDamping < 0:
		return fmt.Errorf("%w: spring parameters must be positive", ErrInvalidConfig)
	}
	return nil
}
