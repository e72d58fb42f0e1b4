package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variables that steer loading itself.
const (
	EnvPrefix     = "NESTUDIO_"
	EnvConfigFile = "NESTUDIO_CONFIG"
	EnvDotenvFile = "NESTUDIO_DOTENV"

	defaultDotenvFile = ".env"
)

// Load builds a Config by layering defaults, optional file, .env and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if NESTUDIO_CONFIG is set
//  3. .env file (NESTUDIO_DOTENV, default ".env"); never overrides real env
//  4. env (prefix NESTUDIO_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	if err := loadDotenv(); err != nil {
		return nil, err
	}

	// NESTUDIO_QR_TIMEOUT_MS -> qr_timeout_ms (flat keys, underscores kept).
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}
	// The loader's own control variables are not config keys.
	k.Delete("config")
	k.Delete("dotenv")

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadDotenv exports variables from the .env file into the process
// environment. A missing default file is fine; a missing explicit one is not.
func loadDotenv() error {
	path, explicit := os.LookupEnv(EnvDotenvFile)
	if !explicit || path == "" {
		path = defaultDotenvFile
		explicit = false
	}
	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("%w: dotenv %s: %w", ErrLoadConfig, path, err)
}
