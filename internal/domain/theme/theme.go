// Package theme owns the light/dark preference. A single Controller resolves
// and toggles the value through an injected Store and hands the result down
// the request via context.
package theme

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/nestudio/pkg/logger"
	"github.com/okian/nestudio/pkg/metrics"
)

// Theme is the colour scheme of the page.
type Theme string

// Supported themes.
const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Key is the fixed preference key under each visitor's namespace.
const Key = "theme"

// Parse accepts "light" or "dark" in any case.
func Parse(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTheme, s)
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// IsDark reports whether t is Dark.
func (t Theme) IsDark() bool { return t == Dark }

func (t Theme) String() string { return string(t) }

// Store persists one theme per visitor.
type Store interface {
	// Get returns the stored theme and whether one was found.
	Get(ctx context.Context, visitorID string) (Theme, bool, error)
	// Set stores the theme for visitorID.
	Set(ctx context.Context, visitorID string, t Theme) error
}

// Controller is the only writer of theme preferences.
type Controller struct {
	store Store
	log   logger.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// NewController wires a Controller to store.
func NewController(store Store, opts ...Option) *Controller {
	c := &Controller{store: store}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Get().Named("theme")
	}
	return c
}

// Resolve picks the stored theme, then the system preference, then Light.
// Store failures fall through to the system preference.
func (c *Controller) Resolve(ctx context.Context, visitorID string, prefersDark bool) Theme {
	system := Light
	if prefersDark {
		system = Dark
	}
	if visitorID == "" {
		return system
	}
	t, ok, err := c.store.Get(ctx, visitorID)
	if err != nil {
		metrics.RecordThemeStoreError()
		c.log.Warn(ctx, "theme store read failed", logger.String("visitor", visitorID), logger.Error(err))
		return system
	}
	if !ok {
		return system
	}
	return t
}

// Toggle flips the visitor's current theme and stores the result. The new
// theme is returned even when the write fails.
func (c *Controller) Toggle(ctx context.Context, visitorID string, prefersDark bool) (Theme, error) {
	next := c.Resolve(ctx, visitorID, prefersDark).Toggle()
	metrics.RecordThemeToggle(next.String())
	if visitorID == "" {
		return next, ErrNoVisitor
	}
	if err := c.store.Set(ctx, visitorID, next); err != nil {
		metrics.RecordThemeStoreError()
		c.log.Warn(ctx, "theme store write failed", logger.String("visitor", visitorID), logger.Error(err))
		return next, fmt.Errorf("%w: %w", ErrStore, err)
	}
	return next, nil
}

// Set stores an explicit theme for the visitor.
func (c *Controller) Set(ctx context.Context, visitorID string, t Theme) error {
	if visitorID == "" {
		return ErrNoVisitor
	}
	if err := c.store.Set(ctx, visitorID, t); err != nil {
		metrics.RecordThemeStoreError()
		return fmt.Errorf("%w: %w", ErrStore, err)
	}
	return nil
}

type ctxKey struct{}

// NewContext returns ctx carrying t.
func NewContext(ctx context.Context, t Theme) context.Context {
	return context.WithValue(ctx, ctxKey{}, t)
}

// FromContext returns the theme in ctx, or Light.
func FromContext(ctx context.Context) Theme {
	if t, ok := ctx.Value(ctxKey{}).(Theme); ok {
		return t
	}
	return Light
}
