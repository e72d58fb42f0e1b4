// Package enhance models the optional scroll-enhancement scripts as an
// explicit capability. The page only includes the scripts once the
// capability reports loaded; anything else degrades to no enhancement.
package enhance

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/okian/nestudio/pkg/logger"
	"github.com/okian/nestudio/pkg/metrics"
)

// State of the capability.
type State string

// Capability states.
const (
	Unloaded State = "unloaded"
	Loaded   State = "loaded"
	Failed   State = "failed"
)

const defaultTimeout = 1500 * time.Millisecond

// ErrMissing means a script was neither embedded nor reachable remotely.
var ErrMissing = errors.New("enhancement script missing")

// Capability is the current state plus the script URLs to include.
type Capability struct {
	mu      sync.RWMutex
	state   State
	scripts []string
	err     error
}

// State returns the current state.
func (c *Capability) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state == "" {
		return Unloaded
	}
	return c.state
}

// Scripts returns the resolved URLs, or nil unless loaded.
func (c *Capability) Scripts() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state != Loaded {
		return nil
	}
	return append([]string(nil), c.scripts...)
}

// Err returns the failure cause, if any.
func (c *Capability) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

func (c *Capability) set(s State, scripts []string, err error) {
	c.mu.Lock()
	c.state, c.scripts, c.err = s, scripts, err
	c.mu.Unlock()
}

// Loader resolves each script path against the embedded assets first and
// a remote fallback second.
type Loader struct {
	fsys      fs.FS
	scripts   []string
	fallbacks map[string]string
	client    *http.Client
	timeout   time.Duration
	log       logger.Logger

	once       sync.Once
	capability Capability
}

// Option configures a Loader.
type Option func(*Loader)

// WithFallbacks maps a script path to a remote URL tried when it is not embedded.
func WithFallbacks(m map[string]string) Option {
	return func(l *Loader) { l.fallbacks = m }
}

// WithHTTPClient sets the client used for fallback probes.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) {
		if c != nil {
			l.client = c
		}
	}
}

// WithTimeout bounds each fallback probe.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// WithLogger sets the loader logger.
func WithLogger(lg logger.Logger) Option {
	return func(l *Loader) {
		if lg != nil {
			l.log = lg
		}
	}
}

// NewLoader creates a loader for scripts served from fsys.
// Script paths are URL paths such as "/static/gsap.min.js".
func NewLoader(fsys fs.FS, scripts []string, opts ...Option) *Loader {
	l := &Loader{
		fsys:    fsys,
		scripts: scripts,
		client:  &http.Client{},
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.log == nil {
		l.log = logger.Get().Named("enhance")
	}
	l.setState(context.Background(), Unloaded, nil, nil)
	return l
}

// setState updates the capability and mirrors it into the state gauge.
func (l *Loader) setState(ctx context.Context, s State, scripts []string, err error) {
	l.capability.set(s, scripts, err)
	if merr := metrics.SetEnhanceState(string(s)); merr != nil {
		l.log.Debug(ctx, "enhancement state not exported", logger.String("state", string(s)), logger.Error(merr))
	}
}

// Capability returns the shared capability.
func (l *Loader) Capability() *Capability { return &l.capability }

// Load resolves every script once. Later calls return the first result.
func (l *Loader) Load(ctx context.Context) State {
	l.once.Do(func() {
		if len(l.scripts) == 0 {
			l.setState(ctx, Failed, nil, fmt.Errorf("%w: none configured", ErrMissing))
			l.log.Warn(ctx, "no enhancement scripts configured")
			return
		}
		resolved := make([]string, 0, len(l.scripts))
		for _, p := range l.scripts {
			u, err := l.resolve(ctx, p)
			if err != nil {
				l.setState(ctx, Failed, nil, err)
				l.log.Warn(ctx, "enhancement unavailable, continuing without it",
					logger.String("script", p), logger.Error(err))
				return
			}
			resolved = append(resolved, u)
		}
		l.setState(ctx, Loaded, resolved, nil)
		l.log.Info(ctx, "enhancement loaded", logger.Int("scripts", len(resolved)))
	})
	return l.capability.State()
}

func (l *Loader) resolve(ctx context.Context, p string) (string, error) {
	if l.fsys != nil {
		if _, err := fs.Stat(l.fsys, strings.TrimPrefix(p, "/")); err == nil {
			return p, nil
		}
	}
	remote, ok := l.fallbacks[p]
	if !ok || remote == "" {
		return "", fmt.Errorf("%w: %s", ErrMissing, p)
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, remote, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrMissing, p, err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrMissing, p, err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: %s: status %d", ErrMissing, p, resp.StatusCode)
	}
	return remote, nil
}
