package worker

import "github.com/okian/nestudio/pkg/logger"

// Option configures an InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name used in logs.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithReleaser sets who is told when a job fails, usually the deduper.
func WithReleaser(r Releaser) Option {
	return func(w *InMemoryWorker) {
		w.releaser = r
	}
}
