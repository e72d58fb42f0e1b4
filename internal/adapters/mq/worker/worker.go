// Package worker drains the QR warm-up queue: each job is fetched from the
// QR service and stored in the image cache before a visitor asks for it.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/okian/nestudio/internal/domain/model"
	"github.com/okian/nestudio/pkg/logger"
	"github.com/okian/nestudio/pkg/metrics"
)

const (
	defaultWorkerCount  = 2
	poolShutdownTimeout = 10 * time.Second
)

// Fetcher downloads a QR image.
type Fetcher interface {
	Fetch(ctx context.Context, data string, size int) (model.Image, error)
}

// Cache stores fetched images by job key.
type Cache interface {
	Add(key string, img model.Image)
}

// Releaser forgets a job key so a later request can retry it.
type Releaser interface {
	Unrecord(ctx context.Context, key string)
}

// Queue is where workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan model.QRJob
}

// Worker processes jobs until the queue closes or it is shut down.
type Worker interface {
	Run(ctx context.Context)
	Shutdown(ctx context.Context) error
}

// InMemoryWorker fetches one job at a time.
type InMemoryWorker struct {
	queue    Queue
	fetcher  Fetcher
	cache    Cache
	releaser Releaser
	name     string

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a worker.
func NewInMemoryWorker(queue Queue, fetcher Fetcher, cache Cache, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		fetcher:  fetcher,
		cache:    cache,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run processes jobs until ctx ends, Shutdown is called, or the queue closes.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			metrics.RecordQueueDequeue()
			if err := w.process(ctx, job); err != nil {
				w.logger.Warn(ctx, "qr warm-up failed",
					logger.String("data", job.Data),
					logger.Int("size", job.Size),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown stops the worker and waits for the current job to finish.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) process(ctx context.Context, job model.QRJob) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	img, err := w.fetcher.Fetch(ctx, job.Data, job.Size)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "fetch_error")
		if w.releaser != nil {
			w.releaser.Unrecord(ctx, job.Key())
		}
		return fmt.Errorf("fetch %s: %w", job.Key(), err)
	}
	w.cache.Add(job.Key(), img)
	return nil
}

// Pool runs a fixed set of workers over one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	wg      sync.WaitGroup
	logger  logger.Logger
}

// NewPool creates workerCount workers sharing queue, fetcher and cache.
func NewPool(workerCount int, queue Queue, fetcher Fetcher, cache Cache, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
	}
	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   queue,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		workerOpts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		p.workers[i] = NewInMemoryWorker(queue, fetcher, cache, workerOpts...)
	}
	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start launches every worker.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		p.wg.Add(1)
		go func(w *InMemoryWorker) {
			defer p.wg.Done()
			w.Run(ctx)
		}(w)
	}
}

// Shutdown closes the queue when it can and waits for workers to stop.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Debug(ctx, "queue already closed", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var firstErr error
	for i, w := range p.workers {
		if err := w.Shutdown(shutdownCtx); err != nil {
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	metrics.UpdateWorkerCount(0)
	return firstErr
}

// Wait blocks until every worker has returned.
func (p *Pool) Wait() { p.wg.Wait() }
