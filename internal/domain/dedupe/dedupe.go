// Package dedupe tracks which QR warm-up jobs are already queued or cached
// so the same image is not fetched twice.
package dedupe

import (
	"container/list"
	"context"
	"sync"
)

const defaultMaxSize = 1024

// Deduper records seen job keys.
type Deduper interface {
	// SeenAndRecord reports whether key was already seen and records it if not.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord forgets key so a failed job can be retried later.
	Unrecord(ctx context.Context, key string)

	Size() int64
}

// inMemoryDeduper is a bounded seen-set. When full, the oldest key is
// forgotten first. maxSize <= 0 disables the bound.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]*list.Element
	order   *list.List // front = oldest
	maxSize int
}

// NewInMemoryDeduper creates a deduper holding at most 1024 keys by default.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: defaultMaxSize,
		seen:    make(map[string]*list.Element),
		order:   list.New(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; ok {
		return true
	}
	if d.maxSize > 0 && d.order.Len() >= d.maxSize {
		oldest := d.order.Front()
		d.order.Remove(oldest)
		delete(d.seen, oldest.Value.(string))
	}
	d.seen[key] = d.order.PushBack(key)
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.seen[key]; ok {
		d.order.Remove(el)
		delete(d.seen, key)
	}
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(d.order.Len())
}
