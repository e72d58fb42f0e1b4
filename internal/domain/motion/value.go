package motion

import "sync"

// Reader is the read-only view of a Value handed to children.
type Reader[T any] interface {
	Get() T
}

// Value is a single observable value owned by one root. Only the owner
// holds the *Value; everyone else gets a Reader.
type Value[T any] struct {
	mu     sync.RWMutex
	v      T
	nextID int
	subs   map[int]func(T)
}

// NewValue returns a Value holding initial.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{v: initial, subs: make(map[int]func(T))}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.v
}

// Set replaces the value and notifies subscribers outside the lock.
func (v *Value[T]) Set(x T) {
	v.mu.Lock()
	v.v = x
	subs := make([]func(T), 0, len(v.subs))
	for _, fn := range v.subs {
		subs = append(subs, fn)
	}
	v.mu.Unlock()

	for _, fn := range subs {
		fn(x)
	}
}

// Subscribe registers fn for every Set. The returned func unsubscribes.
func (v *Value[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.subs[id] = fn
	v.mu.Unlock()

	return func() {
		v.mu.Lock()
		delete(v.subs, id)
		v.mu.Unlock()
	}
}

// Reader returns the read-only view.
func (v *Value[T]) Reader() Reader[T] { return readOnly[T]{v} }

type readOnly[T any] struct{ v *Value[T] }

func (r readOnly[T]) Get() T { return r.v.Get() }
