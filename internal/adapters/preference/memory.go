// Package preference stores per-visitor theme preferences.
package preference

import (
	"context"
	"sync"

	"github.com/golang/groupcache/lru"

	"github.com/okian/nestudio/internal/domain/theme"
)

// DefaultMemoryEntries bounds a MemoryStore built with a non-positive size.
const DefaultMemoryEntries = 10000

// MemoryStore keeps the most recently used preferences in process memory.
// Visitors past the cap are evicted oldest first and resolve to the
// system preference again.
type MemoryStore struct {
	mu  sync.Mutex
	lru *lru.Cache
}

var _ theme.Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store holding at most maxEntries
// visitors; non-positive means DefaultMemoryEntries.
func NewMemoryStore(maxEntries int) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMemoryEntries
	}
	return &MemoryStore{lru: lru.New(maxEntries)}
}

// Get returns the visitor's theme if one was stored.
func (s *MemoryStore) Get(_ context.Context, visitorID string) (theme.Theme, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.lru.Get(key(visitorID))
	if !ok {
		return theme.Theme(""), false, nil
	}
	return v.(theme.Theme), true, nil
}

// Set stores the visitor's theme.
func (s *MemoryStore) Set(_ context.Context, visitorID string, t theme.Theme) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lru.Add(key(visitorID), t)
	return nil
}

// Len returns the number of stored preferences.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len()
}
