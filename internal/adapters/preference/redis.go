package preference

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/nestudio/internal/domain/theme"
)

const (
	keyPrefix  = "nestudio:pref:" // nestudio:pref:{visitor}:theme
	defaultTTL = 365 * 24 * time.Hour
)

func key(visitorID string) string {
	return keyPrefix + visitorID + ":" + theme.Key
}

// RedisStore keeps preferences in Redis with a sliding TTL.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ theme.Store = (*RedisStore)(nil)

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithTTL sets how long a preference lives after its last write.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client redis.UniversalClient, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, ttl: defaultTTL}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the visitor's theme. A stored value that no longer parses is
// reported as absent.
func (s *RedisStore) Get(ctx context.Context, visitorID string) (theme.Theme, bool, error) {
	raw, err := s.client.Get(ctx, key(visitorID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get theme: %w", err)
	}
	t, err := theme.Parse(raw)
	if err != nil {
		return "", false, nil //nolint:nilerr // corrupt values fall back to the system preference
	}
	return t, true, nil
}

// Set stores the visitor's theme and refreshes its TTL.
func (s *RedisStore) Set(ctx context.Context, visitorID string, t theme.Theme) error {
	if err := s.client.Set(ctx, key(visitorID), t.String(), s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set theme: %w", err)
	}
	return nil
}

// Ping checks the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
