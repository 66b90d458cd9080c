package history

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// redisKV is the subset of *redis.Client the store needs.
type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore persists the history as a JSON array of strings under a single key.
type RedisStore struct {
	client redisKV
	key    string
	logger zerolog.Logger
	mu     sync.Mutex
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client redisKV, key string, logger zerolog.Logger) *RedisStore {
	if key == "" {
		key = DefaultKey
	}
	return &RedisStore{
		client: client,
		key:    key,
		logger: logger.With().Str("component", "history_redis").Logger(),
	}
}

func (s *RedisStore) Played(ctx context.Context) Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *RedisStore) IsPlayed(ctx context.Context, id string) bool {
	return s.Played(ctx).Has(id)
}

func (s *RedisStore) MarkPlayed(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A failed read must not be mistaken for an empty history: writing back would erase it.
	set, err := s.read(ctx)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	if set.Has(id) {
		return nil
	}
	set[id] = struct{}{}

	data, err := encodeSet(set)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("store history: %w", err)
	}
	return nil
}

func (s *RedisStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("reset history: %w", err)
	}
	return nil
}

func (s *RedisStore) load(ctx context.Context) Set {
	set, err := s.read(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", s.key).Msg("history unreadable, treating as empty")
		return make(Set)
	}
	return set
}

// read returns the stored set. A missing key or a corrupt value is an empty set; only
// transport errors are reported.
func (s *RedisStore) read(ctx context.Context) (Set, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return make(Set), nil
	}
	if err != nil {
		return nil, err
	}
	set, err := decodeSet(data)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", s.key).Msg("history corrupt, treating as empty")
		return make(Set), nil
	}
	return set, nil
}
