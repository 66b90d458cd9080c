package question

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gokatarajesh/trivia-night/internal/question/external"
)

const (
	defaultCacheTTL = 24 * time.Hour
	countryCacheKey = "countries:v1"
)

// CountryCache keeps the full country list between games. A miss returns nil, nil.
type CountryCache interface {
	Get(ctx context.Context) ([]external.Country, error)
	Set(ctx context.Context, countries []external.Country) error
}

// redisGetSetter is the subset of *redis.Client the cache needs.
type redisGetSetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisCountryCache stores the country list as one JSON value with a TTL.
type RedisCountryCache struct {
	client redisGetSetter
	ttl    time.Duration
}

var _ CountryCache = (*RedisCountryCache)(nil)

func NewRedisCountryCache(client redisGetSetter, ttl time.Duration) *RedisCountryCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &RedisCountryCache{client: client, ttl: ttl}
}

func (c *RedisCountryCache) Get(ctx context.Context) ([]external.Country, error) {
	data, err := c.client.Get(ctx, countryCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var countries []external.Country
	if err := json.Unmarshal(data, &countries); err != nil {
		return nil, err
	}
	return countries, nil
}

func (c *RedisCountryCache) Set(ctx context.Context, countries []external.Country) error {
	data, err := json.Marshal(countries)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, countryCacheKey, data, c.ttl).Err()
}

// MemoryCountryCache is the in-process cache used when Redis is not configured.
type MemoryCountryCache struct {
	mu        sync.RWMutex
	countries []external.Country
	expires   time.Time
	ttl       time.Duration
	now       func() time.Time
}

var _ CountryCache = (*MemoryCountryCache)(nil)

func NewMemoryCountryCache(ttl time.Duration) *MemoryCountryCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &MemoryCountryCache{ttl: ttl, now: time.Now}
}

func (c *MemoryCountryCache) Get(_ context.Context) ([]external.Country, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.countries == nil || c.now().After(c.expires) {
		return nil, nil
	}
	return c.countries, nil
}

func (c *MemoryCountryCache) Set(_ context.Context, countries []external.Country) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.countries = countries
	c.expires = c.now().Add(c.ttl)
	return nil
}
