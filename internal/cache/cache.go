// Package cache keeps computed underwriting runs so identical requests are
// answered without recomputation. Redis is used when configured; otherwise
// entries live in process memory.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Ping(ctx context.Context) error
	Backend() string
	Close() error
}

// NewCache connects to redisURL. An empty URL, an unparsable one or a server
// that does not answer a ping falls back to a MemoryCache.
func NewCache(redisURL string, logger *logrus.Logger) Cache {
	if redisURL == "" {
		return NewMemoryCache()
	}
	if logger == nil {
		logger = logrus.New()
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.WithError(err).Warn("Invalid REDIS_URL, using in-memory cache")
		return NewMemoryCache()
	}

	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.WithError(err).WithField("addr", opt.Addr).Warn("Redis unreachable, using in-memory cache")
		client.Close()
		return NewMemoryCache()
	}

	logger.WithField("addr", opt.Addr).Info("Connected to redis")
	return &RedisCache{client: client}
}

type RedisCache struct {
	client *redis.Client
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return b, true
}

func (r *RedisCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, val, ttl).Err()
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Backend() string { return "redis" }

func (r *RedisCache) Close() error {
	return r.client.Close()
}

type MemoryCache struct {
	mu    sync.Mutex
	items map[string]memItem
	now   func() time.Time
}

type memItem struct {
	val []byte
	exp time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string]memItem), now: time.Now}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[key]
	if !ok {
		return nil, false
	}
	if !it.exp.IsZero() && m.now().After(it.exp) {
		delete(m.items, key)
		return nil, false
	}
	return it.val, true
}

func (m *MemoryCache) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = m.now().Add(ttl)
	}
	m.items[key] = memItem{val: val, exp: exp}
	return nil
}

func (m *MemoryCache) Ping(context.Context) error { return nil }

func (m *MemoryCache) Backend() string { return "memory" }

func (m *MemoryCache) Close() error { return nil }

// Len reports stored entries, expired ones included until they are read
func (m *MemoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
