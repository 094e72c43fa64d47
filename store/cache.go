package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"simple-crud/logging"
	"simple-crud/models"
)

// RedisClient is the part of *redis.Client the cache uses.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// DefaultCacheTTL is how long a cached item lives when no TTL is configured.
const DefaultCacheTTL = 5 * time.Minute

// CachedStore puts a Redis read-through cache in front of Get. Update and
// Delete invalidate the entry. Redis failures fall back to the wrapped store.
//
// Keys carry a per-instance namespace, so entries written before a restart
// are never served for a collection that did not survive it.
type CachedStore struct {
	ItemStore
	redis     RedisClient
	ttl       time.Duration
	namespace string
	logger    *logging.Logger

	// mu serialises cache fills with Update and Delete so a fill cannot
	// write back a value that was invalidated while it was being read.
	mu sync.Mutex
}

func NewCachedStore(inner ItemStore, client RedisClient, ttl time.Duration, logger *logging.Logger) *CachedStore {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedStore{
		ItemStore: inner,
		redis:     client,
		ttl:       ttl,
		namespace: uuid.NewString(),
		logger:    logger.With("component", "cache"),
	}
}

func (s *CachedStore) cacheKey(id int64) string {
	return fmt.Sprintf("item:%s:%d", s.namespace, id)
}

func (s *CachedStore) Get(ctx context.Context, id int64) (models.Item, error) {
	key := s.cacheKey(id)

	val, err := s.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		var item models.Item
		if jsonErr := json.Unmarshal([]byte(val), &item); jsonErr == nil {
			return item, nil
		}
		s.logger.Warn("discarding unreadable cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		s.logger.Warn("cache read failed", "key", key, "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.ItemStore.Get(ctx, id)
	if err != nil {
		return models.Item{}, err
	}

	if data, err := json.Marshal(item); err == nil {
		if err := s.redis.Set(ctx, key, data, s.ttl).Err(); err != nil {
			s.logger.Warn("cache write failed", "key", key, "error", err)
		}
	}
	return item, nil
}

func (s *CachedStore) Update(ctx context.Context, id int64, name string) (models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.ItemStore.Update(ctx, id, name)
	if err != nil {
		return models.Item{}, err
	}
	s.invalidate(ctx, id)
	return item, nil
}

func (s *CachedStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ItemStore.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *CachedStore) invalidate(ctx context.Context, id int64) {
	key := s.cacheKey(id)
	if err := s.redis.Del(ctx, key).Err(); err != nil {
		s.logger.Warn("cache invalidation failed", "key", key, "error", err)
	}
}
