package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"simple-crud/logging"
	"simple-crud/models"
)

type MockRedisClient struct {
	mock.Mock
}

func (m *MockRedisClient) Get(ctx context.Context, key string) *redis.StringCmd {
	args := m.Called(ctx, key)
	return args.Get(0).(*redis.StringCmd)
}

func (m *MockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	args := m.Called(ctx, key, value, expiration)
	return args.Get(0).(*redis.StatusCmd)
}

func (m *MockRedisClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	args := m.Called(ctx, keys)
	return args.Get(0).(*redis.IntCmd)
}

func TestCachedStore_GetMissFillsCache(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore(SampleItems()...)
	rc := new(MockRedisClient)
	s := NewCachedStore(inner, rc, time.Minute, logging.Discard())

	data, _ := json.Marshal(models.Item{ID: 1, Name: "Sample Item 1"})
	rc.On("Get", ctx, s.cacheKey(1)).Return(redis.NewStringResult("", redis.Nil))
	rc.On("Set", ctx, s.cacheKey(1), data, time.Minute).Return(redis.NewStatusResult("OK", nil))

	got, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Sample Item 1", got.Name)
	rc.AssertExpectations(t)
}

func TestCachedStore_GetHit(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()
	rc := new(MockRedisClient)
	s := NewCachedStore(inner, rc, 0, logging.Discard())

	rc.On("Get", ctx, s.cacheKey(42)).Return(redis.NewStringResult(`{"id":42,"name":"cached"}`, nil))

	got, err := s.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, models.Item{ID: 42, Name: "cached"}, got)
	rc.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCachedStore_GetMissingNotCached(t *testing.T) {
	ctx := context.Background()
	rc := new(MockRedisClient)
	s := NewCachedStore(NewMemoryStore(), rc, 0, logging.Discard())

	rc.On("Get", ctx, s.cacheKey(5)).Return(redis.NewStringResult("", redis.Nil))

	_, err := s.Get(ctx, 5)
	assert.ErrorIs(t, err, ErrNotFound)
	rc.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCachedStore_RedisDownFallsBack(t *testing.T) {
	ctx := context.Background()
	rc := new(MockRedisClient)
	s := NewCachedStore(NewMemoryStore(SampleItems()...), rc, 0, logging.Discard())

	down := errors.New("connection refused")
	rc.On("Get", ctx, s.cacheKey(2)).Return(redis.NewStringResult("", down))
	rc.On("Set", ctx, s.cacheKey(2), mock.Anything, DefaultCacheTTL).Return(redis.NewStatusResult("", down))

	got, err := s.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Sample Item 2", got.Name)
}

func TestCachedStore_UpdateInvalidates(t *testing.T) {
	ctx := context.Background()
	rc := new(MockRedisClient)
	s := NewCachedStore(NewMemoryStore(SampleItems()...), rc, 0, logging.Discard())

	rc.On("Del", ctx, []string{s.cacheKey(1)}).Return(redis.NewIntResult(1, nil))

	updated, err := s.Update(ctx, 1, "renamed")
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	rc.AssertExpectations(t)
}

func TestCachedStore_DeleteInvalidates(t *testing.T) {
	ctx := context.Background()
	rc := new(MockRedisClient)
	s := NewCachedStore(NewMemoryStore(SampleItems()...), rc, 0, logging.Discard())

	rc.On("Del", ctx, []string{s.cacheKey(2)}).Return(redis.NewIntResult(1, nil)).Once()

	require.NoError(t, s.Delete(ctx, 2))
	assert.ErrorIs(t, s.Delete(ctx, 2), ErrNotFound)
	rc.AssertExpectations(t)
}

func TestCachedStore_PassThrough(t *testing.T) {
	ctx := context.Background()
	rc := new(MockRedisClient)
	s := NewCachedStore(NewMemoryStore(), rc, 0, logging.Discard())

	created, err := s.Create(ctx, "Book")
	require.NoError(t, err)

	items, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Item{created}, items)
	rc.AssertExpectations(t)
}

// fakeRedis is an in-process stand-in that keeps values across stores.
type fakeRedis struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.data[key]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestCachedStore_RestartDropsOldEntries(t *testing.T) {
	ctx := context.Background()
	rc := newFakeRedis()

	first := NewCachedStore(NewMemoryStore(SampleItems()...), rc, 0, logging.Discard())
	book, err := first.Create(ctx, "Book")
	require.NoError(t, err)
	_, err = first.Get(ctx, book.ID)
	require.NoError(t, err)
	require.NotEmpty(t, rc.data, "first Get fills the cache")

	// a fresh memory store behind the same Redis is what a restart looks like
	second := NewCachedStore(NewMemoryStore(SampleItems()...), rc, 0, logging.Discard())

	_, err = second.Get(ctx, book.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	items, err := second.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, SampleItems(), items)
}

// pausingStore stops the first Get after it has read the item until release
// is closed.
type pausingStore struct {
	*MemoryStore
	once    sync.Once
	read    chan struct{}
	release chan struct{}
}

func (p *pausingStore) Get(ctx context.Context, id int64) (models.Item, error) {
	item, err := p.MemoryStore.Get(ctx, id)
	p.once.Do(func() {
		close(p.read)
		<-p.release
	})
	return item, err
}

func TestCachedStore_FillDoesNotOverwriteUpdate(t *testing.T) {
	ctx := context.Background()
	inner := &pausingStore{
		MemoryStore: NewMemoryStore(SampleItems()...),
		read:        make(chan struct{}),
		release:     make(chan struct{}),
	}
	s := NewCachedStore(inner, newFakeRedis(), 0, logging.Discard())

	getDone := make(chan struct{})
	go func() {
		defer close(getDone)
		_, _ = s.Get(ctx, 1)
	}()
	<-inner.read

	updated := make(chan error, 1)
	go func() {
		_, err := s.Update(ctx, 1, "Renamed")
		updated <- err
	}()

	select {
	case <-updated:
		t.Fatal("update finished while a cache fill was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(inner.release)
	<-getDone
	require.NoError(t, <-updated)

	got, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
}
