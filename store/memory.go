package store

import (
	"context"
	"sync"

	"simple-crud/models"
)

// MemoryStore keeps items in insertion order in a slice. Lookups are linear scans.
// State is lost when the process exits.
type MemoryStore struct {
	mu    sync.RWMutex
	items []models.Item
	seq   *Sequence
}

// NewMemoryStore returns a store preloaded with seed.
func NewMemoryStore(seed ...models.Item) *MemoryStore {
	s := &MemoryStore{
		items: make([]models.Item, 0, len(seed)),
		seq:   NewSequence(),
	}
	for _, it := range seed {
		s.items = append(s.items, it)
		s.seq.Observe(it.ID)
	}
	return s
}

func (s *MemoryStore) List(_ context.Context) ([]models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Item, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id int64) (models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.items[i], nil
	}
	return models.Item{}, ErrNotFound
}

func (s *MemoryStore) Create(_ context.Context, name string) (models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := models.Item{ID: s.seq.Next(), Name: name}
	s.items = append(s.items, item)
	return item, nil
}

func (s *MemoryStore) Update(_ context.Context, id int64, name string) (models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Item{}, ErrNotFound
	}
	s.items[i].Name = name
	return s.items[i], nil
}

func (s *MemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return nil
}

// indexOf must be called with mu held.
func (s *MemoryStore) indexOf(id int64) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}
