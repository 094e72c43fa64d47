// Package store holds the item collection behind a small interface with
// in-memory, SQLite, MongoDB and Redis-cached implementations.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"simple-crud/models"
)

// ErrNotFound is returned when no item has the requested id.
var ErrNotFound = errors.New("item not found")

// ItemStore is the set of operations the API exposes over items.
// Implementations must be safe for concurrent use.
type ItemStore interface {
	List(ctx context.Context) ([]models.Item, error)
	Get(ctx context.Context, id int64) (models.Item, error)
	Create(ctx context.Context, name string) (models.Item, error)
	Update(ctx context.Context, id int64, name string) (models.Item, error)
	Delete(ctx context.Context, id int64) error
}

// SampleItems are loaded into a fresh store when seeding is enabled.
func SampleItems() []models.Item {
	return []models.Item{
		{ID: 1, Name: "Sample Item 1"},
		{ID: 2, Name: "Sample Item 2"},
	}
}

// Sequence hands out timestamp-derived ids: the current Unix millisecond,
// bumped past the previous id when two calls land in the same millisecond.
type Sequence struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewSequence() *Sequence {
	return &Sequence{now: time.Now}
}

// Next returns an id strictly greater than every id returned or observed so far.
func (s *Sequence) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.now().UnixMilli()
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id
	return id
}

// Observe raises the floor so Next never reuses id.
func (s *Sequence) Observe(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id > s.last {
		s.last = id
	}
}
