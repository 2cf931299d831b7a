// Package collection keeps an ordered list of records mirrored to a single
// storage key. Every mutation is written through before it returns.
package collection

import (
	"context"
	"slices"
	"sync"

	"github.com/AnshRaj112/mindmate-backend/internal/storage"
)

// Record is anything with a stable integer identity.
type Record interface {
	RecordID() int64
}

// Store is the in-memory source of truth for one persisted collection. If a
// write to the medium fails the in-memory state is kept, so reads in the
// same process still see the mutation.
type Store[T Record] struct {
	mu      sync.RWMutex
	key     string
	adapter *storage.Adapter
	items   []T
}

// Load reads key once and returns a store mirroring it. Missing or corrupted
// values start an empty collection.
func Load[T Record](ctx context.Context, adapter *storage.Adapter, key string) *Store[T] {
	items := storage.Read(ctx, adapter, key, []T{})
	if items == nil {
		items = []T{}
	}
	return &Store[T]{key: key, adapter: adapter, items: items}
}

// Key is the storage key the collection is persisted under.
func (s *Store[T]) Key() string { return s.key }

// Append adds r at the tail.
func (s *Store[T]) Append(ctx context.Context, r T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, r)
	s.flush(ctx)
}

// Prepend adds r at the head.
func (s *Store[T]) Prepend(ctx context.Context, r T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = slices.Insert(s.items, 0, r)
	s.flush(ctx)
}

// UpdateByID replaces the record with the given id and reports whether one
// matched. Nothing is written when there is no match.
func (s *Store[T]) UpdateByID(ctx context.Context, id int64, r T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.items[i] = r
	s.flush(ctx)
	return true
}

// RemoveByID drops the record with the given id and reports whether one
// matched. Nothing is written when there is no match.
func (s *Store[T]) RemoveByID(ctx context.Context, id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.items = slices.Delete(s.items, i, i+1)
	s.flush(ctx)
	return true
}

// Replace swaps the whole collection.
func (s *Store[T]) Replace(ctx context.Context, items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = slices.Clone(items)
	if s.items == nil {
		s.items = []T{}
	}
	s.flush(ctx)
}

// All returns a copy of the records in their current order.
func (s *Store[T]) All() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Find returns the record with the given id.
func (s *Store[T]) Find(id int64) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	var zero T
	return zero, false
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store[T]) indexOf(id int64) int {
	return slices.IndexFunc(s.items, func(r T) bool { return r.RecordID() == id })
}

// flush must be called with mu held so the medium sees writes in memory order.
func (s *Store[T]) flush(ctx context.Context) {
	s.adapter.Write(ctx, s.key, s.items)
}
