package store

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryStore implements Store in process memory. Every value going in or
// out is copied through Schema.Clone, so callers never share state with the
// store.
type MemoryStore[T any] struct {
	mu     sync.RWMutex
	schema Schema[T]
	now    func() time.Time
	order  []string
	items  map[string]T
}

// NewMemoryStore creates an empty MemoryStore for the given schema.
func NewMemoryStore[T any](schema Schema[T]) *MemoryStore[T] {
	return &MemoryStore[T]{
		schema: schema,
		now:    func() time.Time { return time.Now().UTC() },
		items:  make(map[string]T),
	}
}

func (s *MemoryStore[T]) Create(ctx context.Context, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.schema.BeforeCreate != nil {
		s.schema.BeforeCreate(entity, s.now())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.schema.ID(*entity)
	if _, exists := s.items[id]; exists {
		return ErrDuplicate
	}
	if s.conflicts(*entity, id) {
		return ErrDuplicate
	}

	s.items[id] = s.clone(*entity)
	s.order = append(s.order, id)
	return nil
}

func (s *MemoryStore[T]) Get(ctx context.Context, id string, _ ...QueryOption) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.items[id]
	if !ok {
		return zero, ErrNotFound
	}
	return s.clone(v), nil
}

func (s *MemoryStore[T]) GetOne(ctx context.Context, filter Filter[T], _ ...QueryOption) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		if v := s.items[id]; filter.Matches(v) {
			return s.clone(v), nil
		}
	}
	return zero, ErrNotFound
}

func (s *MemoryStore[T]) GetAll(ctx context.Context, filter Filter[T]) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]T, 0, len(s.order))
	for _, id := range s.order {
		if v := s.items[id]; filter.Matches(v) {
			result = append(result, s.clone(v))
		}
	}
	return result, nil
}

func (s *MemoryStore[T]) Save(ctx context.Context, entity T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.schema.ID(entity)
	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	if s.conflicts(entity, id) {
		return ErrDuplicate
	}

	s.items[id] = s.clone(entity)
	return nil
}

func (s *MemoryStore[T]) Remove(ctx context.Context, entity T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.schema.ID(entity)
	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}

	delete(s.items, id)
	s.order = slices.DeleteFunc(s.order, func(o string) bool { return o == id })
	return nil
}

// conflicts reports whether entity shares a unique key with a different
// stored entity. Callers hold the lock.
func (s *MemoryStore[T]) conflicts(entity T, id string) bool {
	if s.schema.UniqueKeys == nil {
		return false
	}

	keys := s.schema.UniqueKeys(entity)
	for otherID, other := range s.items {
		if otherID == id {
			continue
		}
		for _, k := range s.schema.UniqueKeys(other) {
			if slices.Contains(keys, k) {
				return true
			}
		}
	}
	return false
}

func (s *MemoryStore[T]) clone(v T) T {
	if s.schema.Clone == nil {
		return v
	}
	return s.schema.Clone(v)
}
