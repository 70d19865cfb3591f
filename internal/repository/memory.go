package repository

import (
	"context"
	"slices"
	"sync"

	catalogerrors "github.com/abgdnv/catalog/internal/errors"
)

// Memory implements Repository using an in-memory map.
type Memory[T any] struct {
	mu       sync.RWMutex
	identity Identity[T]
	entities map[int64]T
	order    []int64
	nextID   int64
}

// NewMemory creates an empty in-memory store.
func NewMemory[T any](identity Identity[T]) *Memory[T] {
	return &Memory[T]{
		identity: identity,
		entities: make(map[int64]T),
		nextID:   1,
	}
}

func (s *Memory[T]) GetByID(_ context.Context, id int64) (T, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entity, ok := s.entities[id]
	return entity, ok, nil
}

func (s *Memory[T]) GetAll(_ context.Context) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]T, 0, len(s.order))
	for _, id := range s.order {
		list = append(list, s.entities[id])
	}
	return list, nil
}

func (s *Memory[T]) Create(_ context.Context, entity *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.identity.ID(*entity)
	if id == 0 {
		id = s.nextID
		s.identity.SetID(entity, id)
	}
	if _, exists := s.entities[id]; exists {
		return catalogerrors.NewStoreError("create", id, catalogerrors.ErrDuplicateID)
	}
	if id >= s.nextID {
		s.nextID = id + 1
	}
	s.entities[id] = *entity
	s.order = append(s.order, id)
	return nil
}

func (s *Memory[T]) Update(_ context.Context, entity T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.identity.ID(entity)
	if _, exists := s.entities[id]; !exists {
		return catalogerrors.NewStoreError("update", id, catalogerrors.ErrNotFound)
	}
	s.entities[id] = entity
	return nil
}

func (s *Memory[T]) Delete(_ context.Context, entity T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.identity.ID(entity)
	if _, exists := s.entities[id]; !exists {
		return catalogerrors.NewStoreError("delete", id, catalogerrors.ErrNotFound)
	}
	delete(s.entities, id)
	s.order = slices.DeleteFunc(s.order, func(v int64) bool { return v == id })
	return nil
}

// Ping always succeeds.
func (s *Memory[T]) Ping(_ context.Context) error {
	return nil
}
