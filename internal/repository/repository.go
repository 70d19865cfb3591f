// Package repository defines the generic store contract used by the catalog handlers
// and an in-memory implementation of it.
package repository

import "context"

// Repository is durable keyed storage for one entity type.
// Implementations must be safe for concurrent use.
type Repository[T any] interface {
	// GetByID returns the entity stored under id. found is false when no entity has that id;
	// err is reserved for failures of the store itself.
	GetByID(ctx context.Context, id int64) (entity T, found bool, err error)
	// GetAll returns every stored entity in insertion order.
	GetAll(ctx context.Context) ([]T, error)
	// Create stores a new entity. A zero id is replaced by one assigned by the store.
	Create(ctx context.Context, entity *T) error
	// Update replaces the entity sharing the id of the given one.
	// It fails with a StoreError wrapping ErrNotFound when the id is not stored.
	Update(ctx context.Context, entity T) error
	// Delete removes the entity sharing the id of the given one.
	// It fails with a StoreError wrapping ErrNotFound when the id is not stored.
	Delete(ctx context.Context, entity T) error
}

// Identity gives stores and handlers access to the id of an entity.
type Identity[T any] struct {
	ID    func(T) int64
	SetID func(*T, int64)
}

// Pinger is implemented by stores that can report their availability.
type Pinger interface {
	Ping(ctx context.Context) error
}
