package handler

import (
	"context"
	"fmt"

	"github.com/abgdnv/catalog/internal/repository"
)

// API implements the decision logic behind the JSON endpoints.
type API[T any] struct {
	store    repository.Repository[T]
	identity repository.Identity[T]
}

// NewAPI creates an API over the given store.
func NewAPI[T any](store repository.Repository[T], identity repository.Identity[T]) *API[T] {
	return &API[T]{store: store, identity: identity}
}

// ReadOne looks up a single entity.
func (a *API[T]) ReadOne(ctx context.Context, id int64) (Outcome[T], error) {
	entity, ok, err := a.store.GetByID(ctx, id)
	if err != nil {
		return Outcome[T]{}, fmt.Errorf("failed to get entity %d: %w", id, err)
	}
	if !ok {
		return notFound[T](), nil
	}
	return found(entity), nil
}

// ReadAll lists every entity. An empty store yields Found with an empty sequence.
func (a *API[T]) ReadAll(ctx context.Context) (Outcome[T], error) {
	list, err := a.store.GetAll(ctx)
	if err != nil {
		return Outcome[T]{}, fmt.Errorf("failed to get entities: %w", err)
	}
	return foundAll(list), nil
}

// Create stores entity when valid is true, otherwise echoes it back without touching the store.
func (a *API[T]) Create(ctx context.Context, entity T, valid bool) (Outcome[T], error) {
	if !valid {
		return invalidInput(entity), nil
	}
	if err := a.store.Create(ctx, &entity); err != nil {
		return Outcome[T]{}, fmt.Errorf("failed to create entity: %w", err)
	}
	return Outcome[T]{Kind: KindCreated, Entity: entity, Location: a.identity.ID(entity)}, nil
}

// Update replaces the entity stored under targetID. The payload id must equal targetID.
// Existence is left to the store.
func (a *API[T]) Update(ctx context.Context, targetID int64, entity T) (Outcome[T], error) {
	if a.identity.ID(entity) != targetID {
		return Outcome[T]{Kind: KindIdentityMismatch}, nil
	}
	if err := a.store.Update(ctx, entity); err != nil {
		return Outcome[T]{}, fmt.Errorf("failed to update entity %d: %w", targetID, err)
	}
	return Outcome[T]{Kind: KindUpdated}, nil
}

// Delete removes the entity stored under id after confirming it exists.
func (a *API[T]) Delete(ctx context.Context, id int64) (Outcome[T], error) {
	entity, ok, err := a.store.GetByID(ctx, id)
	if err != nil {
		return Outcome[T]{}, fmt.Errorf("failed to get entity %d: %w", id, err)
	}
	if !ok {
		return notFound[T](), nil
	}
	if err := a.store.Delete(ctx, entity); err != nil {
		return Outcome[T]{}, fmt.Errorf("failed to delete entity %d: %w", id, err)
	}
	return Outcome[T]{Kind: KindDeleted}, nil
}
