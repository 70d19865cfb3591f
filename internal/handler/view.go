package handler

import (
	"context"
	"fmt"

	"github.com/abgdnv/catalog/internal/repository"
)

// View implements the decision logic behind the page-style endpoints.
// Operations taking a *int64 treat a nil id as a request without an identifier and
// redirect to the index before any store call.
type View[T any] struct {
	store    repository.Repository[T]
	identity repository.Identity[T]
}

// NewView creates a View over the given store.
func NewView[T any](store repository.Repository[T], identity repository.Identity[T]) *View[T] {
	return &View[T]{store: store, identity: identity}
}

// Index lists every entity.
func (v *View[T]) Index(ctx context.Context) (Outcome[T], error) {
	list, err := v.store.GetAll(ctx)
	if err != nil {
		return Outcome[T]{}, fmt.Errorf("failed to get entities: %w", err)
	}
	return foundAll(list), nil
}

// Details shows a single entity.
func (v *View[T]) Details(ctx context.Context, id *int64) (Outcome[T], error) {
	return v.lookup(ctx, id)
}

// NewForm asks for an empty create form.
func (v *View[T]) NewForm() Outcome[T] {
	return Outcome[T]{Kind: KindForm}
}

// Create stores entity when valid is true and redirects to the index.
func (v *View[T]) Create(ctx context.Context, entity T, valid bool) (Outcome[T], error) {
	if !valid {
		return invalidInput(entity), nil
	}
	if err := v.store.Create(ctx, &entity); err != nil {
		return Outcome[T]{}, fmt.Errorf("failed to create entity: %w", err)
	}
	return redirectToIndex[T](), nil
}

// Edit loads the entity to prefill the edit form.
func (v *View[T]) Edit(ctx context.Context, id *int64) (Outcome[T], error) {
	return v.lookup(ctx, id)
}

// EditSubmit replaces the entity stored under targetID and redirects to the index.
func (v *View[T]) EditSubmit(ctx context.Context, targetID int64, entity T, valid bool) (Outcome[T], error) {
	if v.identity.ID(entity) != targetID {
		return Outcome[T]{Kind: KindIdentityMismatch}, nil
	}
	if !valid {
		return invalidInput(entity), nil
	}
	if err := v.store.Update(ctx, entity); err != nil {
		return Outcome[T]{}, fmt.Errorf("failed to update entity %d: %w", targetID, err)
	}
	return redirectToIndex[T](), nil
}

// Delete loads the entity for the delete confirmation.
func (v *View[T]) Delete(ctx context.Context, id *int64) (Outcome[T], error) {
	return v.lookup(ctx, id)
}

// DeleteConfirmed removes the entity stored under id and redirects to the index.
func (v *View[T]) DeleteConfirmed(ctx context.Context, id int64) (Outcome[T], error) {
	entity, ok, err := v.store.GetByID(ctx, id)
	if err != nil {
		return Outcome[T]{}, fmt.Errorf("failed to get entity %d: %w", id, err)
	}
	if !ok {
		return notFound[T](), nil
	}
	if err := v.store.Delete(ctx, entity); err != nil {
		return Outcome[T]{}, fmt.Errorf("failed to delete entity %d: %w", id, err)
	}
	return redirectToIndex[T](), nil
}

func (v *View[T]) lookup(ctx context.Context, id *int64) (Outcome[T], error) {
	if id == nil {
		return redirectToIndex[T](), nil
	}
	entity, ok, err := v.store.GetByID(ctx, *id)
	if err != nil {
		return Outcome[T]{}, fmt.Errorf("failed to get entity %d: %w", *id, err)
	}
	if !ok {
		return notFound[T](), nil
	}
	return found(entity), nil
}
