package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/abgdnv/catalog/internal/product"
	"github.com/abgdnv/catalog/internal/repository"
	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/abgdnv/catalog/pkg/messaging/events"
)

// Publishing wraps a product repository and announces every successful mutation.
// The write has already happened when the event is sent, so a failed publish is
// logged and never turned into a store error.
type Publishing struct {
	next      repository.Repository[product.Product]
	publisher messaging.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewPublishing creates a publishing decorator around next.
func NewPublishing(next repository.Repository[product.Product], publisher messaging.Publisher, logger *slog.Logger) *Publishing {
	return &Publishing{
		next:      next,
		publisher: publisher,
		logger:    logger.With("component", "publisher"),
		now:       time.Now,
	}
}

func (s *Publishing) GetByID(ctx context.Context, id int64) (product.Product, bool, error) {
	return s.next.GetByID(ctx, id)
}

func (s *Publishing) GetAll(ctx context.Context) ([]product.Product, error) {
	return s.next.GetAll(ctx)
}

func (s *Publishing) Create(ctx context.Context, entity *product.Product) error {
	if err := s.next.Create(ctx, entity); err != nil {
		return err
	}
	s.publish(ctx, events.ActionCreated, *entity)
	return nil
}

func (s *Publishing) Update(ctx context.Context, entity product.Product) error {
	if err := s.next.Update(ctx, entity); err != nil {
		return err
	}
	s.publish(ctx, events.ActionUpdated, entity)
	return nil
}

func (s *Publishing) Delete(ctx context.Context, entity product.Product) error {
	if err := s.next.Delete(ctx, entity); err != nil {
		return err
	}
	s.publish(ctx, events.ActionDeleted, entity)
	return nil
}

// Ping forwards to the wrapped store when it supports pings.
func (s *Publishing) Ping(ctx context.Context) error {
	if p, ok := s.next.(repository.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (s *Publishing) publish(ctx context.Context, action events.Action, p product.Product) {
	event := events.ProductChangedEvent{
		ID:         p.ID,
		Action:     action,
		Name:       p.Name,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish product event", "ID", p.ID, "action", action, "error", err)
		return
	}
	s.logger.DebugContext(ctx, "Product event published", "ID", p.ID, "action", action)
}
