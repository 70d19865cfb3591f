package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	catalogerrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/product"
	"github.com/abgdnv/catalog/internal/repository"
	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/abgdnv/catalog/pkg/messaging/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event messaging.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func newTestPublishing(publisher messaging.Publisher) *Publishing {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewPublishing(repository.NewMemory(product.Identity), publisher, logger)
	s.now = func() time.Time { return time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC) }
	return s
}

func TestPublishing_Mutations(t *testing.T) {
	// given
	ctx := context.Background()
	publisher := new(mockPublisher)
	s := newTestPublishing(publisher)
	occurred := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	publisher.On("Publish", mock.Anything, events.ProductChangedEvent{ID: 1, Action: events.ActionCreated, Name: "Kalem", OccurredAt: occurred}).Return(nil).Once()
	publisher.On("Publish", mock.Anything, events.ProductChangedEvent{ID: 1, Action: events.ActionUpdated, Name: "Defter", OccurredAt: occurred}).Return(nil).Once()
	publisher.On("Publish", mock.Anything, events.ProductChangedEvent{ID: 1, Action: events.ActionDeleted, Name: "Defter", OccurredAt: occurred}).Return(nil).Once()

	// when
	p := product.Product{Name: "Kalem"}
	require.NoError(t, s.Create(ctx, &p))
	p.Name = "Defter"
	require.NoError(t, s.Update(ctx, p))
	require.NoError(t, s.Delete(ctx, p))

	// then
	publisher.AssertExpectations(t)
}

func TestPublishing_FailedStoreCallPublishesNothing(t *testing.T) {
	// given
	publisher := new(mockPublisher)
	s := newTestPublishing(publisher)

	// when
	err := s.Update(context.Background(), product.Product{ID: 5, Name: "Yok"})

	// then
	assert.ErrorIs(t, err, catalogerrors.ErrNotFound)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestPublishing_PublishFailureKeepsWrite(t *testing.T) {
	// given
	ctx := context.Background()
	publisher := new(mockPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("nats down")).Once()
	s := newTestPublishing(publisher)

	// when
	p := product.Product{Name: "Kalem"}
	err := s.Create(ctx, &p)

	// then
	require.NoError(t, err)
	_, ok, err := s.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	list, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	publisher.AssertExpectations(t)
}
