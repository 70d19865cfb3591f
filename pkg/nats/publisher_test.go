package nats

import (
	"context"
	"errors"
	"testing"

	"github.com/abgdnv/catalog/pkg/messaging/events"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockJetStream struct {
	mock.Mock
}

func (m *mockJetStream) Publish(ctx context.Context, subject string, payload []byte, _ ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	args := m.Called(ctx, subject, payload)
	ack, _ := args.Get(0).(*jetstream.PubAck)
	return ack, args.Error(1)
}

func TestNatsPublisher_Publish(t *testing.T) {
	event := events.ProductChangedEvent{ID: 1, Action: events.ActionCreated, Name: "Kalem"}
	payload, err := event.Payload()
	require.NoError(t, err)

	testCases := []struct {
		name    string
		pubErr  error
		wantErr bool
	}{
		{name: "published"},
		{name: "jetstream failure", pubErr: errors.New("no responders"), wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			js := new(mockJetStream)
			js.On("Publish", mock.Anything, "catalog.products.created", payload).
				Return(&jetstream.PubAck{Stream: "CATALOG_PRODUCTS"}, tc.pubErr).Once()
			publisher := &NatsPublisher{js: js}

			// when
			err := publisher.Publish(context.Background(), event)

			// then
			js.AssertExpectations(t)
			if tc.wantErr {
				assert.ErrorIs(t, err, tc.pubErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
