package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/catalog/pkg/messaging"
)

// Action names the kind of change carried by a ProductChangedEvent.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

type ProductChangedEvent struct {
	ID         int64     `json:"id"`
	Action     Action    `json:"action"`
	Name       string    `json:"name,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e ProductChangedEvent) Subject() string {
	return messaging.ProductsSubjectPrefix + string(e.Action)
}

func (e ProductChangedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
