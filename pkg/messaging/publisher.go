package messaging

import (
	"context"
)

const (
	// ProductsStream is the JetStream stream holding catalog change events.
	ProductsStream = "CATALOG_PRODUCTS"
	// ProductsSubjectPrefix prefixes the subject of every product change event.
	ProductsSubjectPrefix = "catalog.products."
	// ProductsSubjects matches every product change subject.
	ProductsSubjects = ProductsSubjectPrefix + ">"
)

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
