// Package handler holds the request decision logic of the catalog. Each operation calls the
// store at most once per step and reports one of a fixed set of outcomes; transports decide
// how an outcome is written to the wire.
package handler

// Kind identifies the terminal result of a handler operation.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindFound
	KindInvalidInput
	KindCreated
	KindIdentityMismatch
	KindUpdated
	KindDeleted
	// KindRedirectToIndex is produced by view operations when the request carries no id,
	// and after successful view mutations.
	KindRedirectToIndex
	// KindForm asks for an empty create form.
	KindForm
)

var kindNames = map[Kind]string{
	KindNotFound:         "NotFound",
	KindFound:            "Found",
	KindInvalidInput:     "InvalidInput",
	KindCreated:          "Created",
	KindIdentityMismatch: "IdentityMismatch",
	KindUpdated:          "Updated",
	KindDeleted:          "Deleted",
	KindRedirectToIndex:  "RedirectToIndex",
	KindForm:             "Form",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Outcome is the result of a handler operation.
// Entity is set for single-entity Found, InvalidInput and Created; Entities for Found sequences;
// Location carries the id of a Created entity.
type Outcome[T any] struct {
	Kind     Kind
	Entity   T
	Entities []T
	Location int64
}

func notFound[T any]() Outcome[T] {
	return Outcome[T]{Kind: KindNotFound}
}

func found[T any](entity T) Outcome[T] {
	return Outcome[T]{Kind: KindFound, Entity: entity}
}

func foundAll[T any](entities []T) Outcome[T] {
	return Outcome[T]{Kind: KindFound, Entities: entities}
}

func invalidInput[T any](entity T) Outcome[T] {
	return Outcome[T]{Kind: KindInvalidInput, Entity: entity}
}

func redirectToIndex[T any]() Outcome[T] {
	return Outcome[T]{Kind: KindRedirectToIndex}
}
