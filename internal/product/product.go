// Package product defines the catalog entity.
package product

import "github.com/abgdnv/catalog/internal/repository"

// Product represents a catalog entry.
type Product struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name" validate:"required,max=100"`
	Price float64 `json:"price"`
	Stock int32   `json:"stock"`
	Color string  `json:"color"`
}

// Identity exposes the id of a Product to the generic stores and handlers.
var Identity = repository.Identity[Product]{
	ID:    func(p Product) int64 { return p.ID },
	SetID: func(p *Product, id int64) { p.ID = id },
}
