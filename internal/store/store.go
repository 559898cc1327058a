// Package store provides an interface for product storage operations.
package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
type ProductStore interface {
	// Save inserts the product when its ID is uuid.Nil and assigns a new ID,
	// otherwise it replaces the stored product with the same ID.
	// Returns ErrProductNotFound when replacing an ID that does not exist.
	Save(ctx context.Context, product Product) (*Product, error)

	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// Delete removes the product with the ID of the given product.
	// Returns ErrProductNotFound if no product exists with that ID.
	Delete(ctx context.Context, product Product) error

	// FindByNameContaining returns one page of products whose name contains
	// the given substring, ignoring case. An empty substring matches every product.
	// Products are ordered by insertion.
	FindByNameContaining(ctx context.Context, name string, pageRequest PageRequest) (*Page, error)
}

// Product represents a product entity in the store.
type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	Value       decimal.Decimal
	Quantity    int32
}

// IsNew reports whether the product has never been persisted.
func (p Product) IsNew() bool {
	return p.ID == uuid.Nil
}

// PageRequest bounds a paginated query. Page is zero-based.
type PageRequest struct {
	Page int32
	Size int32
}

// Offset returns the number of rows skipped before the requested page.
func (r PageRequest) Offset() int64 {
	return int64(r.Page) * int64(r.Size)
}

// Page is one slice of a paginated query result.
type Page struct {
	Content       []Product
	TotalElements int64
	PageRequest   PageRequest
}

// TotalPages returns the number of pages needed to hold TotalElements.
func (p Page) TotalPages() int64 {
	if p.PageRequest.Size <= 0 {
		return 0
	}
	size := int64(p.PageRequest.Size)
	return (p.TotalElements + size - 1) / size
}
