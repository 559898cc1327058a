package store

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	perrors "github.com/grocerydesk/catalog/internal/errors"
)

// InMemory implements ProductStore using an in-memory map.
type InMemory struct {
	mu       sync.RWMutex
	products map[uuid.UUID]Product
	order    []uuid.UUID // insertion order
}

// NewInMemoryStore creates a new instance of ProductStore
func NewInMemoryStore() *InMemory {
	return &InMemory{
		products: make(map[uuid.UUID]Product),
	}
}

// Save inserts a new product or replaces an existing one.
func (s *InMemory) Save(_ context.Context, product Product) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.IsNew() {
		product.ID = uuid.New()
		s.order = append(s.order, product.ID)
	} else if _, exists := s.products[product.ID]; !exists {
		return nil, perrors.ErrProductNotFound
	}
	s.products[product.ID] = product

	return &product, nil
}

// FindByID retrieves a product by its ID.
func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, perrors.ErrProductNotFound
	}
	return &p, nil
}

// Delete deletes a product by its ID.
func (s *InMemory) Delete(_ context.Context, product Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[product.ID]; !exists {
		return perrors.ErrProductNotFound
	}
	delete(s.products, product.ID)
	s.order = slices.DeleteFunc(s.order, func(id uuid.UUID) bool { return id == product.ID })
	return nil
}

// FindByNameContaining returns a page of products whose name contains name, ignoring case.
func (s *InMemory) FindByNameContaining(_ context.Context, name string, pageRequest PageRequest) (*Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(name)
	matched := make([]Product, 0, len(s.order))
	for _, id := range s.order {
		p := s.products[id]
		if strings.Contains(strings.ToLower(p.Name), needle) {
			matched = append(matched, p)
		}
	}

	content := make([]Product, 0, pageRequest.Size)
	if offset := pageRequest.Offset(); offset < int64(len(matched)) {
		end := min(offset+int64(pageRequest.Size), int64(len(matched)))
		content = append(content, matched[offset:end]...)
	}

	return &Page{
		Content:       content,
		TotalElements: int64(len(matched)),
		PageRequest:   pageRequest,
	}, nil
}
