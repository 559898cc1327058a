// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	perrors "github.com/grocerydesk/catalog/internal/errors"
	"github.com/grocerydesk/catalog/internal/store"
	"github.com/grocerydesk/catalog/pkg/messaging"
	"github.com/grocerydesk/catalog/pkg/messaging/events"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// Register persists a draft product and returns it with its newly assigned ID.
	Register(ctx context.Context, draft store.Product) (*store.Product, error)

	// Update merges patch into current and persists the result.
	// Returns ErrProductNotFound if current no longer exists in the store.
	Update(ctx context.Context, current store.Product, patch Patch) (*store.Product, error)

	// FindByID retrieves a single product by its unique identifier.
	// found is false when no product exists with the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (product *store.Product, found bool, err error)

	// ListAll returns one page of products whose name contains name, ignoring case.
	// An empty name matches every product.
	ListAll(ctx context.Context, name string, pageRequest store.PageRequest) (*store.Page, error)

	// Delete removes a persisted product.
	// Returns ErrUnsavedProduct if product is nil or was never saved.
	Delete(ctx context.Context, product *store.Product) error

	// AddStorage increases the product quantity by quantity.
	// Returns ErrInvalidQuantity if quantity is lower than 1.
	AddStorage(ctx context.Context, product store.Product, quantity int32) (*store.Product, error)

	// RemoveStorage decreases the product quantity by quantity.
	// Returns ErrInvalidQuantity if quantity is lower than 1 and
	// ErrInsufficientStock if quantity exceeds the current stock.
	RemoveStorage(ctx context.Context, product store.Product, quantity int32) (*store.Product, error)
}

// Service implements ProductService and provides methods to manage products.
// It holds no mutable state and is safe for concurrent use.
type Service struct {
	repository store.ProductStore
	publisher  messaging.Publisher
	logger     *slog.Logger

	registeredCounter  metric.Int64Counter
	adjustmentsCounter metric.Int64Counter
	violationsCounter  metric.Int64Counter
}

// NewService creates a new instance of ProductService with the provided repository.
// Stock changes are announced through publisher.
func NewService(repo store.ProductStore, publisher messaging.Publisher, logger *slog.Logger) *Service {
	meter := otel.Meter("catalog-service")
	registered, err := meter.Int64Counter("catalog_products_registered",
		metric.WithDescription("Total number of registered products"))
	if err != nil {
		panic(fmt.Sprintf("failed to create catalog_products_registered counter: %v", err))
	}
	adjustments, err := meter.Int64Counter("catalog_stock_adjustments",
		metric.WithDescription("Total number of successful stock adjustments"))
	if err != nil {
		panic(fmt.Sprintf("failed to create catalog_stock_adjustments counter: %v", err))
	}
	violations, err := meter.Int64Counter("catalog_business_rule_violations",
		metric.WithDescription("Total number of rejected stock adjustments"))
	if err != nil {
		panic(fmt.Sprintf("failed to create catalog_business_rule_violations counter: %v", err))
	}
	return &Service{
		repository:         repo,
		publisher:          publisher,
		logger:             logger.With("component", "service"),
		registeredCounter:  registered,
		adjustmentsCounter: adjustments,
		violationsCounter:  violations,
	}
}

// Register persists draft and returns the stored product.
// Store errors are returned as is.
func (s *Service) Register(ctx context.Context, draft store.Product) (*store.Product, error) {
	if !store.ValueFits(draft.Value) {
		return nil, perrors.ErrInvalidValue
	}
	saved, err := s.repository.Save(ctx, draft)
	if err != nil {
		return nil, err
	}
	s.registeredCounter.Add(ctx, 1)
	return saved, nil
}

// Update merges patch into current and saves the result.
func (s *Service) Update(ctx context.Context, current store.Product, patch Patch) (*store.Product, error) {
	if current.IsNew() {
		return nil, perrors.ErrUnsavedUpdate
	}
	if patch.Value != nil && !store.ValueFits(*patch.Value) {
		return nil, perrors.ErrInvalidValue
	}
	return s.repository.Save(ctx, Merge(current, patch))
}

// FindByID retrieves a product by its ID. A missing product is reported through found, not err.
func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (*store.Product, bool, error) {
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, perrors.ErrProductNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return product, true, nil
}

// ListAll delegates the filtered, paginated query to the store.
func (s *Service) ListAll(ctx context.Context, name string, pageRequest store.PageRequest) (*store.Page, error) {
	return s.repository.FindByNameContaining(ctx, name, pageRequest)
}

// Delete removes product from the store. Drafts are rejected before the store is touched.
func (s *Service) Delete(ctx context.Context, product *store.Product) error {
	if product == nil || product.IsNew() {
		return perrors.ErrUnsavedProduct
	}
	return s.repository.Delete(ctx, *product)
}

// AddStorage restocks product by quantity units.
func (s *Service) AddStorage(ctx context.Context, product store.Product, quantity int32) (*store.Product, error) {
	if err := s.checkAdjustment(ctx, product, quantity); err != nil {
		return nil, err
	}
	if product.Quantity > math.MaxInt32-quantity {
		s.violationsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("rule", "stock_overflow")))
		return nil, perrors.ErrStockOverflow
	}
	product.Quantity += quantity
	return s.saveAdjusted(ctx, product, quantity, "add")
}

// RemoveStorage consumes quantity units of product.
func (s *Service) RemoveStorage(ctx context.Context, product store.Product, quantity int32) (*store.Product, error) {
	if err := s.checkAdjustment(ctx, product, quantity); err != nil {
		return nil, err
	}
	if quantity > product.Quantity {
		s.violationsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("rule", "insufficient_stock")))
		return nil, perrors.ErrInsufficientStock
	}
	product.Quantity -= quantity
	return s.saveAdjusted(ctx, product, -quantity, "remove")
}

// checkAdjustment validates the preconditions shared by AddStorage and RemoveStorage.
func (s *Service) checkAdjustment(ctx context.Context, product store.Product, quantity int32) error {
	if quantity < 1 {
		s.violationsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("rule", "invalid_quantity")))
		return perrors.ErrInvalidQuantity
	}
	if product.IsNew() {
		return perrors.ErrUnsavedUpdate
	}
	return nil
}

// saveAdjusted persists an adjusted product and announces the change.
func (s *Service) saveAdjusted(ctx context.Context, product store.Product, delta int32, direction string) (*store.Product, error) {
	saved, err := s.repository.Save(ctx, product)
	if err != nil {
		return nil, err
	}
	s.adjustmentsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("direction", direction)))

	event := events.StockChangedEvent{
		ProductID:  saved.ID,
		Delta:      delta,
		Quantity:   saved.Quantity,
		OccurredAt: time.Now().UTC(),
	}
	// the stock is already stored, a lost notification must not fail the request
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish stock change", "ID", saved.ID, "error", err)
	}
	return saved, nil
}
