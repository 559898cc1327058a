package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	perrors "github.com/grocerydesk/catalog/internal/errors"
	"github.com/grocerydesk/catalog/internal/store"
	"github.com/grocerydesk/catalog/pkg/messaging"
	"github.com/grocerydesk/catalog/pkg/messaging/events"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockProductStore is a mock implementation of the ProductStore interface.
// It records every Save and Delete call.
type mockProductStore struct {
	product *store.Product
	page    *store.Page
	error   error

	saved   []store.Product
	deleted []store.Product
}

// Simulate saving a product, assigning an ID to drafts
func (m *mockProductStore) Save(_ context.Context, product store.Product) (*store.Product, error) {
	m.saved = append(m.saved, product)
	if m.error != nil {
		return nil, m.error
	}
	if product.IsNew() {
		product.ID = uuid.New()
	}
	return &product, nil
}

// Simulate finding a product by ID
func (m *mockProductStore) FindByID(_ context.Context, _ uuid.UUID) (*store.Product, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.product, nil
}

// Simulate deleting a product
func (m *mockProductStore) Delete(_ context.Context, product store.Product) error {
	m.deleted = append(m.deleted, product)
	return m.error
}

// Simulate a filtered product listing
func (m *mockProductStore) FindByNameContaining(_ context.Context, _ string, _ store.PageRequest) (*store.Page, error) {
	return m.page, m.error
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event messaging.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func newTestService(repo store.ProductStore, publisher messaging.Publisher) *Service {
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}
	return NewService(repo, publisher, slog.New(slog.DiscardHandler))
}

func persistedProduct(quantity int32) store.Product {
	return store.Product{
		ID:          uuid.MustParse("123e4567-e89b-12d3-a456-426614174000"),
		Name:        "Soda",
		Description: "Regular soda",
		Value:       decimal.RequireFromString("12.50"),
		Quantity:    quantity,
	}
}

func Test_ProductService_Register(t *testing.T) {
	// given
	repo := &mockProductStore{}
	service := newTestService(repo, nil)
	draft := store.Product{Name: "Soda", Description: "Regular soda", Value: decimal.RequireFromString("12.50"), Quantity: 10}
	// when
	saved, err := service.Register(context.Background(), draft)
	// then
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, saved.ID)
	assert.Equal(t, "Soda", saved.Name)
	assert.Equal(t, int32(10), saved.Quantity)
	require.Len(t, repo.saved, 1)
	assert.True(t, repo.saved[0].IsNew())
}

func Test_ProductService_Register_KeepsExactValue(t *testing.T) {
	testCases := []struct {
		value       string
		expectError error
	}{
		{value: "10.00"},
		{value: "0.01"},
		{value: "9999999999.99"},
		{value: "10.005", expectError: perrors.ErrInvalidValue},
		{value: "0.004", expectError: perrors.ErrInvalidValue},
		{value: "10000000000.00", expectError: perrors.ErrInvalidValue},
	}
	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			// given
			repo := &mockProductStore{}
			service := newTestService(repo, nil)
			draft := store.Product{Name: "Soda", Description: "2L bottle", Value: decimal.RequireFromString(tc.value), Quantity: 1}
			// when
			saved, err := service.Register(context.Background(), draft)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, saved)
				assert.Empty(t, repo.saved)
				return
			}
			require.NoError(t, err)
			assert.True(t, draft.Value.Equal(saved.Value))
		})
	}
}

func Test_ProductService_Register_StoreError(t *testing.T) {
	// given
	storeErr := errors.New("connection refused")
	service := newTestService(&mockProductStore{error: storeErr}, nil)
	// when
	saved, err := service.Register(context.Background(), store.Product{Name: "Soda"})
	// then
	assert.ErrorIs(t, err, storeErr)
	assert.Nil(t, saved)
}

func Test_ProductService_Update(t *testing.T) {
	name := "Diet Soda"
	value := decimal.RequireFromString("9.99")
	testCases := []struct {
		name        string
		current     store.Product
		patch       Patch
		expected    store.Product
		expectError error
		expectSaves int
	}{
		{
			name:    "Success - only name changes",
			current: persistedProduct(10),
			patch:   Patch{Name: &name},
			expected: func() store.Product {
				p := persistedProduct(10)
				p.Name = name
				return p
			}(),
			expectSaves: 1,
		},
		{
			name:    "Success - value changes",
			current: persistedProduct(10),
			patch:   Patch{Value: &value},
			expected: func() store.Product {
				p := persistedProduct(10)
				p.Value = value
				return p
			}(),
			expectSaves: 1,
		},
		{
			name:        "Success - empty patch keeps everything",
			current:     persistedProduct(10),
			patch:       Patch{},
			expected:    persistedProduct(10),
			expectSaves: 1,
		},
		{
			name:        "Error - value would be rounded",
			current:     persistedProduct(10),
			patch:       Patch{Value: func() *decimal.Decimal { v := decimal.RequireFromString("9.999"); return &v }()},
			expectError: perrors.ErrInvalidValue,
			expectSaves: 0,
		},
		{
			name:        "Error - draft cannot be updated",
			current:     store.Product{Name: "Soda"},
			patch:       Patch{Name: &name},
			expectError: perrors.ErrUnsavedUpdate,
			expectSaves: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			repo := &mockProductStore{}
			service := newTestService(repo, nil)
			// when
			updated, err := service.Update(context.Background(), tc.current, tc.patch)
			// then
			assert.Len(t, repo.saved, tc.expectSaves)
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, updated)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected.ID, updated.ID)
			assert.Equal(t, tc.expected.Name, updated.Name)
			assert.Equal(t, tc.expected.Description, updated.Description)
			assert.True(t, tc.expected.Value.Equal(updated.Value))
			assert.Equal(t, tc.expected.Quantity, updated.Quantity)
		})
	}
}

func Test_ProductService_Update_NotFound(t *testing.T) {
	// given
	service := newTestService(&mockProductStore{error: perrors.ErrProductNotFound}, nil)
	// when
	updated, err := service.Update(context.Background(), persistedProduct(1), Patch{})
	// then
	assert.ErrorIs(t, err, perrors.ErrProductNotFound)
	assert.Nil(t, updated)
}

func Test_ProductService_FindByID(t *testing.T) {
	storeErr := errors.New("store error")
	existing := persistedProduct(3)
	testCases := []struct {
		name        string
		mockStore   *mockProductStore
		expected    *store.Product
		expectFound bool
		expectError error
	}{
		{
			name:        "Success - product found",
			mockStore:   &mockProductStore{product: &existing},
			expected:    &existing,
			expectFound: true,
		},
		{
			name:        "Success - product absent",
			mockStore:   &mockProductStore{error: perrors.ErrProductNotFound},
			expectFound: false,
		},
		{
			name:        "Error - store error",
			mockStore:   &mockProductStore{error: storeErr},
			expectError: storeErr,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := newTestService(tc.mockStore, nil)
			// when
			found, ok, err := service.FindByID(context.Background(), existing.ID)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.Nil(t, found)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectFound, ok)
			assert.Equal(t, tc.expected, found)
		})
	}
}

func Test_ProductService_ListAll(t *testing.T) {
	// given
	page := &store.Page{
		Content:       []store.Product{persistedProduct(1)},
		TotalElements: 1,
		PageRequest:   store.PageRequest{Page: 0, Size: 20},
	}
	service := newTestService(&mockProductStore{page: page}, nil)
	// when
	result, err := service.ListAll(context.Background(), "Sod", store.PageRequest{Page: 0, Size: 20})
	// then
	require.NoError(t, err)
	assert.Equal(t, page, result)
}

func Test_ProductService_Delete(t *testing.T) {
	existing := persistedProduct(1)
	testCases := []struct {
		name          string
		product       *store.Product
		expectError   error
		expectDeletes int
	}{
		{
			name:          "Success - persisted product",
			product:       &existing,
			expectDeletes: 1,
		},
		{
			name:          "Error - absent product",
			product:       nil,
			expectError:   perrors.ErrUnsavedProduct,
			expectDeletes: 0,
		},
		{
			name:          "Error - draft product",
			product:       &store.Product{Name: "Soda"},
			expectError:   perrors.ErrUnsavedProduct,
			expectDeletes: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			repo := &mockProductStore{}
			service := newTestService(repo, nil)
			// when
			err := service.Delete(context.Background(), tc.product)
			// then
			assert.Len(t, repo.deleted, tc.expectDeletes)
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.EqualError(t, err, "Can't delete an unsaved product")
				return
			}
			require.NoError(t, err)
		})
	}
}

func Test_ProductService_AddStorage(t *testing.T) {
	testCases := []struct {
		name          string
		product       store.Product
		quantity      int32
		expectedStock int32
		expectError   error
		expectMessage string
	}{
		{
			name:          "Success - restock",
			product:       persistedProduct(10),
			quantity:      10,
			expectedStock: 20,
		},
		{
			name:          "Success - restock empty product",
			product:       persistedProduct(0),
			quantity:      1,
			expectedStock: 1,
		},
		{
			name:          "Error - zero quantity",
			product:       persistedProduct(10),
			quantity:      0,
			expectError:   perrors.ErrInvalidQuantity,
			expectMessage: "Passed quantity should be equal or higher than 1",
		},
		{
			name:          "Error - negative quantity",
			product:       persistedProduct(10),
			quantity:      -2,
			expectError:   perrors.ErrInvalidQuantity,
			expectMessage: "Passed quantity should be equal or higher than 1",
		},
		{
			name:          "Error - overflow",
			product:       persistedProduct(2147483000),
			quantity:      1000,
			expectError:   perrors.ErrStockOverflow,
			expectMessage: "Product's quantity would exceed the storage limit",
		},
		{
			name:          "Error - draft product",
			product:       store.Product{Name: "Soda"},
			quantity:      1,
			expectError:   perrors.ErrUnsavedUpdate,
			expectMessage: "Can't update an unsaved product",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			repo := &mockProductStore{}
			service := newTestService(repo, nil)
			// when
			updated, err := service.AddStorage(context.Background(), tc.product, tc.quantity)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.EqualError(t, err, tc.expectMessage)
				assert.Nil(t, updated)
				assert.Empty(t, repo.saved)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedStock, updated.Quantity)
			require.Len(t, repo.saved, 1)
			assert.Equal(t, tc.expectedStock, repo.saved[0].Quantity)
		})
	}
}

func Test_ProductService_RemoveStorage(t *testing.T) {
	testCases := []struct {
		name          string
		product       store.Product
		quantity      int32
		expectedStock int32
		expectError   error
		expectMessage string
	}{
		{
			name:          "Success - consume part of the stock",
			product:       persistedProduct(10),
			quantity:      5,
			expectedStock: 5,
		},
		{
			name:          "Success - consume whole stock",
			product:       persistedProduct(10),
			quantity:      10,
			expectedStock: 0,
		},
		{
			name:          "Error - zero quantity",
			product:       persistedProduct(10),
			quantity:      0,
			expectError:   perrors.ErrInvalidQuantity,
			expectMessage: "Passed quantity should be equal or higher than 1",
		},
		{
			name:          "Error - negative quantity",
			product:       persistedProduct(10),
			quantity:      -1,
			expectError:   perrors.ErrInvalidQuantity,
			expectMessage: "Passed quantity should be equal or higher than 1",
		},
		{
			name:          "Error - insufficient stock",
			product:       persistedProduct(10),
			quantity:      11,
			expectError:   perrors.ErrInsufficientStock,
			expectMessage: "Product's current quantity is less than passed quantity",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			repo := &mockProductStore{}
			service := newTestService(repo, nil)
			// when
			updated, err := service.RemoveStorage(context.Background(), tc.product, tc.quantity)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				assert.EqualError(t, err, tc.expectMessage)
				assert.Nil(t, updated)
				assert.Empty(t, repo.saved)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedStock, updated.Quantity)
			require.Len(t, repo.saved, 1)
		})
	}
}

func Test_ProductService_BusinessRuleErrors(t *testing.T) {
	var ruleErr *perrors.BusinessRuleError
	assert.True(t, errors.As(perrors.ErrInvalidQuantity, &ruleErr))
	assert.True(t, errors.As(perrors.ErrInsufficientStock, &ruleErr))

	var preconditionErr *perrors.PreconditionError
	assert.True(t, errors.As(perrors.ErrUnsavedProduct, &preconditionErr))
	assert.False(t, errors.As(perrors.ErrUnsavedProduct, &ruleErr))
}

func Test_ProductService_PublishesStockChange(t *testing.T) {
	// given
	publisher := new(mockPublisher)
	product := persistedProduct(10)
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e messaging.Event) bool {
		event, ok := e.(events.StockChangedEvent)
		return ok && event.ProductID == product.ID && event.Delta == -4 && event.Quantity == 6
	})).Return(nil).Once()
	service := newTestService(&mockProductStore{}, publisher)
	// when
	updated, err := service.RemoveStorage(context.Background(), product, 4)
	// then
	require.NoError(t, err)
	assert.Equal(t, int32(6), updated.Quantity)
	publisher.AssertExpectations(t)
}

func Test_ProductService_PublishFailureKeepsAdjustment(t *testing.T) {
	// given
	publisher := new(mockPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("nats unavailable")).Once()
	repo := &mockProductStore{}
	service := newTestService(repo, publisher)
	// when
	updated, err := service.AddStorage(context.Background(), persistedProduct(1), 2)
	// then
	require.NoError(t, err)
	assert.Equal(t, int32(3), updated.Quantity)
	assert.Len(t, repo.saved, 1)
	publisher.AssertExpectations(t)
}

func Test_ProductService_StockScenario(t *testing.T) {
	testCases := []struct {
		name          string
		initial       int32
		add           int32
		remove        int32
		expectedStock int32
		expectError   error
	}{
		{name: "removal larger than stock is rejected", initial: 20, add: 5, remove: 30, expectedStock: 25, expectError: perrors.ErrInsufficientStock},
		{name: "removal within stock", initial: 20, add: 5, remove: 25, expectedStock: 0},
		{name: "restock then partial removal", initial: 10, add: 10, remove: 5, expectedStock: 15},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := newTestService(store.NewInMemoryStore(), nil)
			ctx := context.Background()
			draft := store.Product{Name: "Soda", Description: "2L bottle", Value: decimal.RequireFromString("10.00"), Quantity: tc.initial}
			saved, err := service.Register(ctx, draft)
			require.NoError(t, err)
			require.False(t, saved.IsNew())
			added, err := service.AddStorage(ctx, *saved, tc.add)
			require.NoError(t, err)
			require.Equal(t, tc.initial+tc.add, added.Quantity)
			// when
			_, err = service.RemoveStorage(ctx, *added, tc.remove)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
			} else {
				require.NoError(t, err)
			}
			found, ok, err := service.FindByID(ctx, saved.ID)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tc.expectedStock, found.Quantity)
		})
	}
}

func Test_ProductService_ListAllByName(t *testing.T) {
	// given
	service := newTestService(store.NewInMemoryStore(), nil)
	ctx := context.Background()
	soda, err := service.Register(ctx, store.Product{Name: "Soda", Description: "2L bottle", Value: decimal.RequireFromString("10.00"), Quantity: 20})
	require.NoError(t, err)
	_, err = service.Register(ctx, store.Product{Name: "Water", Description: "1L bottle", Value: decimal.RequireFromString("2.00"), Quantity: 5})
	require.NoError(t, err)
	// when
	page, err := service.ListAll(ctx, "Sod", store.PageRequest{Page: 0, Size: 10})
	// then
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, soda.ID, page.Content[0].ID)
	assert.Equal(t, int64(1), page.TotalElements)
}

func Test_ProductService_DeleteAfterAdjustments(t *testing.T) {
	// given
	service := newTestService(store.NewInMemoryStore(), nil)
	ctx := context.Background()
	saved, err := service.Register(ctx, store.Product{Name: "Soda", Description: "2L bottle", Value: decimal.RequireFromString("10.00"), Quantity: 20})
	require.NoError(t, err)
	added, err := service.AddStorage(ctx, *saved, 5)
	require.NoError(t, err)
	// when
	err = service.Delete(ctx, added)
	// then
	require.NoError(t, err)
	_, ok, err := service.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
