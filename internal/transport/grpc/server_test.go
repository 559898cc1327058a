package grpc

import (
	"context"
	"log/slog"
	"net"
	"testing"

	"github.com/grocerydesk/catalog/internal/service"
	"github.com/grocerydesk/catalog/internal/store"
	catalogv1 "github.com/grocerydesk/catalog/pkg/api/catalog/v1"
	"github.com/grocerydesk/catalog/pkg/messaging"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type catalogFixture struct {
	client catalogv1.ProductCatalogClient
	conn   *gogrpc.ClientConn
	store  *store.InMemory
}

func newCatalogFixture(t *testing.T) catalogFixture {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	products := store.NewInMemoryStore()

	lis := bufconn.Listen(1024 * 1024)
	srv := gogrpc.NewServer()
	catalogv1.RegisterProductCatalogServer(srv, NewServer(service.NewService(products, messaging.NopPublisher{}, logger), logger))
	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	conn, err := gogrpc.NewClient("passthrough:///bufnet",
		gogrpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		gogrpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return catalogFixture{client: catalogv1.NewProductCatalogClient(conn), conn: conn, store: products}
}

func (f catalogFixture) seed(t *testing.T, name string, quantity int32) store.Product {
	t.Helper()
	return f.seedValued(t, name, "3.10", quantity)
}

func (f catalogFixture) seedValued(t *testing.T, name, value string, quantity int32) store.Product {
	t.Helper()
	saved, err := f.store.Save(context.Background(), store.Product{
		Name:        name,
		Description: name + " description",
		Value:       decimal.RequireFromString(value),
		Quantity:    quantity,
	})
	require.NoError(t, err)
	return *saved
}

func int32Ptr(n int32) *int32 {
	return &n
}

func Test_Server_GetProduct(t *testing.T) {
	// given
	f := newCatalogFixture(t)
	soda := f.seed(t, "Soda", 7)

	// when
	got, err := f.client.GetProduct(context.Background(), &catalogv1.GetProductRequest{ID: soda.ID.String()})

	// then
	require.NoError(t, err)
	assert.Equal(t, &catalogv1.Product{
		ID:          soda.ID.String(),
		Name:        "Soda",
		Description: "Soda description",
		Value:       "3.10",
		Quantity:    7,
	}, got)
}

func Test_Server_GetProduct_KeepsValueDigits(t *testing.T) {
	testCases := []struct {
		name          string
		stored        string
		expectedValue string
	}{
		{name: "whole number", stored: "3", expectedValue: "3.00"},
		{name: "one decimal", stored: "3.1", expectedValue: "3.10"},
		{name: "extra digit not rounded", stored: "3.105", expectedValue: "3.105"},
	}
	f := newCatalogFixture(t)

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			product := f.seedValued(t, "Soda", tc.stored, 1)
			// when
			got, err := f.client.GetProduct(context.Background(), &catalogv1.GetProductRequest{ID: product.ID.String()})
			// then
			require.NoError(t, err)
			assert.Equal(t, tc.expectedValue, got.Value)
		})
	}
}

func Test_Server_GetProduct_Errors(t *testing.T) {
	testCases := []struct {
		name         string
		id           string
		expectedCode codes.Code
	}{
		{name: "invalid id", id: "not-a-uuid", expectedCode: codes.InvalidArgument},
		{name: "unknown id", id: "123e4567-e89b-12d3-a456-426614174000", expectedCode: codes.NotFound},
	}
	f := newCatalogFixture(t)

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			_, err := f.client.GetProduct(context.Background(), &catalogv1.GetProductRequest{ID: tc.id})
			// then
			require.Error(t, err)
			assert.Equal(t, tc.expectedCode, status.Code(err))
		})
	}
}

func Test_Server_ListProducts(t *testing.T) {
	// given
	f := newCatalogFixture(t)
	f.seed(t, "Soda", 1)
	f.seed(t, "Water", 1)
	f.seed(t, "Diet soda", 1)

	// when
	got, err := f.client.ListProducts(context.Background(), &catalogv1.ListProductsRequest{
		Name: "SODA",
		Page: int32Ptr(0),
		Size: int32Ptr(1),
	})

	// then
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.TotalElements)
	assert.Equal(t, int64(2), got.TotalPages)
	assert.Equal(t, int32(1), got.Size)
	require.Len(t, got.Content, 1)
	assert.Equal(t, "Soda", got.Content[0].Name)
}

func Test_Server_ListProducts_InvalidRequest(t *testing.T) {
	testCases := []struct {
		name   string
		fields map[string]any
	}{
		{name: "negative page", fields: map[string]any{catalogv1.FieldPage: -1}},
		{name: "zero size", fields: map[string]any{catalogv1.FieldSize: 0}},
		{name: "fractional size", fields: map[string]any{catalogv1.FieldSize: 2.5}},
		{name: "name not a string", fields: map[string]any{catalogv1.FieldName: 12}},
	}
	f := newCatalogFixture(t)

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			req, err := structpb.NewStruct(tc.fields)
			require.NoError(t, err)
			// when
			err = f.conn.Invoke(context.Background(), catalogv1.ListProductsFullMethodName, req, new(structpb.Struct))
			// then
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
		})
	}
}

func Test_toPageRequest_Defaults(t *testing.T) {
	// when
	pageRequest, err := toPageRequest(&catalogv1.ListProductsRequest{})
	// then
	require.NoError(t, err)
	assert.Equal(t, store.PageRequest{Page: 0, Size: defaultPageSize}, pageRequest)
}

func Test_toPageRequest_ClampsSize(t *testing.T) {
	// when
	pageRequest, err := toPageRequest(&catalogv1.ListProductsRequest{Size: int32Ptr(1000)})
	// then
	require.NoError(t, err)
	assert.Equal(t, int32(maxPageSize), pageRequest.Size)
}
