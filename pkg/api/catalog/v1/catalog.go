// Package catalogv1 is the gRPC contract of the read-only product catalog API.
//
// Requests and replies are typed Go messages. On the wire they travel as protobuf
// well-known types, so no code generation step is needed: ids as wrapperspb.StringValue,
// products and pages as structpb.Struct. The conversions live in messages.go.
package catalogv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ServiceName = "catalog.v1.ProductCatalog"

	GetProductFullMethodName   = "/" + ServiceName + "/GetProduct"
	ListProductsFullMethodName = "/" + ServiceName + "/ListProducts"
)

// ProductCatalogClient is the client API for the ProductCatalog service.
type ProductCatalogClient interface {
	GetProduct(ctx context.Context, in *GetProductRequest, opts ...grpc.CallOption) (*Product, error)
	ListProducts(ctx context.Context, in *ListProductsRequest, opts ...grpc.CallOption) (*ProductPage, error)
}

type productCatalogClient struct {
	cc grpc.ClientConnInterface
}

func NewProductCatalogClient(cc grpc.ClientConnInterface) ProductCatalogClient {
	return &productCatalogClient{cc}
}

func (c *productCatalogClient) GetProduct(ctx context.Context, in *GetProductRequest, opts ...grpc.CallOption) (*Product, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetProductFullMethodName, wrapperspb.String(in.ID), out, opts...); err != nil {
		return nil, err
	}
	product, err := ProductFromStruct(out)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "malformed GetProduct reply: %v", err)
	}
	return product, nil
}

func (c *productCatalogClient) ListProducts(ctx context.Context, in *ListProductsRequest, opts ...grpc.CallOption) (*ProductPage, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ListProductsFullMethodName, in.ToStruct(), out, opts...); err != nil {
		return nil, err
	}
	page, err := ProductPageFromStruct(out)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "malformed ListProducts reply: %v", err)
	}
	return page, nil
}

// ProductCatalogServer is the server API for the ProductCatalog service.
type ProductCatalogServer interface {
	GetProduct(context.Context, *GetProductRequest) (*Product, error)
	ListProducts(context.Context, *ListProductsRequest) (*ProductPage, error)
}

// UnimplementedProductCatalogServer can be embedded to have forward compatible implementations.
type UnimplementedProductCatalogServer struct{}

func (UnimplementedProductCatalogServer) GetProduct(context.Context, *GetProductRequest) (*Product, error) {
	return nil, status.Error(codes.Unimplemented, "method GetProduct not implemented")
}

func (UnimplementedProductCatalogServer) ListProducts(context.Context, *ListProductsRequest) (*ProductPage, error) {
	return nil, status.Error(codes.Unimplemented, "method ListProducts not implemented")
}

func RegisterProductCatalogServer(s grpc.ServiceRegistrar, srv ProductCatalogServer) {
	s.RegisterService(&ProductCatalog_ServiceDesc, srv)
}

func callGetProduct(srv any, ctx context.Context, req any) (any, error) {
	in := &GetProductRequest{ID: req.(*wrapperspb.StringValue).GetValue()}
	product, err := srv.(ProductCatalogServer).GetProduct(ctx, in)
	if err != nil {
		return nil, err
	}
	return product.ToStruct(), nil
}

func callListProducts(srv any, ctx context.Context, req any) (any, error) {
	in, err := ListProductsRequestFromStruct(req.(*structpb.Struct))
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	page, err := srv.(ProductCatalogServer).ListProducts(ctx, in)
	if err != nil {
		return nil, err
	}
	return page.ToStruct(), nil
}

func getProductHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return callGetProduct(srv, ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GetProductFullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return callGetProduct(srv, ctx, req)
	}
	return interceptor(ctx, in, info, handler)
}

func listProductsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return callListProducts(srv, ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ListProductsFullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return callListProducts(srv, ctx, req)
	}
	return interceptor(ctx, in, info, handler)
}

// ProductCatalog_ServiceDesc is the grpc.ServiceDesc for the ProductCatalog service.
var ProductCatalog_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProductCatalogServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetProduct",
			Handler:    getProductHandler,
		},
		{
			MethodName: "ListProducts",
			Handler:    listProductsHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "catalog/v1/catalog.proto",
}
