// Package grpc exposes the read side of the catalog over gRPC.
package grpc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/grocerydesk/catalog/internal/service"
	"github.com/grocerydesk/catalog/internal/store"
	catalogv1 "github.com/grocerydesk/catalog/pkg/api/catalog/v1"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Server struct {
	catalogv1.UnimplementedProductCatalogServer
	service service.ProductService
	logger  *slog.Logger
}

func NewServer(service service.ProductService, logger *slog.Logger) *Server {
	return &Server{service: service, logger: logger.With("component", "grpc")}
}

func (s *Server) GetProduct(ctx context.Context, req *catalogv1.GetProductRequest) (*catalogv1.Product, error) {
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid product ID: %v", err)
	}
	product, found, err := s.service.FindByID(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "service.FindByID failed", "ID", id, "error", err)
		return nil, status.Error(codes.Internal, "internal server error")
	}
	if !found {
		return nil, status.Errorf(codes.NotFound, "product with id %s not found", id)
	}
	return toProduct(*product), nil
}

func (s *Server) ListProducts(ctx context.Context, req *catalogv1.ListProductsRequest) (*catalogv1.ProductPage, error) {
	pageRequest, err := toPageRequest(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	page, err := s.service.ListAll(ctx, req.Name, pageRequest)
	if err != nil {
		s.logger.ErrorContext(ctx, "service.ListAll failed", "error", err)
		return nil, status.Error(codes.Internal, "internal server error")
	}
	return toProductPage(*page), nil
}

func toPageRequest(req *catalogv1.ListProductsRequest) (store.PageRequest, error) {
	pageRequest := store.PageRequest{Page: 0, Size: defaultPageSize}
	if req.Page != nil {
		if *req.Page < 0 {
			return pageRequest, fmt.Errorf("invalid %s number: %d", catalogv1.FieldPage, *req.Page)
		}
		pageRequest.Page = *req.Page
	}
	if req.Size != nil {
		if *req.Size < 1 {
			return pageRequest, fmt.Errorf("invalid %s number: %d", catalogv1.FieldSize, *req.Size)
		}
		pageRequest.Size = min(*req.Size, maxPageSize)
	}
	return pageRequest, nil
}

// toProduct keeps the value as decimal text so no precision is lost to float64.
func toProduct(p store.Product) *catalogv1.Product {
	return &catalogv1.Product{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Value:       store.FormatValue(p.Value),
		Quantity:    p.Quantity,
	}
}

func toProductPage(page store.Page) *catalogv1.ProductPage {
	content := make([]*catalogv1.Product, 0, len(page.Content))
	for _, p := range page.Content {
		content = append(content, toProduct(p))
	}
	return &catalogv1.ProductPage{
		Content:       content,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages(),
		Page:          page.PageRequest.Page,
		Size:          page.PageRequest.Size,
	}
}
