package rest

import (
	"encoding/json"

	"github.com/grocerydesk/catalog/internal/service"
	"github.com/grocerydesk/catalog/internal/store"
	"github.com/shopspring/decimal"
)

// ProductRequest is the body of POST /api/product.
type ProductRequest struct {
	Name        string           `json:"name"        validate:"required"`
	Description string           `json:"description" validate:"required"`
	Value       *decimal.Decimal `json:"value"       validate:"required,money"`
	Quantity    *int32           `json:"quantity"    validate:"required,gte=0"`
}

func (r ProductRequest) toDraft() store.Product {
	return store.Product{
		Name:        r.Name,
		Description: r.Description,
		Value:       *r.Value,
		Quantity:    *r.Quantity,
	}
}

// ProductPatchRequest is the body of PUT /api/product/{id}. Omitted fields keep their stored value.
type ProductPatchRequest struct {
	Name        *string          `json:"name"        validate:"omitnil,min=1"`
	Description *string          `json:"description" validate:"omitnil,min=1"`
	Value       *decimal.Decimal `json:"value"       validate:"omitnil,money"`
	Quantity    *int32           `json:"quantity"    validate:"omitnil,gte=0"`
}

func (r ProductPatchRequest) toPatch() service.Patch {
	return service.Patch{
		Name:        r.Name,
		Description: r.Description,
		Value:       r.Value,
		Quantity:    r.Quantity,
	}
}

// ProductResponse is the JSON form of a stored product. Value is a JSON number with at least two decimals.
type ProductResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Value       json.Number `json:"value"`
	Quantity    int32       `json:"quantity"`
}

func toProductResponse(p store.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Value:       json.Number(store.FormatValue(p.Value)),
		Quantity:    p.Quantity,
	}
}

type Pageable struct {
	PageNumber int32 `json:"pageNumber"`
	PageSize   int32 `json:"pageSize"`
}

// PageResponse mirrors the paging envelope clients of the catalog already parse.
type PageResponse struct {
	Content       []ProductResponse `json:"content"`
	TotalElements int64             `json:"totalElements"`
	TotalPages    int64             `json:"totalPages"`
	Pageable      Pageable          `json:"pageable"`
}

func toPageResponse(page store.Page) PageResponse {
	content := make([]ProductResponse, 0, len(page.Content))
	for _, p := range page.Content {
		content = append(content, toProductResponse(p))
	}
	return PageResponse{
		Content:       content,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages(),
		Pageable: Pageable{
			PageNumber: page.PageRequest.Page,
			PageSize:   page.PageRequest.Size,
		},
	}
}
