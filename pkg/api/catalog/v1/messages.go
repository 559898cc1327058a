package catalogv1

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"
)

// Struct field names of the wire messages.
const (
	FieldID            = "id"
	FieldName          = "name"
	FieldDescription   = "description"
	FieldValue         = "value"
	FieldQuantity      = "quantity"
	FieldPage          = "page"
	FieldSize          = "size"
	FieldContent       = "content"
	FieldTotalElements = "totalElements"
	FieldTotalPages    = "totalPages"
)

type GetProductRequest struct {
	ID string
}

// Product is a stored product as the catalog exposes it. Value holds the exact decimal text.
type Product struct {
	ID          string
	Name        string
	Description string
	Value       string
	Quantity    int32
}

// ListProductsRequest selects one page of products. Nil Page and Size leave the server defaults in place.
type ListProductsRequest struct {
	Name string
	Page *int32
	Size *int32
}

type ProductPage struct {
	Content       []*Product
	TotalElements int64
	TotalPages    int64
	Page          int32
	Size          int32
}

func (p *Product) ToStruct() *structpb.Struct {
	if p == nil {
		return &structpb.Struct{}
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldID:          structpb.NewStringValue(p.ID),
		FieldName:        structpb.NewStringValue(p.Name),
		FieldDescription: structpb.NewStringValue(p.Description),
		FieldValue:       structpb.NewStringValue(p.Value),
		FieldQuantity:    structpb.NewNumberValue(float64(p.Quantity)),
	}}
}

func ProductFromStruct(s *structpb.Struct) (*Product, error) {
	r := structReader{fields: s.GetFields()}
	p := &Product{
		ID:          r.str(FieldID),
		Name:        r.str(FieldName),
		Description: r.str(FieldDescription),
		Value:       r.str(FieldValue),
	}
	if quantity := r.optInt32(FieldQuantity); quantity != nil {
		p.Quantity = *quantity
	}
	if r.err != nil {
		return nil, r.err
	}
	return p, nil
}

func (r *ListProductsRequest) ToStruct() *structpb.Struct {
	fields := map[string]*structpb.Value{
		FieldName: structpb.NewStringValue(r.Name),
	}
	if r.Page != nil {
		fields[FieldPage] = structpb.NewNumberValue(float64(*r.Page))
	}
	if r.Size != nil {
		fields[FieldSize] = structpb.NewNumberValue(float64(*r.Size))
	}
	return &structpb.Struct{Fields: fields}
}

func ListProductsRequestFromStruct(s *structpb.Struct) (*ListProductsRequest, error) {
	r := structReader{fields: s.GetFields()}
	req := &ListProductsRequest{
		Name: r.str(FieldName),
		Page: r.optInt32(FieldPage),
		Size: r.optInt32(FieldSize),
	}
	if r.err != nil {
		return nil, r.err
	}
	return req, nil
}

func (p *ProductPage) ToStruct() *structpb.Struct {
	if p == nil {
		return &structpb.Struct{}
	}
	content := make([]*structpb.Value, 0, len(p.Content))
	for _, product := range p.Content {
		content = append(content, structpb.NewStructValue(product.ToStruct()))
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldContent:       structpb.NewListValue(&structpb.ListValue{Values: content}),
		FieldTotalElements: structpb.NewNumberValue(float64(p.TotalElements)),
		FieldTotalPages:    structpb.NewNumberValue(float64(p.TotalPages)),
		FieldPage:          structpb.NewNumberValue(float64(p.Page)),
		FieldSize:          structpb.NewNumberValue(float64(p.Size)),
	}}
}

func ProductPageFromStruct(s *structpb.Struct) (*ProductPage, error) {
	r := structReader{fields: s.GetFields()}
	page := &ProductPage{
		TotalElements: r.integer(FieldTotalElements),
		TotalPages:    r.integer(FieldTotalPages),
	}
	if n := r.optInt32(FieldPage); n != nil {
		page.Page = *n
	}
	if n := r.optInt32(FieldSize); n != nil {
		page.Size = *n
	}
	for i, v := range r.list(FieldContent) {
		item, ok := v.GetKind().(*structpb.Value_StructValue)
		if !ok {
			return nil, fmt.Errorf("%s[%d] must be an object", FieldContent, i)
		}
		product, err := ProductFromStruct(item.StructValue)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", FieldContent, i, err)
		}
		page.Content = append(page.Content, product)
	}
	if r.err != nil {
		return nil, r.err
	}
	return page, nil
}

// structReader reads typed fields and keeps the first error. Absent fields read as zero values.
type structReader struct {
	fields map[string]*structpb.Value
	err    error
}

func (r *structReader) str(key string) string {
	v, ok := r.fields[key]
	if !ok || r.err != nil {
		return ""
	}
	sv, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		r.err = fmt.Errorf("%s must be a string", key)
		return ""
	}
	return sv.StringValue
}

func (r *structReader) number(key string, lo, hi float64) (float64, bool) {
	v, ok := r.fields[key]
	if !ok || r.err != nil {
		return 0, false
	}
	nv, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		r.err = fmt.Errorf("%s must be a number", key)
		return 0, false
	}
	n := nv.NumberValue
	if n != math.Trunc(n) || n < lo || n > hi {
		r.err = fmt.Errorf("invalid %s number: %v", key, n)
		return 0, false
	}
	return n, true
}

func (r *structReader) optInt32(key string) *int32 {
	n, ok := r.number(key, math.MinInt32, math.MaxInt32)
	if !ok {
		return nil
	}
	i := int32(n)
	return &i
}

// integer accepts integers up to 2^53, the exact range of a JSON number.
func (r *structReader) integer(key string) int64 {
	n, _ := r.number(key, -(1 << 53), 1<<53)
	return int64(n)
}

func (r *structReader) list(key string) []*structpb.Value {
	v, ok := r.fields[key]
	if !ok || r.err != nil {
		return nil
	}
	lv, ok := v.GetKind().(*structpb.Value_ListValue)
	if !ok {
		r.err = fmt.Errorf("%s must be a list", key)
		return nil
	}
	return lv.ListValue.GetValues()
}
