package service

import (
	"github.com/grocerydesk/catalog/internal/store"
	"github.com/shopspring/decimal"
)

// Patch is a partial product update. A nil field leaves the stored value unchanged.
type Patch struct {
	Name        *string
	Description *string
	Value       *decimal.Decimal
	Quantity    *int32
}

// Merge returns current with every field set in patch applied. The ID always comes from current.
func Merge(current store.Product, patch Patch) store.Product {
	merged := current
	if patch.Value != nil {
		merged.Value = *patch.Value
	}
	if patch.Name != nil {
		merged.Name = *patch.Name
	}
	if patch.Description != nil {
		merged.Description = *patch.Description
	}
	if patch.Quantity != nil {
		merged.Quantity = *patch.Quantity
	}
	return merged
}
