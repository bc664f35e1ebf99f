package catalog

import (
	"context"

	"github.com/stocktrack/backend/internal/domain/shared"
)

// ProductRepository defines the persistence port for products.
// The backing store is treated as a row store: reads fetch the current record,
// UpdateStock writes back only the fields the engine is allowed to mutate.
type ProductRepository interface {
	// FindBySKU returns the product with the given SKU or shared.ErrProductNotFound
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	// List returns all products
	List(ctx context.Context, filter shared.Filter) ([]Product, error)
	// Search returns products matching a name fragment and/or category
	Search(ctx context.Context, term, category string) ([]Product, error)
	// Create persists a new product
	Create(ctx context.Context, product *Product) error
	// UpdateStock persists quantity, status and last_updated for the product
	UpdateStock(ctx context.Context, product *Product) error
}
