package catalog

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stocktrack/backend/internal/domain/catalog"
	"github.com/stocktrack/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CreateProductRequest carries the fields for a manual product add
type CreateProductRequest struct {
	SKU       string
	Name      string
	Category  string
	Quantity  int
	UnitPrice decimal.Decimal
}

// ProductService exposes read access to the catalog plus manual product
// creation. Stock figures are mutated only by the transaction engine.
type ProductService struct {
	products catalog.ProductRepository
	logger   *zap.Logger
}

// NewProductService creates a product service
func NewProductService(products catalog.ProductRepository, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{products: products, logger: logger.Named("catalog")}
}

// Get returns one product by SKU
func (s *ProductService) Get(ctx context.Context, sku string) (*catalog.Product, error) {
	return s.products.FindBySKU(ctx, strings.ToUpper(strings.TrimSpace(sku)))
}

// List returns all products
func (s *ProductService) List(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	filter.Normalize()
	return s.products.List(ctx, filter)
}

// Search returns products matching a name fragment and/or category
func (s *ProductService) Search(ctx context.Context, term, category string) ([]catalog.Product, error) {
	return s.products.Search(ctx, term, category)
}

// Create adds a new product to the catalog
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*catalog.Product, error) {
	product, err := catalog.NewProduct(req.SKU, req.Name, req.Category, req.Quantity, req.UnitPrice)
	if err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	s.logger.Info("product created",
		zap.String("sku", product.SKU),
		zap.String("name", product.Name),
		zap.Int("quantity", product.Quantity),
	)
	return product, nil
}
