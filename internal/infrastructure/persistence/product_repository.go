package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/stocktrack/backend/internal/domain/catalog"
	"github.com/stocktrack/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindBySKU finds a product by its SKU
func (r *GormProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Where("sku = ?", strings.ToUpper(sku)).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// List finds all products matching the filter
func (r *GormProductRepository) List(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	filter.Normalize()

	query := r.db.WithContext(ctx).Model(&catalog.Product{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR sku ILIKE ?", pattern, pattern)
	}
	query = query.Order(filter.OrderBy + " " + filter.OrderDir)
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var products []catalog.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Search finds products matching a name fragment and/or category
func (r *GormProductRepository) Search(ctx context.Context, term, category string) ([]catalog.Product, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Product{})
	if term != "" {
		pattern := "%" + term + "%"
		query = query.Where("name ILIKE ? OR sku ILIKE ?", pattern, pattern)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var products []catalog.Product
	if err := query.Order("sku ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Create creates a new product
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// UpdateStock persists the product's quantity, status and last-updated time.
// Only the stock fields are written; other columns stay untouched.
func (r *GormProductRepository) UpdateStock(ctx context.Context, product *catalog.Product) error {
	result := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"quantity":     product.Quantity,
			"status":       product.Status,
			"last_updated": product.LastUpdated,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
