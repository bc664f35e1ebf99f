package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stocktrack/backend/internal/domain/shared"
)

// StockStatus classifies a product's stock level
type StockStatus string

const (
	// StockStatusInStock means quantity is above the low-stock threshold
	StockStatusInStock StockStatus = "IN_STOCK"
	// StockStatusLowStock means quantity is in (critical, low] range
	StockStatusLowStock StockStatus = "LOW_STOCK"
	// StockStatusCriticalStock means quantity is in (0, critical] range
	StockStatusCriticalStock StockStatus = "CRITICAL_STOCK"
	// StockStatusOutOfStock means quantity is zero
	StockStatusOutOfStock StockStatus = "OUT_OF_STOCK"
)

// Stock classification thresholds. Fixed and total-ordered:
// 0 -> out of stock, 1-5 -> critical, 6-10 -> low, >10 -> in stock.
const (
	OutOfStockThreshold    = 0
	CriticalStockThreshold = 5
	LowStockThreshold      = 10
)

// String returns the string representation of StockStatus
func (s StockStatus) String() string {
	return string(s)
}

// StatusForQuantity classifies a quantity against the fixed thresholds
func StatusForQuantity(quantity int) StockStatus {
	switch {
	case quantity <= OutOfStockThreshold:
		return StockStatusOutOfStock
	case quantity <= CriticalStockThreshold:
		return StockStatusCriticalStock
	case quantity <= LowStockThreshold:
		return StockStatusLowStock
	default:
		return StockStatusInStock
	}
}

// Product represents a sellable item and its live stock figure.
// The stock movement engine mutates Quantity, Status and LastUpdated only;
// SKU, Name and Category are owned by catalog management.
type Product struct {
	shared.BaseEntity
	SKU         string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string          `gorm:"type:varchar(255);not null"`
	Category    string          `gorm:"type:varchar(100);index"`
	Quantity    int             `gorm:"not null;default:0"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status      StockStatus     `gorm:"type:varchar(20);not null"`
	LastUpdated time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product with its status derived from quantity
func NewProduct(sku, name, category string, quantity int, unitPrice decimal.Decimal) (*Product, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "Product SKU cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &Product{
		BaseEntity:  shared.NewBaseEntity(),
		SKU:         strings.ToUpper(sku),
		Name:        name,
		Category:    category,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Status:      StatusForQuantity(quantity),
		LastUpdated: time.Now(),
	}, nil
}

// ApplyStockChange sets the quantity to newQuantity and recomputes the derived
// fields. It is the single mutation path used by the transaction engine.
func (p *Product) ApplyStockChange(newQuantity int) error {
	if newQuantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Stock cannot go negative")
	}
	p.Quantity = newQuantity
	p.Status = StatusForQuantity(newQuantity)
	p.LastUpdated = time.Now()
	p.UpdatedAt = p.LastUpdated
	return nil
}

// CanFulfill returns true if the current quantity covers the requested units
func (p *Product) CanFulfill(quantity int) bool {
	return p.Quantity >= quantity
}

// StockValue returns quantity x unit price
func (p *Product) StockValue() decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// IsOutOfStock returns true when no units are available
func (p *Product) IsOutOfStock() bool {
	return p.Quantity <= OutOfStockThreshold
}
