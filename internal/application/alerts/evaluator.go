package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stocktrack/backend/internal/domain/catalog"
	"github.com/stocktrack/backend/internal/domain/shared"
)

// TypicalReorderQuantity is the assumed average demand used to price the
// revenue lost while a product is out of stock.
const TypicalReorderQuantity = 10

// ProductAlert is one product flagged by the evaluator
type ProductAlert struct {
	ProductSKU  string              `json:"product_sku"`
	ProductName string              `json:"product_name"`
	Category    string              `json:"category"`
	Quantity    int                 `json:"quantity"`
	UnitPrice   decimal.Decimal     `json:"unit_price"`
	Status      catalog.StockStatus `json:"status"`
	Advice      string              `json:"advice"`
}

// StatusCounts holds the number of products in each stock status
type StatusCounts struct {
	InStock       int `json:"in_stock"`
	LowStock      int `json:"low_stock"`
	CriticalStock int `json:"critical_stock"`
	OutOfStock    int `json:"out_of_stock"`
}

// FinancialImpact quantifies the money tied to degraded stock levels
type FinancialImpact struct {
	// LostRevenuePotential prices out-of-stock items at unit price x typical
	// reorder quantity: revenue that cannot be realized until restock.
	LostRevenuePotential decimal.Decimal `json:"lost_revenue_potential"`
	// AtRiskRevenue is the remaining sell-through value of critical items.
	AtRiskRevenue decimal.Decimal `json:"at_risk_revenue"`
}

// Report is the catalog-wide alert evaluation result
type Report struct {
	EvaluatedAt     time.Time       `json:"evaluated_at"`
	TotalProducts   int             `json:"total_products"`
	Counts          StatusCounts    `json:"counts"`
	FinancialImpact FinancialImpact `json:"financial_impact"`
	OutOfStock      []ProductAlert  `json:"out_of_stock"`
	CriticalStock   []ProductAlert  `json:"critical_stock"`
	LowStock        []ProductAlert  `json:"low_stock"`
	Recommendations []string        `json:"recommendations"`
}

// Classify returns the stock status for a quantity. Thresholds are fixed:
// 0 out of stock, 1-5 critical, 6-10 low, above 10 in stock.
func Classify(quantity int) catalog.StockStatus {
	return catalog.StatusForQuantity(quantity)
}

// BuildReport folds the given catalog snapshot into an alert report. It is a
// pure function: no side effects, identical output for identical input, safe
// to call concurrently.
func BuildReport(products []catalog.Product) Report {
	report := Report{
		EvaluatedAt:     time.Now(),
		TotalProducts:   len(products),
		OutOfStock:      make([]ProductAlert, 0),
		CriticalStock:   make([]ProductAlert, 0),
		LowStock:        make([]ProductAlert, 0),
		Recommendations: make([]string, 0),
	}
	report.FinancialImpact.LostRevenuePotential = decimal.Zero
	report.FinancialImpact.AtRiskRevenue = decimal.Zero

	for i := range products {
		p := &products[i]
		alert := ProductAlert{
			ProductSKU:  p.SKU,
			ProductName: p.Name,
			Category:    p.Category,
			Quantity:    p.Quantity,
			UnitPrice:   p.UnitPrice,
			Status:      Classify(p.Quantity),
		}

		switch alert.Status {
		case catalog.StockStatusOutOfStock:
			alert.Advice = "Cannot sell - immediate restock required"
			report.Counts.OutOfStock++
			report.OutOfStock = append(report.OutOfStock, alert)
			report.FinancialImpact.LostRevenuePotential = report.FinancialImpact.LostRevenuePotential.
				Add(p.UnitPrice.Mul(decimal.NewFromInt(TypicalReorderQuantity)))
		case catalog.StockStatusCriticalStock:
			alert.Advice = "Limit sales - urgent reorder needed"
			report.Counts.CriticalStock++
			report.CriticalStock = append(report.CriticalStock, alert)
			report.FinancialImpact.AtRiskRevenue = report.FinancialImpact.AtRiskRevenue.Add(p.StockValue())
		case catalog.StockStatusLowStock:
			alert.Advice = "Monitor closely - plan reorder"
			report.Counts.LowStock++
			report.LowStock = append(report.LowStock, alert)
		default:
			report.Counts.InStock++
		}
	}

	if n := report.Counts.OutOfStock; n > 0 {
		report.Recommendations = append(report.Recommendations,
			fmt.Sprintf("URGENT: Restock %d out-of-stock items immediately", n))
	}
	if n := report.Counts.CriticalStock; n > 0 {
		report.Recommendations = append(report.Recommendations,
			fmt.Sprintf("HIGH PRIORITY: Reorder %d critical stock items", n))
	}
	if n := report.Counts.LowStock; n > 0 {
		report.Recommendations = append(report.Recommendations,
			fmt.Sprintf("Plan reorders for %d low stock items", n))
	}
	if len(report.Recommendations) == 0 {
		report.Recommendations = append(report.Recommendations, "All stock levels are healthy")
	}

	return report
}

// Evaluator fetches the current catalog and evaluates alerts over it
type Evaluator struct {
	products catalog.ProductRepository
}

// NewEvaluator creates an alert evaluator backed by the given catalog
func NewEvaluator(products catalog.ProductRepository) *Evaluator {
	return &Evaluator{products: products}
}

// Evaluate reads the full catalog and returns the alert report
func (e *Evaluator) Evaluate(ctx context.Context) (*Report, error) {
	products, err := e.products.List(ctx, shared.Filter{OrderBy: "sku", OrderDir: "asc", Limit: -1})
	if err != nil {
		return nil, shared.NewPersistenceError("product list", err)
	}
	report := BuildReport(products)
	return &report, nil
}

// EvaluateProduct returns the alert entry for one product, or nil when the
// product is healthy
func (e *Evaluator) EvaluateProduct(ctx context.Context, sku string) (*ProductAlert, error) {
	product, err := e.products.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	report := BuildReport([]catalog.Product{*product})
	switch {
	case len(report.OutOfStock) > 0:
		return &report.OutOfStock[0], nil
	case len(report.CriticalStock) > 0:
		return &report.CriticalStock[0], nil
	case len(report.LowStock) > 0:
		return &report.LowStock[0], nil
	}
	return nil, nil
}
