package alerts

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/stocktrack/backend/internal/domain/catalog"
	"github.com/stocktrack/backend/internal/domain/ledger"
	"github.com/stocktrack/backend/internal/domain/shared"
)

// Reorder planning assumptions. Demand is estimated from ledger sales; the
// cost constants follow the standard EOQ model.
const (
	// LeadTimeDays is the days to receive new stock after ordering
	LeadTimeDays = 7
	// SafetyStockDays is the extra days of demand held as buffer
	SafetyStockDays = 3
	// OrderingCost is the fixed cost per purchase order, in currency units
	OrderingCost = 50.0
	// CarryingCostRate is the annual holding cost as a fraction of unit price
	CarryingCostRate = 0.20
	// DemandWindowDays is the sales-history window used to estimate demand
	DemandWindowDays = 30
	// FallbackDailyDemand is assumed for products with no sales history
	FallbackDailyDemand = 1.0
)

// ReorderRecommendation is the plan entry for one product
type ReorderRecommendation struct {
	ProductSKU            string  `json:"product_sku"`
	ProductName           string  `json:"product_name"`
	CurrentStock          int     `json:"current_stock"`
	DailyDemand           float64 `json:"daily_demand"`
	ReorderPoint          float64 `json:"reorder_point"`
	EconomicOrderQuantity int     `json:"economic_order_quantity"`
	NeedsReorder          bool    `json:"needs_reorder"`
	Shortage              float64 `json:"shortage"`
}

// ReorderPlan ranks products by reorder urgency
type ReorderPlan struct {
	GeneratedAt     time.Time               `json:"generated_at"`
	WindowDays      int                     `json:"window_days"`
	Recommendations []ReorderRecommendation `json:"recommendations"`
}

// BuildReorderPlan computes reorder points and order quantities for a catalog
// snapshot given the sale records inside the demand window. Pure and
// deterministic for fixed inputs.
//
// Reorder point = daily demand x (lead time + safety stock days).
// EOQ = sqrt(2 x annual demand x ordering cost / holding cost per unit).
func BuildReorderPlan(products []catalog.Product, sales []ledger.TransactionRecord, windowDays int) ReorderPlan {
	if windowDays <= 0 {
		windowDays = DemandWindowDays
	}

	unitsSold := make(map[string]int)
	for i := range sales {
		if sales[i].IsSale() {
			unitsSold[sales[i].ProductSKU] += sales[i].UnitsMoved()
		}
	}

	plan := ReorderPlan{
		GeneratedAt:     time.Now(),
		WindowDays:      windowDays,
		Recommendations: make([]ReorderRecommendation, 0, len(products)),
	}

	for i := range products {
		p := &products[i]

		demand := FallbackDailyDemand
		if sold := unitsSold[p.SKU]; sold > 0 {
			demand = float64(sold) / float64(windowDays)
		}

		reorderPoint := demand * float64(LeadTimeDays+SafetyStockDays)
		eoq := economicOrderQuantity(p, demand*365)

		rec := ReorderRecommendation{
			ProductSKU:            p.SKU,
			ProductName:           p.Name,
			CurrentStock:          p.Quantity,
			DailyDemand:           demand,
			ReorderPoint:          reorderPoint,
			EconomicOrderQuantity: eoq,
			NeedsReorder:          float64(p.Quantity) <= reorderPoint,
		}
		if rec.NeedsReorder {
			rec.Shortage = reorderPoint - float64(p.Quantity)
			if rec.Shortage < 0 {
				rec.Shortage = 0
			}
		}
		plan.Recommendations = append(plan.Recommendations, rec)
	}

	sort.SliceStable(plan.Recommendations, func(i, j int) bool {
		return plan.Recommendations[i].Shortage > plan.Recommendations[j].Shortage
	})

	return plan
}

// economicOrderQuantity computes EOQ, falling back to a month of demand when
// the holding cost is degenerate (free or unpriced items)
func economicOrderQuantity(p *catalog.Product, annualDemand float64) int {
	holdingCost := p.UnitPrice.InexactFloat64() * CarryingCostRate
	if holdingCost <= 0 {
		return int(math.Ceil(annualDemand / 12))
	}
	return int(math.Ceil(math.Sqrt(2 * annualDemand * OrderingCost / holdingCost)))
}

// Planner builds reorder plans from the live catalog and ledger
type Planner struct {
	products catalog.ProductRepository
	ledger   ledger.TransactionRepository
}

// NewPlanner creates a reorder planner
func NewPlanner(products catalog.ProductRepository, ledgerRepo ledger.TransactionRepository) *Planner {
	return &Planner{products: products, ledger: ledgerRepo}
}

// Plan estimates demand from the last DemandWindowDays of sales and returns
// the ranked reorder plan
func (p *Planner) Plan(ctx context.Context) (*ReorderPlan, error) {
	products, err := p.products.List(ctx, shared.Filter{OrderBy: "sku", OrderDir: "asc", Limit: -1})
	if err != nil {
		return nil, shared.NewPersistenceError("product list", err)
	}

	from := time.Now().AddDate(0, 0, -DemandWindowDays)
	sales, err := p.ledger.History(ctx, ledger.HistoryFilter{
		Type: ledger.TransactionTypeSale,
		From: &from,
	})
	if err != nil {
		return nil, shared.NewPersistenceError("sales history", err)
	}

	plan := BuildReorderPlan(products, sales, DemandWindowDays)
	return &plan, nil
}
