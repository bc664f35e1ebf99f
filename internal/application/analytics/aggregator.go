package analytics

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stocktrack/backend/internal/domain/ledger"
	"github.com/stocktrack/backend/internal/domain/shared"
)

// DailySummary aggregates one calendar day of ledger activity
type DailySummary struct {
	Date              string          `json:"date"`
	TotalTransactions int             `json:"total_transactions"`
	SalesCount        int             `json:"sales_count"`
	UnitsSold         int             `json:"units_sold"`
	Revenue           decimal.Decimal `json:"revenue"`
	PurchaseCount     int             `json:"purchase_count"`
	UnitsPurchased    int             `json:"units_purchased"`
	Cost              decimal.Decimal `json:"cost"`
	AdjustmentCount   int             `json:"adjustment_count"`
	NetAdjustment     int             `json:"net_adjustment"`
	Net               decimal.Decimal `json:"net"`
}

// ProductHistoryReport is the per-product ledger view with totals
type ProductHistoryReport struct {
	ProductSKU        string                     `json:"product_sku"`
	TotalTransactions int                        `json:"total_transactions"`
	UnitsSold         int                        `json:"units_sold"`
	UnitsPurchased    int                        `json:"units_purchased"`
	NetAdjustment     int                        `json:"net_adjustment"`
	SalesRevenue      decimal.Decimal            `json:"sales_revenue"`
	PurchaseCost      decimal.Decimal            `json:"purchase_cost"`
	NetProfit         decimal.Decimal            `json:"net_profit"`
	Transactions      []ledger.TransactionRecord `json:"transactions"`
}

// ProductSales is one ranked entry in a sales report
type ProductSales struct {
	ProductSKU  string          `json:"product_sku"`
	ProductName string          `json:"product_name"`
	UnitsSold   int             `json:"units_sold"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// SalesReport summarizes sales over a date range
type SalesReport struct {
	From        string          `json:"from"`
	To          string          `json:"to"`
	SalesCount  int             `json:"sales_count"`
	UnitsSold   int             `json:"units_sold"`
	Revenue     decimal.Decimal `json:"revenue"`
	Cost        decimal.Decimal `json:"cost"`
	GrossProfit decimal.Decimal `json:"gross_profit"`
	BestSellers []ProductSales  `json:"best_sellers"`
}

// SummarizeDay folds the records that fall on the given date into a daily
// summary. Pure: no mutation, deterministic for the same ledger contents.
func SummarizeDay(records []ledger.TransactionRecord, date time.Time) DailySummary {
	key := date.Format("2006-01-02")
	summary := DailySummary{
		Date:    key,
		Revenue: decimal.Zero,
		Cost:    decimal.Zero,
	}

	for i := range records {
		r := &records[i]
		if r.DateKey() != key {
			continue
		}
		summary.TotalTransactions++
		switch r.Type {
		case ledger.TransactionTypeSale:
			summary.SalesCount++
			summary.UnitsSold += r.UnitsMoved()
			summary.Revenue = summary.Revenue.Add(r.TotalAmount)
		case ledger.TransactionTypePurchase:
			summary.PurchaseCount++
			summary.UnitsPurchased += r.UnitsMoved()
			summary.Cost = summary.Cost.Add(r.TotalAmount)
		case ledger.TransactionTypeAdjustment:
			summary.AdjustmentCount++
			summary.NetAdjustment += r.QuantityDelta
		}
	}

	summary.Net = summary.Revenue.Sub(summary.Cost)
	return summary
}

// FoldProductHistory folds a product's records into a history report.
// Records are returned newest first.
func FoldProductHistory(records []ledger.TransactionRecord, sku string) ProductHistoryReport {
	sku = strings.ToUpper(strings.TrimSpace(sku))
	report := ProductHistoryReport{
		ProductSKU:   sku,
		SalesRevenue: decimal.Zero,
		PurchaseCost: decimal.Zero,
		Transactions: make([]ledger.TransactionRecord, 0),
	}

	for i := range records {
		r := records[i]
		if r.ProductSKU != sku {
			continue
		}
		report.TotalTransactions++
		switch r.Type {
		case ledger.TransactionTypeSale:
			report.UnitsSold += r.UnitsMoved()
			report.SalesRevenue = report.SalesRevenue.Add(r.TotalAmount)
		case ledger.TransactionTypePurchase:
			report.UnitsPurchased += r.UnitsMoved()
			report.PurchaseCost = report.PurchaseCost.Add(r.TotalAmount)
		case ledger.TransactionTypeAdjustment:
			report.NetAdjustment += r.QuantityDelta
		}
		report.Transactions = append(report.Transactions, r)
	}

	sort.SliceStable(report.Transactions, func(i, j int) bool {
		return report.Transactions[i].Sequence > report.Transactions[j].Sequence
	})

	report.NetProfit = report.SalesRevenue.Sub(report.PurchaseCost)
	return report
}

// BuildSalesReport folds the records inside [from, to] into a ranked sales
// report. Best sellers are ordered by units sold, revenue breaking ties.
func BuildSalesReport(records []ledger.TransactionRecord, from, to time.Time) SalesReport {
	report := SalesReport{
		From:        from.Format("2006-01-02"),
		To:          to.Format("2006-01-02"),
		Revenue:     decimal.Zero,
		Cost:        decimal.Zero,
		BestSellers: make([]ProductSales, 0),
	}

	perProduct := make(map[string]*ProductSales)
	for i := range records {
		r := &records[i]
		if r.Timestamp.Before(from) || r.Timestamp.After(to) {
			continue
		}
		switch r.Type {
		case ledger.TransactionTypeSale:
			report.SalesCount++
			report.UnitsSold += r.UnitsMoved()
			report.Revenue = report.Revenue.Add(r.TotalAmount)
			entry, ok := perProduct[r.ProductSKU]
			if !ok {
				entry = &ProductSales{
					ProductSKU:  r.ProductSKU,
					ProductName: r.ProductName,
					Revenue:     decimal.Zero,
				}
				perProduct[r.ProductSKU] = entry
			}
			entry.UnitsSold += r.UnitsMoved()
			entry.Revenue = entry.Revenue.Add(r.TotalAmount)
		case ledger.TransactionTypePurchase:
			report.Cost = report.Cost.Add(r.TotalAmount)
		}
	}

	for _, entry := range perProduct {
		report.BestSellers = append(report.BestSellers, *entry)
	}
	sort.SliceStable(report.BestSellers, func(i, j int) bool {
		a, b := report.BestSellers[i], report.BestSellers[j]
		if a.UnitsSold != b.UnitsSold {
			return a.UnitsSold > b.UnitsSold
		}
		if !a.Revenue.Equal(b.Revenue) {
			return a.Revenue.GreaterThan(b.Revenue)
		}
		return a.ProductSKU < b.ProductSKU
	})

	report.GrossProfit = report.Revenue.Sub(report.Cost)
	return report
}

// Aggregator runs the analytics folds over ledger snapshots fetched from the
// repository. It never writes; repeated calls over an unchanged ledger return
// identical results.
type Aggregator struct {
	ledger ledger.TransactionRepository
}

// NewAggregator creates an analytics aggregator
func NewAggregator(ledgerRepo ledger.TransactionRepository) *Aggregator {
	return &Aggregator{ledger: ledgerRepo}
}

// DailySummary summarizes the ledger activity on the given date
func (a *Aggregator) DailySummary(ctx context.Context, date time.Time) (*DailySummary, error) {
	from := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	to := from.AddDate(0, 0, 1).Add(-time.Nanosecond)
	records, err := a.ledger.History(ctx, ledger.HistoryFilter{From: &from, To: &to})
	if err != nil {
		return nil, shared.NewPersistenceError("ledger history", err)
	}
	summary := SummarizeDay(records, date)
	return &summary, nil
}

// ProductHistory returns the ledger history and totals for one product
func (a *Aggregator) ProductHistory(ctx context.Context, sku string) (*ProductHistoryReport, error) {
	sku = strings.ToUpper(strings.TrimSpace(sku))
	records, err := a.ledger.History(ctx, ledger.HistoryFilter{ProductSKU: sku})
	if err != nil {
		return nil, shared.NewPersistenceError("ledger history", err)
	}
	report := FoldProductHistory(records, sku)
	return &report, nil
}

// SalesReport builds the ranked sales report for a date range
func (a *Aggregator) SalesReport(ctx context.Context, from, to time.Time) (*SalesReport, error) {
	records, err := a.ledger.History(ctx, ledger.HistoryFilter{From: &from, To: &to})
	if err != nil {
		return nil, shared.NewPersistenceError("ledger history", err)
	}
	report := BuildSalesReport(records, from, to)
	return &report, nil
}
