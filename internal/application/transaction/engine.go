package transaction

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/stocktrack/backend/internal/domain/catalog"
	"github.com/stocktrack/backend/internal/domain/ledger"
	"github.com/stocktrack/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CriticalSaleLimit is the per-request unit cap applied to products in
// critical stock when limiting is enabled.
const CriticalSaleLimit = 1

// MovementRequest describes one requested stock movement.
// Quantity is a positive unit count for sales and purchases; for adjustments
// the caller supplies the sign directly.
type MovementRequest struct {
	ProductSKU string
	Type       ledger.TransactionType
	Quantity   int
	UnitPrice  decimal.Decimal
	// UseCatalogPrice replaces UnitPrice with the product's catalog price
	// once the product is loaded. Set when the caller omitted a price.
	UseCatalogPrice     bool
	CounterpartyName    string
	CounterpartyContact string
	Notes               string
}

// Engine validates and executes stock movements against the catalog and the
// ledger. Each call returns exactly one of: a completed ledger record, or a
// typed error describing why nothing (or, for LedgerError, only the stock
// write) happened.
//
// Calls for the same SKU are serialized with a per-product mutex, so the
// read-modify-write against the backing store is race-free within one
// process. Concurrent writers in other processes are out of scope.
type Engine struct {
	products catalog.ProductRepository
	ledger   ledger.TransactionRepository
	logger   *zap.Logger

	limitCriticalSales bool

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewEngine creates a transaction engine
func NewEngine(products catalog.ProductRepository, ledgerRepo ledger.TransactionRepository, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		products: products,
		ledger:   ledgerRepo,
		logger:   logger.Named("engine"),
		locks:    make(map[string]*sync.Mutex),
	}
}

// SetCriticalSaleLimiting toggles the policy that caps sales of
// critical-stock products at CriticalSaleLimit units per request
func (e *Engine) SetCriticalSaleLimiting(enabled bool) {
	e.limitCriticalSales = enabled
}

// lockFor returns the mutex guarding a SKU, creating it on first use
func (e *Engine) lockFor(sku string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[sku]
	if !ok {
		l = &sync.Mutex{}
		e.locks[sku] = l
	}
	return l
}

// Process executes a single stock movement:
// look up the product, validate the request, compute the new stock figure,
// write it to the backing store, then append the ledger entry. The ordering
// bounds the inconsistency window to "stock updated, ledger not appended",
// which Reconcile can detect; the reverse state can never occur.
func (e *Engine) Process(ctx context.Context, req MovementRequest) (*ledger.TransactionRecord, error) {
	sku := strings.ToUpper(strings.TrimSpace(req.ProductSKU))
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_REQUEST", "Product SKU is required")
	}

	lock := e.lockFor(sku)
	lock.Lock()
	defer lock.Unlock()

	product, err := e.products.FindBySKU(ctx, sku)
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && (domainErr == shared.ErrNotFound || domainErr == shared.ErrProductNotFound) {
			return nil, shared.ErrProductNotFound
		}
		return nil, shared.NewPersistenceError("product lookup", err)
	}

	if req.UseCatalogPrice {
		req.UnitPrice = product.UnitPrice
	}

	delta, err := e.validate(req, product)
	if err != nil {
		return nil, err
	}

	previousStock := product.Quantity
	newStock := previousStock + delta
	if newStock < 0 {
		return nil, shared.NewInsufficientStockError(sku, -delta, previousStock)
	}

	if err := product.ApplyStockChange(newStock); err != nil {
		return nil, err
	}
	if err := e.products.UpdateStock(ctx, product); err != nil {
		// Stock was not durably updated: nothing happened, the caller may
		// retry the whole request.
		return nil, shared.NewPersistenceError("stock update", err)
	}

	// Past this point the stock write has succeeded. Any failure while
	// appending to the ledger leaves stock and ledger diverged and must be
	// surfaced distinctly for reconciliation.
	sequence, err := e.ledger.NextSequence(ctx)
	if err != nil {
		e.logger.Error("ledger sequence allocation failed after stock write",
			zap.String("sku", sku), zap.Int("new_stock", newStock), zap.Error(err))
		return nil, shared.NewLedgerError(sku, newStock, err)
	}

	record, err := ledger.NewTransactionRecord(sequence, sku, product.Name, req.Type, delta, req.UnitPrice, previousStock)
	if err != nil {
		e.logger.Error("ledger record construction failed after stock write",
			zap.String("sku", sku), zap.Int("new_stock", newStock), zap.Error(err))
		return nil, shared.NewLedgerError(sku, newStock, err)
	}
	record.WithCounterparty(req.CounterpartyName, req.CounterpartyContact).WithNotes(req.Notes)

	if err := e.ledger.Append(ctx, record); err != nil {
		e.logger.Error("ledger append failed after stock write",
			zap.String("sku", sku), zap.Int("new_stock", newStock), zap.Error(err))
		return nil, shared.NewLedgerError(sku, newStock, err)
	}

	e.logger.Info("transaction completed",
		zap.String("transaction_id", record.TransactionID),
		zap.String("sku", sku),
		zap.String("type", record.Type.String()),
		zap.Int("quantity_delta", delta),
		zap.Int("previous_stock", previousStock),
		zap.Int("new_stock", newStock),
		zap.String("status", product.Status.String()),
	)

	return record, nil
}

// validate checks the request against the movement rules and returns the
// signed quantity delta to apply
func (e *Engine) validate(req MovementRequest, product *catalog.Product) (int, error) {
	if !req.Type.IsValid() {
		return 0, shared.NewDomainError("INVALID_REQUEST", "Unknown transaction type")
	}
	if req.UnitPrice.IsNegative() {
		return 0, shared.NewDomainError("INVALID_REQUEST", "Unit price cannot be negative")
	}

	switch req.Type {
	case ledger.TransactionTypeSale:
		if req.Quantity <= 0 {
			return 0, shared.NewDomainError("INVALID_REQUEST", "Sale quantity must be positive")
		}
		if req.Quantity > product.Quantity {
			return 0, shared.NewInsufficientStockError(product.SKU, req.Quantity, product.Quantity)
		}
		if e.limitCriticalSales &&
			product.Status == catalog.StockStatusCriticalStock &&
			req.Quantity > CriticalSaleLimit {
			return 0, shared.NewDomainError("SALE_LIMIT_EXCEEDED",
				"Product is in critical stock; sales are limited to 1 unit per request")
		}
		return -req.Quantity, nil

	case ledger.TransactionTypePurchase:
		if req.Quantity <= 0 {
			return 0, shared.NewDomainError("INVALID_REQUEST", "Purchase quantity must be positive")
		}
		return req.Quantity, nil

	default: // adjustment
		if req.Quantity == 0 {
			return 0, shared.NewDomainError("INVALID_REQUEST", "Adjustment quantity cannot be zero")
		}
		return req.Quantity, nil
	}
}

// History returns ledger entries matching the filter
func (e *Engine) History(ctx context.Context, filter ledger.HistoryFilter) ([]ledger.TransactionRecord, error) {
	if filter.ProductSKU != "" {
		filter.ProductSKU = strings.ToUpper(strings.TrimSpace(filter.ProductSKU))
	}
	return e.ledger.History(ctx, filter)
}

// Get returns a single ledger entry by its transaction ID
func (e *Engine) Get(ctx context.Context, transactionID string) (*ledger.TransactionRecord, error) {
	return e.ledger.FindByTransactionID(ctx, strings.ToUpper(strings.TrimSpace(transactionID)))
}
