package ledger

import (
	"context"
	"time"
)

// HistoryFilter narrows ledger queries. Zero values mean "no constraint".
type HistoryFilter struct {
	ProductSKU string
	Type       TransactionType
	From       *time.Time
	To         *time.Time
	Limit      int
	// Descending orders newest first (transaction listings); the default is
	// chronological, which analytics folds rely on.
	Descending bool
}

// TransactionRepository defines the persistence port for the ledger.
// The ledger is append-only: there is no update or delete operation.
type TransactionRepository interface {
	// Append persists a new ledger entry
	Append(ctx context.Context, record *TransactionRecord) error
	// NextSequence issues the next ledger sequence number. Issued values are
	// strictly increasing and never reused, also across process restarts, as
	// long as the ledger's backing storage survives.
	NextSequence(ctx context.Context) (int64, error)
	// FindByTransactionID returns the entry with the given transaction ID
	FindByTransactionID(ctx context.Context, transactionID string) (*TransactionRecord, error)
	// History returns entries matching the filter, chronologically unless
	// filter.Descending is set
	History(ctx context.Context, filter HistoryFilter) ([]TransactionRecord, error)
	// LastForProduct returns the most recent entry for a SKU, or nil when the
	// product has no ledger history. Used by reconciliation.
	LastForProduct(ctx context.Context, sku string) (*TransactionRecord, error)
}
