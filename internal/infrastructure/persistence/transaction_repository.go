package persistence

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/stocktrack/backend/internal/domain/ledger"
	"github.com/stocktrack/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormTransactionRepository implements ledger.TransactionRepository using GORM.
// The ledger is append-only; records are never updated or deleted.
type GormTransactionRepository struct {
	db *gorm.DB

	// Guards sequence allocation so concurrent appends never hand out the
	// same number. The unique index on sequence is the backstop.
	seqMu   sync.Mutex
	lastSeq int64
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Append persists a new ledger record
func (r *GormTransactionRepository) Append(ctx context.Context, record *ledger.TransactionRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// NextSequence allocates the next transaction sequence number. Numbers are
// strictly increasing and survive restarts: the first allocation reads the
// highest persisted sequence and continues from there.
func (r *GormTransactionRepository) NextSequence(ctx context.Context) (int64, error) {
	r.seqMu.Lock()
	defer r.seqMu.Unlock()

	if r.lastSeq == 0 {
		var maxSeq int64
		err := r.db.WithContext(ctx).
			Model(&ledger.TransactionRecord{}).
			Select("COALESCE(MAX(sequence), ?)", ledger.SequenceStart-1).
			Scan(&maxSeq).Error
		if err != nil {
			return 0, err
		}
		r.lastSeq = maxSeq
	}

	r.lastSeq++
	return r.lastSeq, nil
}

// FindByTransactionID finds a record by its public transaction ID
func (r *GormTransactionRepository) FindByTransactionID(ctx context.Context, transactionID string) (*ledger.TransactionRecord, error) {
	var record ledger.TransactionRecord
	if err := r.db.WithContext(ctx).
		Where("transaction_id = ?", strings.ToUpper(transactionID)).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// History returns ledger records matching the filter, ordered by sequence
func (r *GormTransactionRepository) History(ctx context.Context, filter ledger.HistoryFilter) ([]ledger.TransactionRecord, error) {
	query := r.db.WithContext(ctx).Model(&ledger.TransactionRecord{})

	if filter.ProductSKU != "" {
		query = query.Where("product_sku = ?", strings.ToUpper(filter.ProductSKU))
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.From != nil {
		query = query.Where("timestamp >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("timestamp <= ?", *filter.To)
	}
	if filter.Descending {
		query = query.Order("sequence DESC")
	} else {
		query = query.Order("sequence ASC")
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var records []ledger.TransactionRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// LastForProduct returns the most recent record for a product, or nil when
// the product has no ledger history
func (r *GormTransactionRepository) LastForProduct(ctx context.Context, sku string) (*ledger.TransactionRecord, error) {
	var record ledger.TransactionRecord
	err := r.db.WithContext(ctx).
		Where("product_sku = ?", strings.ToUpper(sku)).
		Order("sequence DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}
