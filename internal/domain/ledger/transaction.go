package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stocktrack/backend/internal/domain/shared"
)

// TransactionType represents the kind of stock movement
type TransactionType string

const (
	// TransactionTypeSale removes stock in exchange for revenue
	TransactionTypeSale TransactionType = "SALE"
	// TransactionTypePurchase adds stock received from a supplier
	TransactionTypePurchase TransactionType = "PURCHASE"
	// TransactionTypeAdjustment corrects stock by a signed amount (count corrections, damage, shrinkage)
	TransactionTypeAdjustment TransactionType = "ADJUSTMENT"
)

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeSale, TransactionTypePurchase, TransactionTypeAdjustment:
		return true
	}
	return false
}

// TransactionStatus represents the outcome recorded on a ledger entry
type TransactionStatus string

const (
	// TransactionStatusCompleted marks a movement whose stock write succeeded
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	// TransactionStatusFailed exists for the wire model; the engine never
	// persists failed entries (rejected requests produce no ledger row)
	TransactionStatusFailed TransactionStatus = "FAILED"
)

// String returns the string representation of TransactionStatus
func (s TransactionStatus) String() string {
	return string(s)
}

// SequenceStart is the first value of the ledger sequence. The first issued
// transaction ID is TXN001000.
const SequenceStart int64 = 1000

// FormatTransactionID renders a ledger sequence number as a transaction ID
func FormatTransactionID(sequence int64) string {
	return fmt.Sprintf("TXN%06d", sequence)
}

// TransactionRecord is an immutable ledger entry describing one stock
// movement. Records are never mutated or deleted after creation; corrections
// are made with new adjustment records.
type TransactionRecord struct {
	shared.BaseEntity
	TransactionID       string            `gorm:"type:varchar(20);not null;uniqueIndex"`
	Sequence            int64             `gorm:"not null;uniqueIndex"`
	Timestamp           time.Time         `gorm:"type:timestamptz;not null;index:idx_ledger_time"`
	ProductSKU          string            `gorm:"type:varchar(50);not null;index:idx_ledger_product"`
	ProductName         string            `gorm:"type:varchar(255);not null"`
	Type                TransactionType   `gorm:"type:varchar(20);not null;index:idx_ledger_type"`
	QuantityDelta       int               `gorm:"not null"`
	UnitPrice           decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	TotalAmount         decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	PreviousStock       int               `gorm:"not null"`
	NewStock            int               `gorm:"not null"`
	CounterpartyName    string            `gorm:"type:varchar(255)"`
	CounterpartyContact string            `gorm:"type:varchar(255)"`
	Notes               string            `gorm:"type:varchar(500)"`
	Status              TransactionStatus `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (TransactionRecord) TableName() string {
	return "transaction_records"
}

// NewTransactionRecord creates a completed ledger entry for a stock movement.
// quantityDelta is negative for sales, positive for purchases and signed for
// adjustments. The resulting stock must not go negative.
func NewTransactionRecord(
	sequence int64,
	productSKU string,
	productName string,
	txType TransactionType,
	quantityDelta int,
	unitPrice decimal.Decimal,
	previousStock int,
) (*TransactionRecord, error) {
	if sequence < SequenceStart {
		return nil, shared.NewDomainError("INVALID_SEQUENCE", "Ledger sequence out of range")
	}
	if productSKU == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "Product SKU cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid transaction type")
	}
	if quantityDelta == 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity delta cannot be zero")
	}
	if txType == TransactionTypeSale && quantityDelta > 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Sale delta must be negative")
	}
	if txType == TransactionTypePurchase && quantityDelta < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Purchase delta must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if previousStock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Previous stock cannot be negative")
	}
	newStock := previousStock + quantityDelta
	if newStock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Resulting stock cannot be negative")
	}

	units := quantityDelta
	if units < 0 {
		units = -units
	}

	return &TransactionRecord{
		BaseEntity:    shared.NewBaseEntity(),
		TransactionID: FormatTransactionID(sequence),
		Sequence:      sequence,
		Timestamp:     time.Now(),
		ProductSKU:    productSKU,
		ProductName:   productName,
		Type:          txType,
		QuantityDelta: quantityDelta,
		UnitPrice:     unitPrice,
		TotalAmount:   unitPrice.Mul(decimal.NewFromInt(int64(units))),
		PreviousStock: previousStock,
		NewStock:      newStock,
		Status:        TransactionStatusCompleted,
	}, nil
}

// WithCounterparty attaches the customer or supplier for this movement
func (r *TransactionRecord) WithCounterparty(name, contact string) *TransactionRecord {
	r.CounterpartyName = name
	r.CounterpartyContact = contact
	return r
}

// WithNotes attaches free-form notes to the record
func (r *TransactionRecord) WithNotes(notes string) *TransactionRecord {
	r.Notes = notes
	return r
}

// WithTimestamp overrides the movement timestamp (backdated entries)
func (r *TransactionRecord) WithTimestamp(ts time.Time) *TransactionRecord {
	r.Timestamp = ts
	return r
}

// UnitsMoved returns the absolute number of units in this movement
func (r *TransactionRecord) UnitsMoved() int {
	if r.QuantityDelta < 0 {
		return -r.QuantityDelta
	}
	return r.QuantityDelta
}

// IsSale returns true for sale records
func (r *TransactionRecord) IsSale() bool {
	return r.Type == TransactionTypeSale
}

// IsPurchase returns true for purchase records
func (r *TransactionRecord) IsPurchase() bool {
	return r.Type == TransactionTypePurchase
}

// DateKey returns the record's movement date in YYYY-MM-DD form
func (r *TransactionRecord) DateKey() string {
	return r.Timestamp.Format("2006-01-02")
}
