package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound        = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists   = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidRequest  = NewDomainError("INVALID_REQUEST", "Invalid request")
	ErrProductNotFound = NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
)

// InsufficientStockError is returned when a sale requests more units than are
// available. It carries both quantities so the caller can adjust the request.
type InsufficientStockError struct {
	ProductSKU string `json:"product_sku"`
	Requested  int    `json:"requested"`
	Available  int    `json:"available"`
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.ProductSKU, e.Requested, e.Available)
}

// Code returns the stable error code for API responses
func (e *InsufficientStockError) Code() string {
	return "INSUFFICIENT_STOCK"
}

// NewInsufficientStockError creates a new InsufficientStockError
func NewInsufficientStockError(sku string, requested, available int) *InsufficientStockError {
	return &InsufficientStockError{
		ProductSKU: sku,
		Requested:  requested,
		Available:  available,
	}
}

// PersistenceError wraps a backing-store write failure. The stock figure was
// not updated and no ledger entry was appended; the whole request may be
// retried by the caller.
type PersistenceError struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error during %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewPersistenceError creates a new PersistenceError
func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

// LedgerError signals that the stock write succeeded but the ledger append
// failed. The stock figure and the ledger have diverged and must be
// reconciled; retrying the request would double-apply the stock change.
type LedgerError struct {
	ProductSKU string
	NewStock   int
	Err        error
}

// Error implements the error interface
func (e *LedgerError) Error() string {
	return fmt.Sprintf("ledger append failed for %s after stock write (new stock %d): %v",
		e.ProductSKU, e.NewStock, e.Err)
}

// Unwrap returns the underlying error
func (e *LedgerError) Unwrap() error {
	return e.Err
}

// NewLedgerError creates a new LedgerError
func NewLedgerError(sku string, newStock int, err error) *LedgerError {
	return &LedgerError{ProductSKU: sku, NewStock: newStock, Err: err}
}
