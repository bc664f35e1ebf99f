package dto

import "net/http"

// Error code constants, format: ERR_<CATEGORY>
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeBadRequest is used for malformed or invalid requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeValidation is used when request field validation fails
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when creating a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeInsufficientStock is used when a sale requests more units than available
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	// ErrCodeSaleLimitExceeded is used when the critical-stock sale cap rejects a sale
	ErrCodeSaleLimitExceeded = "ERR_SALE_LIMIT_EXCEEDED"
	// ErrCodePersistence is used when the stock store rejected a write
	ErrCodePersistence = "ERR_PERSISTENCE"
	// ErrCodeLedger is used when the ledger append failed after the stock write
	ErrCodeLedger = "ERR_LEDGER"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,

	// Business rejections are well-formed requests the engine refused
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,
	ErrCodeSaleLimitExceeded: http.StatusUnprocessableEntity,

	ErrCodePersistence: http.StatusInternalServerError,
	ErrCodeLedger:      http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to API error codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":           ErrCodeNotFound,
	"PRODUCT_NOT_FOUND":   ErrCodeNotFound,
	"ALREADY_EXISTS":      ErrCodeAlreadyExists,
	"INVALID_REQUEST":     ErrCodeBadRequest,
	"INVALID_SKU":         ErrCodeValidation,
	"INVALID_NAME":        ErrCodeValidation,
	"INVALID_QUANTITY":    ErrCodeValidation,
	"INVALID_PRICE":       ErrCodeValidation,
	"INSUFFICIENT_STOCK":  ErrCodeInsufficientStock,
	"SALE_LIMIT_EXCEEDED": ErrCodeSaleLimitExceeded,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Codes already in the API format, or unknown, are returned as-is.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
