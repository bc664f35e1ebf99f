package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeInsufficientStock, http.StatusUnprocessableEntity},
		{ErrCodeSaleLimitExceeded, http.StatusUnprocessableEntity},
		{ErrCodePersistence, http.StatusInternalServerError},
		{ErrCodeLedger, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		{"ERR_SOMETHING_NEW", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode("PRODUCT_NOT_FOUND"))
	assert.Equal(t, ErrCodeBadRequest, NormalizeErrorCode("INVALID_REQUEST"))
	assert.Equal(t, ErrCodeInsufficientStock, NormalizeErrorCode("INSUFFICIENT_STOCK"))
	assert.Equal(t, ErrCodeSaleLimitExceeded, NormalizeErrorCode("SALE_LIMIT_EXCEEDED"))
	assert.Equal(t, ErrCodeValidation, NormalizeErrorCode("INVALID_SKU"))
	// Already normalized codes pass through.
	assert.Equal(t, ErrCodeLedger, NormalizeErrorCode(ErrCodeLedger))
	// Unknown codes pass through.
	assert.Equal(t, "CUSTOM_CODE", NormalizeErrorCode("CUSTOM_CODE"))
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Product not found", "req-123")

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Product not found", resp.Error.Message)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}

func TestNewErrorResponseWithDetails(t *testing.T) {
	details := map[string]int{"requested": 5, "available": 2}
	resp := NewErrorResponseWithDetails(ErrCodeInsufficientStock, "insufficient stock", "req-456", details)

	assert.False(t, resp.Success)
	assert.Equal(t, details, resp.Error.Details)
}
