package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionType_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		txType   TransactionType
		expected bool
	}{
		{"SALE is valid", TransactionTypeSale, true},
		{"PURCHASE is valid", TransactionTypePurchase, true},
		{"ADJUSTMENT is valid", TransactionTypeAdjustment, true},
		{"unknown is not valid", TransactionType("TRANSFER"), false},
		{"empty is not valid", TransactionType(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.txType.IsValid())
		})
	}
}

func TestFormatTransactionID(t *testing.T) {
	assert.Equal(t, "TXN001000", FormatTransactionID(1000))
	assert.Equal(t, "TXN001001", FormatTransactionID(1001))
	assert.Equal(t, "TXN999999", FormatTransactionID(999999))
	assert.Equal(t, "TXN1000000", FormatTransactionID(1000000))
}

func TestNewTransactionRecord(t *testing.T) {
	price := decimal.NewFromFloat(1299.99)

	t.Run("sale record", func(t *testing.T) {
		rec, err := NewTransactionRecord(1000, "LAPTOP001", "Gaming Laptop", TransactionTypeSale, -2, price, 15)
		require.NoError(t, err)

		assert.Equal(t, "TXN001000", rec.TransactionID)
		assert.Equal(t, -2, rec.QuantityDelta)
		assert.Equal(t, 15, rec.PreviousStock)
		assert.Equal(t, 13, rec.NewStock)
		assert.True(t, rec.TotalAmount.Equal(decimal.NewFromFloat(2599.98)), "got %s", rec.TotalAmount)
		assert.Equal(t, TransactionStatusCompleted, rec.Status)
	})

	t.Run("purchase record", func(t *testing.T) {
		rec, err := NewTransactionRecord(1001, "PHONE001", "Smartphone Pro", TransactionTypePurchase, 20, decimal.NewFromInt(1200), 5)
		require.NoError(t, err)

		assert.Equal(t, 25, rec.NewStock)
		assert.True(t, rec.TotalAmount.Equal(decimal.NewFromInt(24000)))
	})

	t.Run("negative adjustment record", func(t *testing.T) {
		rec, err := NewTransactionRecord(1002, "MOUSE001", "Wireless Mouse", TransactionTypeAdjustment, -3, decimal.Zero, 10)
		require.NoError(t, err)

		assert.Equal(t, TransactionTypeAdjustment, rec.Type)
		assert.Equal(t, -3, rec.QuantityDelta)
		assert.Equal(t, 7, rec.NewStock)
		assert.True(t, rec.TotalAmount.IsZero())
	})

	t.Run("new stock equals previous plus delta", func(t *testing.T) {
		rec, err := NewTransactionRecord(1003, "DESK001", "Standing Desk", TransactionTypeAdjustment, 4, decimal.Zero, 1)
		require.NoError(t, err)
		assert.Equal(t, rec.PreviousStock+rec.QuantityDelta, rec.NewStock)
	})

	t.Run("rejects sale overdraw", func(t *testing.T) {
		_, err := NewTransactionRecord(1004, "PHONE001", "Smartphone Pro", TransactionTypeSale, -6, price, 5)
		assert.Error(t, err)
	})

	t.Run("rejects positive sale delta", func(t *testing.T) {
		_, err := NewTransactionRecord(1005, "PHONE001", "Smartphone Pro", TransactionTypeSale, 2, price, 5)
		assert.Error(t, err)
	})

	t.Run("rejects negative purchase delta", func(t *testing.T) {
		_, err := NewTransactionRecord(1006, "PHONE001", "Smartphone Pro", TransactionTypePurchase, -2, price, 5)
		assert.Error(t, err)
	})

	t.Run("rejects zero delta", func(t *testing.T) {
		_, err := NewTransactionRecord(1007, "PHONE001", "Smartphone Pro", TransactionTypeAdjustment, 0, price, 5)
		assert.Error(t, err)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := NewTransactionRecord(1008, "PHONE001", "Smartphone Pro", TransactionTypePurchase, 2, decimal.NewFromInt(-1), 5)
		assert.Error(t, err)
	})

	t.Run("rejects sequence below start", func(t *testing.T) {
		_, err := NewTransactionRecord(999, "PHONE001", "Smartphone Pro", TransactionTypePurchase, 2, price, 5)
		assert.Error(t, err)
	})
}

func TestTransactionRecord_Builders(t *testing.T) {
	rec, err := NewTransactionRecord(1000, "LAPTOP001", "Gaming Laptop", TransactionTypeSale, -1, decimal.NewFromFloat(1299.99), 15)
	require.NoError(t, err)

	ts := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	rec.WithCounterparty("John Doe", "john@example.com").
		WithNotes("Online order #12345").
		WithTimestamp(ts)

	assert.Equal(t, "John Doe", rec.CounterpartyName)
	assert.Equal(t, "john@example.com", rec.CounterpartyContact)
	assert.Equal(t, "Online order #12345", rec.Notes)
	assert.Equal(t, ts, rec.Timestamp)
	assert.Equal(t, "2026-03-14", rec.DateKey())
}

func TestTransactionRecord_UnitsMoved(t *testing.T) {
	sale, err := NewTransactionRecord(1000, "LAPTOP001", "Gaming Laptop", TransactionTypeSale, -2, decimal.NewFromInt(10), 15)
	require.NoError(t, err)
	assert.Equal(t, 2, sale.UnitsMoved())
	assert.True(t, sale.IsSale())
	assert.False(t, sale.IsPurchase())

	purchase, err := NewTransactionRecord(1001, "LAPTOP001", "Gaming Laptop", TransactionTypePurchase, 7, decimal.NewFromInt(10), 13)
	require.NoError(t, err)
	assert.Equal(t, 7, purchase.UnitsMoved())
	assert.True(t, purchase.IsPurchase())
}
