package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stocktrack/backend/internal/application/transaction"
	"github.com/stocktrack/backend/internal/domain/ledger"
)

// parseDateTime parses a datetime string in the formats clients commonly send
func parseDateTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	if t, dateErr := time.Parse("2006-01-02", s); dateErr == nil {
		return t, nil
	}
	return time.Time{}, err
}

// TransactionHandler handles stock movement API endpoints
type TransactionHandler struct {
	BaseHandler
	engine *transaction.Engine
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(engine *transaction.Engine) *TransactionHandler {
	return &TransactionHandler{engine: engine}
}

// CreateTransactionRequest is the request body for recording a stock movement.
// Quantity is the number of units: positive for sales and purchases, signed
// for adjustments.
type CreateTransactionRequest struct {
	ProductSKU          string  `json:"product_sku" binding:"required"`
	Type                string  `json:"type" binding:"required,oneof=SALE PURCHASE ADJUSTMENT"`
	Quantity            int     `json:"quantity" binding:"required"`
	UnitPrice           *string `json:"unit_price"`
	CounterpartyName    string  `json:"counterparty_name" binding:"max=255"`
	CounterpartyContact string  `json:"counterparty_contact" binding:"max=255"`
	Notes               string  `json:"notes" binding:"max=500"`
}

// TransactionResponse represents a ledger entry in API responses
type TransactionResponse struct {
	TransactionID       string `json:"transaction_id"`
	Sequence            int64  `json:"sequence"`
	Timestamp           string `json:"timestamp"`
	ProductSKU          string `json:"product_sku"`
	ProductName         string `json:"product_name"`
	Type                string `json:"type"`
	QuantityDelta       int    `json:"quantity_delta"`
	UnitPrice           string `json:"unit_price"`
	TotalAmount         string `json:"total_amount"`
	PreviousStock       int    `json:"previous_stock"`
	NewStock            int    `json:"new_stock"`
	CounterpartyName    string `json:"counterparty_name,omitempty"`
	CounterpartyContact string `json:"counterparty_contact,omitempty"`
	Notes               string `json:"notes,omitempty"`
	Status              string `json:"status"`
}

func toTransactionResponse(r *ledger.TransactionRecord) TransactionResponse {
	return TransactionResponse{
		TransactionID:       r.TransactionID,
		Sequence:            r.Sequence,
		Timestamp:           r.Timestamp.Format(time.RFC3339),
		ProductSKU:          r.ProductSKU,
		ProductName:         r.ProductName,
		Type:                r.Type.String(),
		QuantityDelta:       r.QuantityDelta,
		UnitPrice:           r.UnitPrice.String(),
		TotalAmount:         r.TotalAmount.String(),
		PreviousStock:       r.PreviousStock,
		NewStock:            r.NewStock,
		CounterpartyName:    r.CounterpartyName,
		CounterpartyContact: r.CounterpartyContact,
		Notes:               r.Notes,
		Status:              r.Status.String(),
	}
}

// Create records a stock movement and returns the resulting ledger entry
func (h *TransactionHandler) Create(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	// Price defaults to the product's catalog price when omitted
	unitPrice := decimal.Decimal{}
	priceGiven := false
	if req.UnitPrice != nil && *req.UnitPrice != "" {
		parsed, err := decimal.NewFromString(*req.UnitPrice)
		if err != nil {
			h.BadRequest(c, "unit_price must be a decimal number")
			return
		}
		unitPrice = parsed
		priceGiven = true
	}

	record, err := h.engine.Process(c.Request.Context(), transaction.MovementRequest{
		ProductSKU:          req.ProductSKU,
		Type:                ledger.TransactionType(req.Type),
		Quantity:            req.Quantity,
		UnitPrice:           unitPrice,
		UseCatalogPrice:     !priceGiven,
		CounterpartyName:    req.CounterpartyName,
		CounterpartyContact: req.CounterpartyContact,
		Notes:               req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toTransactionResponse(record))
}

// List returns ledger entries, newest first, with optional filters
func (h *TransactionHandler) List(c *gin.Context) {
	filter := ledger.HistoryFilter{
		ProductSKU: c.Query("product_sku"),
		Descending: true,
		Limit:      100,
	}

	if txType := c.Query("type"); txType != "" {
		t := ledger.TransactionType(txType)
		if !t.IsValid() {
			h.BadRequest(c, "type must be SALE, PURCHASE or ADJUSTMENT")
			return
		}
		filter.Type = t
	}
	if from := c.Query("from"); from != "" {
		ts, err := parseDateTime(from)
		if err != nil {
			h.BadRequest(c, "from must be an RFC3339 timestamp or YYYY-MM-DD date")
			return
		}
		filter.From = &ts
	}
	if to := c.Query("to"); to != "" {
		ts, err := parseDateTime(to)
		if err != nil {
			h.BadRequest(c, "to must be an RFC3339 timestamp or YYYY-MM-DD date")
			return
		}
		filter.To = &ts
	}

	records, err := h.engine.History(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]TransactionResponse, 0, len(records))
	for i := range records {
		responses = append(responses, toTransactionResponse(&records[i]))
	}
	h.Success(c, responses)
}

// GetByID returns one ledger entry by its transaction ID
func (h *TransactionHandler) GetByID(c *gin.Context) {
	record, err := h.engine.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTransactionResponse(record))
}

// Reconcile compares every product's stock figure against its last ledger
// entry and reports divergences
func (h *TransactionHandler) Reconcile(c *gin.Context) {
	report, err := h.engine.Reconcile(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}
