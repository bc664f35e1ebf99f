package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stocktrack/backend/internal/application/analytics"
	catalogapp "github.com/stocktrack/backend/internal/application/catalog"
	"github.com/stocktrack/backend/internal/domain/catalog"
	"github.com/stocktrack/backend/internal/domain/shared"
	"github.com/stocktrack/backend/internal/interfaces/http/dto"
)

// ProductHandler handles catalog API endpoints
type ProductHandler struct {
	BaseHandler
	products  *catalogapp.ProductService
	analytics *analytics.Aggregator
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products *catalogapp.ProductService, aggregator *analytics.Aggregator) *ProductHandler {
	return &ProductHandler{products: products, analytics: aggregator}
}

// CreateProductRequest is the request body for adding a product
type CreateProductRequest struct {
	SKU       string `json:"sku" binding:"required,max=50"`
	Name      string `json:"name" binding:"required,max=255"`
	Category  string `json:"category" binding:"max=100"`
	Quantity  int    `json:"quantity" binding:"gte=0"`
	UnitPrice string `json:"unit_price" binding:"required"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Status      string `json:"status"`
	StockValue  string `json:"stock_value"`
	LastUpdated string `json:"last_updated"`
}

func toProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		SKU:         p.SKU,
		Name:        p.Name,
		Category:    p.Category,
		Quantity:    p.Quantity,
		UnitPrice:   p.UnitPrice.String(),
		Status:      p.Status.String(),
		StockValue:  p.StockValue().String(),
		LastUpdated: p.LastUpdated.Format(time.RFC3339),
	}
}

// Create adds a product to the catalog
func (h *ProductHandler) Create(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	unitPrice, err := decimal.NewFromString(req.UnitPrice)
	if err != nil {
		h.BadRequest(c, "unit_price must be a decimal number")
		return
	}

	product, err := h.products.Create(c.Request.Context(), catalogapp.CreateProductRequest{
		SKU:       req.SKU,
		Name:      req.Name,
		Category:  req.Category,
		Quantity:  req.Quantity,
		UnitPrice: unitPrice,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toProductResponse(product))
}

// List returns catalog products, optionally filtered by a search term or category
func (h *ProductHandler) List(c *gin.Context) {
	term := c.Query("search")
	category := c.Query("category")

	var (
		products []catalog.Product
		err      error
	)
	if term != "" || category != "" {
		products, err = h.products.Search(c.Request.Context(), term, category)
	} else {
		var req dto.ListRequest
		if bindErr := c.ShouldBindQuery(&req); bindErr != nil {
			h.BindingError(c, bindErr)
			return
		}
		products, err = h.products.List(c.Request.Context(), shared.Filter{
			OrderBy:  req.OrderBy,
			OrderDir: req.OrderDir,
			Limit:    req.Limit,
		})
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, toProductResponse(&products[i]))
	}
	h.Success(c, responses)
}

// GetBySKU returns one product
func (h *ProductHandler) GetBySKU(c *gin.Context) {
	product, err := h.products.Get(c.Request.Context(), c.Param("sku"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toProductResponse(product))
}

// ProductHistoryResponse represents a product's ledger history with totals
type ProductHistoryResponse struct {
	ProductSKU        string                `json:"product_sku"`
	TotalTransactions int                   `json:"total_transactions"`
	UnitsSold         int                   `json:"units_sold"`
	UnitsPurchased    int                   `json:"units_purchased"`
	NetAdjustment     int                   `json:"net_adjustment"`
	SalesRevenue      string                `json:"sales_revenue"`
	PurchaseCost      string                `json:"purchase_cost"`
	NetProfit         string                `json:"net_profit"`
	Transactions      []TransactionResponse `json:"transactions"`
}

// GetHistory returns the product's ledger history and movement totals
func (h *ProductHandler) GetHistory(c *gin.Context) {
	sku := c.Param("sku")

	// A history for an unknown product would be an empty report; check the
	// catalog first so unknown SKUs surface as 404.
	if _, err := h.products.Get(c.Request.Context(), sku); err != nil {
		h.HandleError(c, err)
		return
	}

	report, err := h.analytics.ProductHistory(c.Request.Context(), sku)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := ProductHistoryResponse{
		ProductSKU:        report.ProductSKU,
		TotalTransactions: report.TotalTransactions,
		UnitsSold:         report.UnitsSold,
		UnitsPurchased:    report.UnitsPurchased,
		NetAdjustment:     report.NetAdjustment,
		SalesRevenue:      report.SalesRevenue.String(),
		PurchaseCost:      report.PurchaseCost.String(),
		NetProfit:         report.NetProfit.String(),
		Transactions:      make([]TransactionResponse, 0, len(report.Transactions)),
	}
	for i := range report.Transactions {
		resp.Transactions = append(resp.Transactions, toTransactionResponse(&report.Transactions[i]))
	}
	h.Success(c, resp)
}
