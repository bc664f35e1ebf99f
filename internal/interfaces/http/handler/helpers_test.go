package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stocktrack/backend/internal/application/alerts"
	"github.com/stocktrack/backend/internal/application/analytics"
	catalogapp "github.com/stocktrack/backend/internal/application/catalog"
	"github.com/stocktrack/backend/internal/application/transaction"
	"github.com/stocktrack/backend/internal/domain/catalog"
	"github.com/stocktrack/backend/internal/domain/ledger"
	"github.com/stocktrack/backend/internal/domain/shared"
	"github.com/stocktrack/backend/internal/interfaces/http/dto"
	"github.com/stocktrack/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeProductStore is an in-memory catalog.ProductRepository
type fakeProductStore struct {
	mu       sync.Mutex
	products map[string]*catalog.Product
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{products: map[string]*catalog.Product{}}
}

func (s *fakeProductStore) add(t *testing.T, sku, name, category string, quantity int, price float64) {
	t.Helper()
	p, err := catalog.NewProduct(sku, name, category, quantity, decimal.NewFromFloat(price))
	require.NoError(t, err)
	s.products[p.SKU] = p
}

func (s *fakeProductStore) FindBySKU(_ context.Context, sku string) (*catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[strings.ToUpper(sku)]
	if !ok {
		return nil, shared.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

func (s *fakeProductStore) List(_ context.Context, _ shared.Filter) ([]catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]catalog.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

func (s *fakeProductStore) Search(_ context.Context, term, category string) ([]catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	term = strings.ToLower(term)
	out := make([]catalog.Product, 0)
	for _, p := range s.products {
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.SKU), term) {
			continue
		}
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

func (s *fakeProductStore) Create(_ context.Context, p *catalog.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.SKU]; ok {
		return shared.ErrAlreadyExists
	}
	clone := *p
	s.products[p.SKU] = &clone
	return nil
}

func (s *fakeProductStore) UpdateStock(_ context.Context, p *catalog.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.products[p.SKU]
	if !ok {
		return shared.ErrProductNotFound
	}
	stored.Quantity = p.Quantity
	stored.Status = p.Status
	stored.LastUpdated = p.LastUpdated
	return nil
}

// fakeLedger is an in-memory ledger.TransactionRepository
type fakeLedger struct {
	mu      sync.Mutex
	records []ledger.TransactionRecord
	seq     int64
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{seq: ledger.SequenceStart}
}

func (l *fakeLedger) Append(_ context.Context, record *ledger.TransactionRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, *record)
	return nil
}

func (l *fakeLedger) NextSequence(_ context.Context) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	seq := l.seq
	l.seq++
	return seq, nil
}

func (l *fakeLedger) FindByTransactionID(_ context.Context, transactionID string) (*ledger.TransactionRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.records {
		if l.records[i].TransactionID == transactionID {
			clone := l.records[i]
			return &clone, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (l *fakeLedger) History(_ context.Context, filter ledger.HistoryFilter) ([]ledger.TransactionRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]ledger.TransactionRecord, 0)
	for _, r := range l.records {
		if filter.ProductSKU != "" && r.ProductSKU != filter.ProductSKU {
			continue
		}
		if filter.Type != "" && r.Type != filter.Type {
			continue
		}
		if filter.From != nil && r.Timestamp.Before(*filter.From) {
			continue
		}
		if filter.To != nil && r.Timestamp.After(*filter.To) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if filter.Descending {
			return out[i].Sequence > out[j].Sequence
		}
		return out[i].Sequence < out[j].Sequence
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (l *fakeLedger) LastForProduct(_ context.Context, sku string) (*ledger.TransactionRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(l.records) - 1; i >= 0; i-- {
		if l.records[i].ProductSKU == sku {
			clone := l.records[i]
			return &clone, nil
		}
	}
	return nil, nil
}

// testApp wires the handlers against in-memory stores the way the server does
type testApp struct {
	router   *gin.Engine
	products *fakeProductStore
	ledger   *fakeLedger
	engine   *transaction.Engine
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	products := newFakeProductStore()
	ledgerStore := newFakeLedger()

	engine := transaction.NewEngine(products, ledgerStore, zap.NewNop())
	productService := catalogapp.NewProductService(products, zap.NewNop())
	aggregator := analytics.NewAggregator(ledgerStore)
	evaluator := alerts.NewEvaluator(products)
	planner := alerts.NewPlanner(products, ledgerStore)

	transactionHandler := NewTransactionHandler(engine)
	productHandler := NewProductHandler(productService, aggregator)
	alertsHandler := NewAlertsHandler(evaluator, planner)
	reportHandler := NewReportHandler(aggregator)
	systemHandler := NewSystemHandler("StockTrack API", "test")

	router := gin.New()
	api := router.Group("/api/v1")

	api.POST("/transactions", transactionHandler.Create)
	api.GET("/transactions", transactionHandler.List)
	api.GET("/transactions/:id", transactionHandler.GetByID)
	api.POST("/reconcile", transactionHandler.Reconcile)

	api.POST("/products", productHandler.Create)
	api.GET("/products", productHandler.List)
	api.GET("/products/:sku", productHandler.GetBySKU)
	api.GET("/products/:sku/history", productHandler.GetHistory)
	api.GET("/products/:sku/alert", alertsHandler.GetProductAlert)

	api.GET("/alerts", alertsHandler.GetAlerts)
	api.GET("/alerts/reorder-plan", alertsHandler.GetReorderPlan)

	api.GET("/reports/daily", reportHandler.Daily)
	api.GET("/reports/sales", reportHandler.Sales)

	api.GET("/system/info", systemHandler.GetSystemInfo)
	api.GET("/system/ping", systemHandler.Ping)

	return &testApp{router: router, products: products, ledger: ledgerStore, engine: engine}
}

// envelope mirrors dto.Response with the data left raw for per-test decoding
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
}

func (a *testApp) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return w, env
}

func (a *testApp) decodeData(t *testing.T, env envelope, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out))
}

// sell records a completed sale directly through the engine
func (a *testApp) sell(t *testing.T, sku string, quantity int, price float64) *ledger.TransactionRecord {
	t.Helper()
	rec, err := a.engine.Process(context.Background(), transaction.MovementRequest{
		ProductSKU: sku,
		Type:       ledger.TransactionTypeSale,
		Quantity:   quantity,
		UnitPrice:  decimal.NewFromFloat(price),
	})
	require.NoError(t, err)
	return rec
}

// purchase records a completed purchase directly through the engine
func (a *testApp) purchase(t *testing.T, sku string, quantity int, price float64) *ledger.TransactionRecord {
	t.Helper()
	rec, err := a.engine.Process(context.Background(), transaction.MovementRequest{
		ProductSKU: sku,
		Type:       ledger.TransactionTypePurchase,
		Quantity:   quantity,
		UnitPrice:  decimal.NewFromFloat(price),
	})
	require.NoError(t, err)
	return rec
}
