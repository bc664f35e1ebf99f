package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func TestRouter_RegistersUnderVersionPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	group := NewDomainGroup("ledger", "/transactions")
	group.GET("", okHandler)
	group.POST("", okHandler)

	NewRouter(engine).Register(group).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/transactions", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/transactions", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_CustomAPIVersion(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	group := NewDomainGroup("catalog", "/products")
	group.GET("/:sku", okHandler)

	NewRouter(engine, WithAPIVersion("v2")).Register(group).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v2/products/WIDGET-01", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDomainGroup_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	called := false
	group := NewDomainGroup("alerts", "/alerts")
	group.Use(func(c *gin.Context) {
		called = true
		c.Next()
	})
	group.GET("", okHandler)

	NewRouter(engine).Register(group).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/alerts", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)
}

func TestDomainGroup_Accessors(t *testing.T) {
	group := NewDomainGroup("reports", "/reports")
	assert.Equal(t, "reports", group.Name())
	assert.Equal(t, "/reports", group.Prefix())
}
