package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stocktrack/backend/internal/application/alerts"
	"github.com/stocktrack/backend/internal/application/analytics"
	catalogapp "github.com/stocktrack/backend/internal/application/catalog"
	"github.com/stocktrack/backend/internal/application/transaction"
	"github.com/stocktrack/backend/internal/infrastructure/config"
	"github.com/stocktrack/backend/internal/infrastructure/logger"
	"github.com/stocktrack/backend/internal/infrastructure/persistence"
	"github.com/stocktrack/backend/internal/interfaces/http/handler"
	"github.com/stocktrack/backend/internal/interfaces/http/middleware"
	"github.com/stocktrack/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting StockTrack backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, cfg.Log.Level)

	// Initialize database connection
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)

	// Application services
	engine := transaction.NewEngine(productRepo, transactionRepo, log)
	engine.SetCriticalSaleLimiting(cfg.Engine.LimitCriticalSales)
	productService := catalogapp.NewProductService(productRepo, log)
	aggregator := analytics.NewAggregator(transactionRepo)
	evaluator := alerts.NewEvaluator(productRepo)
	planner := alerts.NewPlanner(productRepo, transactionRepo)

	// Handlers
	transactionHandler := handler.NewTransactionHandler(engine)
	productHandler := handler.NewProductHandler(productService, aggregator)
	alertsHandler := handler.NewAlertsHandler(evaluator, planner)
	reportHandler := handler.NewReportHandler(aggregator)
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	ginEngine := gin.New()

	// Middleware stack, in order: request ID, panic recovery, request
	// logging, CORS.
	ginEngine.Use(middleware.RequestID())
	ginEngine.Use(logger.Recovery(log))
	ginEngine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	ginEngine.Use(middleware.CORSWithConfig(corsConfig))

	// Health check endpoint (outside API versioning)
	ginEngine.GET("/health", healthHandler(db, log))

	// API routes
	r := router.NewRouter(ginEngine, router.WithAPIVersion("v1"))

	transactionRoutes := router.NewDomainGroup("ledger", "/transactions")
	transactionRoutes.POST("", transactionHandler.Create)
	transactionRoutes.GET("", transactionHandler.List)
	transactionRoutes.GET("/:id", transactionHandler.GetByID)

	reconcileRoutes := router.NewDomainGroup("reconcile", "/reconcile")
	reconcileRoutes.POST("", transactionHandler.Reconcile)

	productRoutes := router.NewDomainGroup("catalog", "/products")
	productRoutes.POST("", productHandler.Create)
	productRoutes.GET("", productHandler.List)
	productRoutes.GET("/:sku", productHandler.GetBySKU)
	productRoutes.GET("/:sku/history", productHandler.GetHistory)
	productRoutes.GET("/:sku/alert", alertsHandler.GetProductAlert)

	alertRoutes := router.NewDomainGroup("alerts", "/alerts")
	alertRoutes.GET("", alertsHandler.GetAlerts)
	alertRoutes.GET("/reorder-plan", alertsHandler.GetReorderPlan)

	reportRoutes := router.NewDomainGroup("reports", "/reports")
	reportRoutes.GET("/daily", reportHandler.Daily)
	reportRoutes.GET("/sales", reportHandler.Sales)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(transactionRoutes).
		Register(reconcileRoutes).
		Register(productRoutes).
		Register(alertRoutes).
		Register(reportRoutes).
		Register(systemRoutes)

	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      ginEngine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports liveness and database reachability
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
