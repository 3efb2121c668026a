package main

import (
	"context"
	"net/http"

	"inventory-service/internal/engine"
	"inventory-service/internal/handler"
	mid "inventory-service/internal/middleware"
	"inventory-service/internal/store"
	"inventory-service/pkg/config"
	"inventory-service/pkg/database"
	"inventory-service/pkg/logger"
	"inventory-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration (.env handled inside)
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logger.InitLogger(appConfig)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting inventory-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port),
		zap.String("store_backend", appConfig.Inventory.StoreBackend))

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Select the persistence backend
	var engineStore engine.Store
	if appConfig.Inventory.StoreBackend == "memory" {
		engineStore = store.NewMemory()
		log.Info("Using in-memory store, state will not survive restarts")
	} else {
		if err := database.InitDB(appConfig); err != nil {
			log.Fatal("Failed to initialize database", zap.Error(err))
		}
		engineStore = store.NewGormStore(database.GetDB())
		log.Info("Database connection established")
	}

	// Build the engine instance
	ctx := context.Background()
	eng, err := engine.New(ctx, engineStore, log)
	if err != nil {
		log.Fatal("Failed to load inventory engine", zap.Error(err))
	}

	if appConfig.Inventory.Seed {
		seedCatalog(ctx, eng, log)
	}

	h := handler.New(eng, appConfig)

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Product API routes
	e.POST("/api/products", h.CreateProduct)
	e.GET("/api/products", h.ListProducts)
	e.GET("/api/products/:id", h.GetProduct)
	e.DELETE("/api/products/:id", h.DeleteProduct)

	// Inventory API routes
	e.POST("/api/inventory/inbound", h.Inbound)
	e.POST("/api/inventory/outbound", h.Outbound)
	e.GET("/api/inventory/history", h.History)
	e.GET("/api/inventory/low-stock", h.LowStock)

	// Sales and analytics API routes
	e.POST("/api/sales", h.RecordSale)
	e.GET("/api/dashboard", h.Dashboard)
	e.GET("/api/sales-analysis", h.SalesAnalysis)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}

// seedCatalog loads the sample products into an empty catalog.
func seedCatalog(ctx context.Context, eng *engine.Service, log *zap.Logger) {
	if len(eng.ListProducts()) > 0 {
		return
	}
	samples := []struct {
		sku, name     string
		price, amount int64
	}{
		{"TSH001", "ベーシックTシャツ", 2500, 50},
		{"JKT002", "デニムジャケット", 8500, 20},
		{"PTS003", "スキニーパンツ", 4500, 30},
		{"SWT004", "カジュアルスウェット", 3500, 25},
		{"SHO005", "スニーカー", 12000, 15},
	}
	for _, s := range samples {
		if _, err := eng.AddProduct(ctx, s.sku, s.name, s.price, s.amount); err != nil {
			log.Warn("Failed to seed product", zap.String("sku", s.sku), zap.Error(err))
		}
	}
	log.Info("Sample products seeded", zap.Int("count", len(samples)))
}
