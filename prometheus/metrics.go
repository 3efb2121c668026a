package prometheus

import (
	"inventory-service/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Engine operation metrics
	EngineOperationsCounter prometheus.CounterVec

	// Movement rejection metrics
	MovementRejectedCounter prometheus.CounterVec

	// Stock level metrics
	StockLevelGauge prometheus.GaugeVec

	// Sale revenue metrics
	SaleRevenueCounter prometheus.Counter

	// Store write-failure metrics
	StoreWriteFailuresCounter prometheus.CounterVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(cfg *config.Config) {
	// Use metric prefix from configuration
	prefix := cfg.Metrics.Prefix

	// HTTP request metrics
	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP request duration
	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Engine operation metrics
	EngineOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_engine_operations_total",
			Help: "Total number of engine operations",
		},
		[]string{"operation", "outcome"},
	)

	// Movement rejection metrics
	MovementRejectedCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_movements_rejected_total",
			Help: "Total number of rejected stock movements",
		},
		[]string{"kind", "reason"},
	)

	// Stock level metrics
	StockLevelGauge = *promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_stock_level",
			Help: "Current stock quantity per product",
		},
		[]string{"product_id", "sku"},
	)

	// Sale revenue metrics
	SaleRevenueCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_sale_revenue_total",
			Help: "Cumulative revenue of recorded sales",
		},
	)

	// Store write-failure metrics
	StoreWriteFailuresCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_store_write_failures_total",
			Help: "Total number of failed store write-throughs",
		},
		[]string{"operation"},
	)
}

// RecordEngineOperation increments the counter for an engine operation
func RecordEngineOperation(operation, outcome string) {
	EngineOperationsCounter.WithLabelValues(operation, outcome).Inc()
}

// RecordMovementRejected increments the counter for a rejected movement
func RecordMovementRejected(kind, reason string) {
	MovementRejectedCounter.WithLabelValues(kind, reason).Inc()
}

// UpdateStockLevel updates the gauge for a product's stock level
func UpdateStockLevel(productID string, sku string, quantity float64) {
	StockLevelGauge.WithLabelValues(productID, sku).Set(quantity)
}

// RecordSaleRevenue adds a sale's revenue to the cumulative counter
func RecordSaleRevenue(amount float64) {
	SaleRevenueCounter.Add(amount)
}

// RecordStoreWriteFailure increments the counter for a failed store write-through
func RecordStoreWriteFailure(operation string) {
	StoreWriteFailuresCounter.WithLabelValues(operation).Inc()
}
