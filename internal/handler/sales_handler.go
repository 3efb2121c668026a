package handler

import (
	"net/http"
	"strconv"

	"inventory-service/internal/engine"
	"inventory-service/pkg/logger"
	"inventory-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SaleRequest defines the structure for sale registration requests
type SaleRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
	Price     int64 `json:"price"`
}

// saleEntryView is the wire shape of a journal entry, with the day-granular date.
type saleEntryView struct {
	ProductID int64  `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Date      string `json:"date"`
}

// SaleResponse carries the journal entry together with the updated product
type SaleResponse struct {
	Product engine.Product `json:"product"`
	Entry   saleEntryView  `json:"entry"`
	Revenue int64          `json:"revenue"`
}

// RecordSale handles registering a sale through the ledger's guarded
// decrement; there is no path that bypasses the stock check.
func (h *Handler) RecordSale(c echo.Context) error {
	log := logger.FromContext(c)

	var req SaleRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	product, entry, err := h.engine.RecordSale(c.Request().Context(), req.ProductID, req.Quantity, req.Price)
	if err != nil {
		log.Warn("Sale rejected",
			zap.Int64("product_id", req.ProductID),
			zap.Int64("quantity", req.Quantity),
			zap.Error(err))
		prometheus.RecordMovementRejected(string(engine.EventSale), rejectionReason(err))
		return errorJSON(c, err)
	}

	prometheus.RecordEngineOperation(string(engine.EventSale), "ok")
	prometheus.RecordSaleRevenue(float64(entry.Revenue()))
	prometheus.UpdateStockLevel(strconv.FormatInt(product.ID, 10), product.SKU, float64(product.Quantity))
	log.Info("Sale registered successfully",
		zap.Int64("product_id", product.ID),
		zap.Int64("quantity", entry.Quantity),
		zap.Int64("revenue", entry.Revenue()),
		zap.Int64("remaining", product.Quantity))
	return c.JSON(http.StatusCreated, SaleResponse{
		Product: product,
		Entry: saleEntryView{
			ProductID: entry.ProductID,
			Quantity:  entry.Quantity,
			UnitPrice: entry.UnitPrice,
			Date:      entry.Date.Format(engine.DateFormat),
		},
		Revenue: entry.Revenue(),
	})
}
