package handler

import (
	"errors"
	"net/http"
	"strconv"

	"inventory-service/internal/engine"
	"inventory-service/pkg/logger"
	"inventory-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// MovementRequest defines the structure for inbound/outbound requests
type MovementRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// Inbound handles receiving stock for a product
func (h *Handler) Inbound(c echo.Context) error {
	return h.movement(c, engine.EventInbound)
}

// Outbound handles shipping stock out of a product
func (h *Handler) Outbound(c echo.Context) error {
	return h.movement(c, engine.EventOutbound)
}

func (h *Handler) movement(c echo.Context, kind engine.EventKind) error {
	log := logger.FromContext(c)

	var req MovementRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	var (
		product engine.Product
		err     error
	)
	if kind == engine.EventInbound {
		product, err = h.engine.RecordInbound(c.Request().Context(), req.ProductID, req.Quantity)
	} else {
		product, err = h.engine.RecordOutbound(c.Request().Context(), req.ProductID, req.Quantity)
	}
	if err != nil {
		log.Warn("Stock movement rejected",
			zap.String("kind", string(kind)),
			zap.Int64("product_id", req.ProductID),
			zap.Int64("quantity", req.Quantity),
			zap.Error(err))
		prometheus.RecordMovementRejected(string(kind), rejectionReason(err))
		return errorJSON(c, err)
	}

	prometheus.RecordEngineOperation(string(kind), "ok")
	prometheus.UpdateStockLevel(strconv.FormatInt(product.ID, 10), product.SKU, float64(product.Quantity))
	log.Info("Stock movement completed",
		zap.String("kind", string(kind)),
		zap.Int64("product_id", product.ID),
		zap.Int64("quantity", req.Quantity),
		zap.Int64("remaining", product.Quantity))
	return c.JSON(http.StatusOK, product)
}

// eventView is the wire shape of a ledger event, with the day-granular date.
// UnitPrice renders for sales only, so a free sale still carries its zero
// price instead of looking like a plain movement.
type eventView struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Kind      string `json:"kind"`
	Quantity  int64  `json:"quantity"`
	UnitPrice *int64 `json:"unit_price,omitempty"`
	Date      string `json:"date"`
}

// History handles retrieving ledger events, optionally for one product
func (h *Handler) History(c echo.Context) error {
	log := logger.FromContext(c)

	var productID int64
	if raw := c.QueryParam("product_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			log.Warn("Invalid product_id parameter", zap.String("value", raw))
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "Invalid product_id parameter",
			})
		}
		productID = id
	}

	events := h.engine.History(productID)
	views := make([]eventView, 0, len(events))
	for _, ev := range events {
		v := eventView{
			ID:        ev.ID,
			ProductID: ev.ProductID,
			Kind:      string(ev.Kind),
			Quantity:  ev.Quantity,
			Date:      ev.Date.Format(engine.DateFormat),
		}
		if ev.Kind == engine.EventSale {
			price := ev.UnitPrice
			v.UnitPrice = &price
		}
		views = append(views, v)
	}

	log.Info("Ledger history retrieved", zap.Int("count", len(views)))
	return c.JSON(http.StatusOK, views)
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, engine.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, engine.ErrNotFound):
		return "not_found"
	default:
		return "invalid_input"
	}
}
