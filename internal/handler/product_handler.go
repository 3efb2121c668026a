package handler

import (
	"net/http"
	"strconv"

	"inventory-service/pkg/logger"
	"inventory-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ProductRequest defines the structure for product creation requests
type ProductRequest struct {
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
}

// CreateProduct handles registering a new product
func (h *Handler) CreateProduct(c echo.Context) error {
	log := logger.FromContext(c)

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	log.Info("Product creation request",
		zap.String("sku", req.SKU),
		zap.String("name", req.Name),
		zap.Int64("price", req.Price),
		zap.Int64("quantity", req.Quantity))

	product, err := h.engine.AddProduct(c.Request().Context(), req.SKU, req.Name, req.Price, req.Quantity)
	if err != nil {
		log.Warn("Product creation rejected", zap.String("sku", req.SKU), zap.Error(err))
		prometheus.RecordEngineOperation("add_product", "rejected")
		return errorJSON(c, err)
	}

	prometheus.RecordEngineOperation("add_product", "ok")
	prometheus.UpdateStockLevel(strconv.FormatInt(product.ID, 10), product.SKU, float64(product.Quantity))
	log.Info("Product created successfully",
		zap.Int64("product_id", product.ID),
		zap.String("sku", product.SKU))
	return c.JSON(http.StatusCreated, product)
}

// ListProducts handles retrieving all products in catalog order
func (h *Handler) ListProducts(c echo.Context) error {
	log := logger.FromContext(c)

	products := h.engine.ListProducts()

	log.Info("Products retrieved successfully", zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, products)
}

// GetProduct handles retrieving a single product by ID
func (h *Handler) GetProduct(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		log.Warn("Invalid product ID", zap.String("id", c.Param("id")))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid product ID",
		})
	}

	product, err := h.engine.GetProduct(id)
	if err != nil {
		log.Warn("Product not found", zap.Int64("product_id", id))
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, product)
}

// DeleteProduct handles removing a product (soft delete, history preserved)
func (h *Handler) DeleteProduct(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		log.Warn("Invalid product ID", zap.String("id", c.Param("id")))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid product ID",
		})
	}

	if err := h.engine.RemoveProduct(c.Request().Context(), id); err != nil {
		log.Warn("Product not found for deletion", zap.Int64("product_id", id))
		prometheus.RecordEngineOperation("remove_product", "rejected")
		return errorJSON(c, err)
	}

	prometheus.RecordEngineOperation("remove_product", "ok")
	log.Info("Product deleted successfully", zap.Int64("product_id", id))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Product deleted successfully",
	})
}
