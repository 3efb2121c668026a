package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"inventory-service/internal/engine"
	"inventory-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// defaultAnalysisPeriodDays is used when neither a range nor a period is given.
const defaultAnalysisPeriodDays = 30

// Dashboard handles the KPI snapshot for the dashboard view
func (h *Handler) Dashboard(c echo.Context) error {
	log := logger.FromContext(c)

	threshold := h.cfg.Inventory.LowStockThreshold
	if raw := c.QueryParam("threshold"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			log.Warn("Invalid threshold parameter", zap.String("value", raw))
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "Invalid threshold parameter",
			})
		}
		threshold = v
	}

	snapshot := h.engine.Dashboard(time.Now(), threshold)

	log.Info("Dashboard snapshot computed",
		zap.Int("total_products", snapshot.TotalProducts),
		zap.Int64("total_stock", snapshot.TotalStock),
		zap.Int("low_stock_count", snapshot.LowStockCount))
	return c.JSON(http.StatusOK, snapshot)
}

// LowStock handles listing products at or below the replenishment threshold
func (h *Handler) LowStock(c echo.Context) error {
	log := logger.FromContext(c)

	threshold := h.cfg.Inventory.LowStockThreshold
	if raw := c.QueryParam("threshold"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			log.Warn("Invalid threshold parameter", zap.String("value", raw))
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "Invalid threshold parameter",
			})
		}
		threshold = v
	}

	products := h.engine.LowStock(threshold)

	log.Info("Low stock list computed",
		zap.Int64("threshold", threshold),
		zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, products)
}

// SalesAnalysis handles date-range sales analytics. The range comes either
// from explicit start/end dates or from a period-in-days shorthand ending
// today.
func (h *Handler) SalesAnalysis(c echo.Context) error {
	log := logger.FromContext(c)

	start, end, err := analysisRange(c)
	if err != nil {
		log.Warn("Invalid analysis range", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	}

	analysis, err := h.engine.Analyze(start, end)
	if err != nil {
		log.Warn("Sales analysis rejected", zap.Error(err))
		return errorJSON(c, err)
	}

	log.Info("Sales analysis computed",
		zap.String("start", analysis.Start),
		zap.String("end", analysis.End),
		zap.Int64("total_sales", analysis.Summary.TotalSales))
	return c.JSON(http.StatusOK, analysis)
}

func analysisRange(c echo.Context) (time.Time, time.Time, error) {
	rawStart := c.QueryParam("start")
	rawEnd := c.QueryParam("end")

	if rawStart != "" || rawEnd != "" {
		start, err := time.Parse(engine.DateFormat, rawStart)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q, expected YYYY-MM-DD", rawStart)
		}
		end, err := time.Parse(engine.DateFormat, rawEnd)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q, expected YYYY-MM-DD", rawEnd)
		}
		return start, end, nil
	}

	days := defaultAnalysisPeriodDays
	if raw := c.QueryParam("period"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid period %q, expected a positive day count", raw)
		}
		days = v
	}
	end := time.Now()
	start := end.AddDate(0, 0, -(days - 1))
	return start, end, nil
}
