package engine

import (
	"fmt"
	"time"
)

// DateFormat is the wire format for calendar dates.
const DateFormat = "2006-01-02"

// recentSalesLimit caps the sale history returned with an analysis.
const recentSalesLimit = 50

// DailyRevenue is one point of a revenue time series.
type DailyRevenue struct {
	Date   string `json:"date"`
	Amount int64  `json:"amount"`
}

// Snapshot carries the dashboard KPIs.
type Snapshot struct {
	TotalProducts int            `json:"total_products"`
	TotalStock    int64          `json:"total_stock"`
	WeeklySales   int64          `json:"weekly_sales"`
	LowStockCount int            `json:"low_stock_count"`
	TotalSales    int64          `json:"total_sales"`
	SalesData     []DailyRevenue `json:"sales_data"`
}

// PeriodSummary aggregates sales over a date range.
type PeriodSummary struct {
	TotalSales     int64   `json:"total_sales"`
	TotalItemsSold int64   `json:"total_items_sold"`
	AvgDailySales  float64 `json:"avg_daily_sales"`
}

// ProductTotals is a per-product sales aggregate.
type ProductTotals struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
	Revenue  int64  `json:"revenue"`
}

// RecentSale is one row of the sale history table.
type RecentSale struct {
	Date      string `json:"date"`
	ProductID int64  `json:"product_id"`
	Name      string `json:"product_name"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"price"`
	Total     int64  `json:"total"`
}

// Analysis is the full result of a date-range sales analysis.
type Analysis struct {
	Start      string                  `json:"start"`
	End        string                  `json:"end"`
	Summary    PeriodSummary           `json:"summary"`
	Daily      []DailyRevenue          `json:"daily"`
	PerProduct map[int64]ProductTotals `json:"per_product"`
	Recent     []RecentSale            `json:"recent_sales"`
}

// The aggregations below are pure functions of catalog + ledger contents at
// call time. The Service invokes them under its read lock.

func dashboardSnapshot(cat *Catalog, l *Ledger, now time.Time, threshold int64) Snapshot {
	snap := Snapshot{}

	for _, p := range cat.list() {
		snap.TotalProducts++
		snap.TotalStock += p.Quantity
		if p.Quantity <= threshold {
			snap.LowStockCount++
		}
	}

	weekStart := dayOf(now).AddDate(0, 0, -7)
	for _, e := range l.salesInRange(time.Time{}, time.Time{}) {
		snap.TotalSales += e.Revenue()
		if !e.Date.Before(weekStart) {
			snap.WeeklySales += e.Revenue()
		}
	}

	// The dashboard chart covers the same inclusive window as WeeklySales.
	snap.SalesData, _ = dailySeries(l, weekStart, dayOf(now))
	return snap
}

func lowStock(cat *Catalog, threshold int64) []Product {
	var out []Product
	for _, p := range cat.list() {
		if p.Quantity <= threshold {
			out = append(out, p)
		}
	}
	return out
}

// dailySeries emits one revenue value per calendar day in [start, end],
// inclusive on both ends. Days without sales contribute 0 rather than being
// omitted.
func dailySeries(l *Ledger, start, end time.Time) ([]DailyRevenue, error) {
	start, end = dayOf(start), dayOf(end)
	if start.After(end) {
		return nil, fmt.Errorf("%w: start %s is after end %s", ErrInvalidRange,
			start.Format(DateFormat), end.Format(DateFormat))
	}

	byDay := make(map[string]int64)
	for _, e := range l.salesInRange(start, end) {
		byDay[e.Date.Format(DateFormat)] += e.Revenue()
	}

	var series []DailyRevenue
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		key := day.Format(DateFormat)
		series = append(series, DailyRevenue{Date: key, Amount: byDay[key]})
	}
	return series, nil
}

func periodSummary(l *Ledger, start, end time.Time) (PeriodSummary, error) {
	start, end = dayOf(start), dayOf(end)
	if start.After(end) {
		return PeriodSummary{}, fmt.Errorf("%w: start %s is after end %s", ErrInvalidRange,
			start.Format(DateFormat), end.Format(DateFormat))
	}

	var sum PeriodSummary
	for _, e := range l.salesInRange(start, end) {
		sum.TotalSales += e.Revenue()
		sum.TotalItemsSold += e.Quantity
	}
	days := end.Sub(start).Hours()/24 + 1
	sum.AvgDailySales = float64(sum.TotalSales) / days
	return sum, nil
}

// perProductBreakdown omits products without sales in range, unlike
// dailySeries which never omits a day.
func perProductBreakdown(cat *Catalog, l *Ledger, start, end time.Time) map[int64]ProductTotals {
	out := make(map[int64]ProductTotals)
	for _, e := range l.salesInRange(dayOf(start), dayOf(end)) {
		totals := out[e.ProductID]
		if totals.Name == "" {
			if p, ok := cat.lookup(e.ProductID); ok {
				totals.Name = p.Name
			}
		}
		totals.Quantity += e.Quantity
		totals.Revenue += e.Revenue()
		out[e.ProductID] = totals
	}
	return out
}

// recentSales lists sale rows newest first, capped at recentSalesLimit.
func recentSales(cat *Catalog, l *Ledger, start, end time.Time) []RecentSale {
	entries := l.salesInRange(dayOf(start), dayOf(end))
	var out []RecentSale
	for i := len(entries) - 1; i >= 0 && len(out) < recentSalesLimit; i-- {
		e := entries[i]
		row := RecentSale{
			Date:      e.Date.Format(DateFormat),
			ProductID: e.ProductID,
			Quantity:  e.Quantity,
			UnitPrice: e.UnitPrice,
			Total:     e.Revenue(),
		}
		if p, ok := cat.lookup(e.ProductID); ok {
			row.Name = p.Name
		}
		out = append(out, row)
	}
	return out
}
