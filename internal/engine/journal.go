package engine

import "time"

// SaleEntry is the sales-journal projection of a sale event. It has no
// storage of its own; it is derived from the ledger on demand.
type SaleEntry struct {
	ProductID int64     `json:"product_id"`
	Quantity  int64     `json:"quantity"`
	UnitPrice int64     `json:"unit_price"`
	Date      time.Time `json:"date"`
}

// Revenue is the integer amount this entry contributed.
func (e SaleEntry) Revenue() int64 {
	return e.Quantity * e.UnitPrice
}

func saleEntry(ev Event) SaleEntry {
	return SaleEntry{
		ProductID: ev.ProductID,
		Quantity:  ev.Quantity,
		UnitPrice: ev.UnitPrice,
		Date:      ev.Date,
	}
}

// salesInRange filters the ledger to sale events with start <= date <= end,
// both bounds inclusive. A zero start or end leaves that side unbounded.
func (l *Ledger) salesInRange(start, end time.Time) []SaleEntry {
	var out []SaleEntry
	for _, ev := range l.events {
		if ev.Kind != EventSale {
			continue
		}
		if !start.IsZero() && ev.Date.Before(start) {
			continue
		}
		if !end.IsZero() && ev.Date.After(end) {
			continue
		}
		out = append(out, saleEntry(ev))
	}
	return out
}
