package engine

import (
	"fmt"
	"time"
)

// EventKind tags a stock-affecting movement.
type EventKind string

const (
	EventInbound  EventKind = "inbound"
	EventOutbound EventKind = "outbound"
	EventSale     EventKind = "sale"
)

// delta returns the signed quantity change a kind applies to stock.
func (k EventKind) delta(quantity int64) int64 {
	if k == EventInbound {
		return quantity
	}
	return -quantity
}

// Event is one immutable entry of the stock ledger. UnitPrice is set only for
// sales and records the price at the time of sale.
type Event struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	Kind      EventKind `json:"kind"`
	Quantity  int64     `json:"quantity"`
	UnitPrice int64     `json:"unit_price"`
	Date      time.Time `json:"date"`
}

// Ledger is the append-only event log. Every quantity change goes through
// record, which commits the catalog delta and the event append together, so
// ledger and catalog never diverge. Not safe for concurrent use on its own;
// the Service serializes access.
type Ledger struct {
	events []Event
	nextID int64
}

func newLedger() *Ledger {
	return &Ledger{nextID: 1}
}

// record applies the movement to the catalog and, only on success, appends
// the event. A failed delta (unknown product, overdraft) leaves both sides
// untouched.
func (l *Ledger) record(cat *Catalog, kind EventKind, productID, quantity, unitPrice int64, now time.Time) (Product, Event, error) {
	if quantity <= 0 {
		return Product{}, Event{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}
	if kind == EventSale && unitPrice < 0 {
		return Product{}, Event{}, fmt.Errorf("%w: unit price must not be negative", ErrInvalidInput)
	}

	p, err := cat.applyDelta(productID, kind.delta(quantity))
	if err != nil {
		return Product{}, Event{}, err
	}

	ev := Event{
		ID:        l.nextID,
		ProductID: productID,
		Kind:      kind,
		Quantity:  quantity,
		Date:      dayOf(now),
	}
	if kind == EventSale {
		ev.UnitPrice = unitPrice
	}
	l.nextID++
	l.events = append(l.events, ev)
	return p, ev, nil
}

// history returns events in append order, optionally filtered by product.
// A productID of 0 means all products. The returned slice is a copy and can
// be iterated independently of later appends.
func (l *Ledger) history(productID int64) []Event {
	out := make([]Event, 0, len(l.events))
	for _, ev := range l.events {
		if productID != 0 && ev.ProductID != productID {
			continue
		}
		out = append(out, ev)
	}
	return out
}

func (l *Ledger) restore(events []Event) {
	l.events = append(l.events, events...)
	for _, ev := range events {
		if ev.ID >= l.nextID {
			l.nextID = ev.ID + 1
		}
	}
}

// dayOf truncates a timestamp to its UTC calendar day, the granularity all
// reporting uses.
func dayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
