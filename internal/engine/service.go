package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"inventory-service/prometheus"

	"go.uber.org/zap"
)

// StoredProduct is a product as loaded from a Store, including whether it was
// soft-deleted.
type StoredProduct struct {
	Product
	Removed bool
}

// Store is the persistence port behind the engine. The in-memory state is
// authoritative; the store is written through on every committed mutation so
// a restart can reload catalog and ledger.
type Store interface {
	// Load returns all products (removed ones included) and all events in
	// append order.
	Load(ctx context.Context) ([]StoredProduct, []Event, error)
	// SaveProduct inserts or updates a product row.
	SaveProduct(ctx context.Context, p Product) error
	// RemoveProduct marks a product row deleted.
	RemoveProduct(ctx context.Context, id int64) error
	// AppendEvent persists an event together with the product's updated
	// quantity, atomically.
	AppendEvent(ctx context.Context, ev Event, p Product) error
}

// Service is the engine facade. One lock serializes mutations so the
// check-then-decrement in outbound and sale paths is indivisible; reads take
// the shared side and always observe a fully committed state.
type Service struct {
	mu      sync.RWMutex
	catalog *Catalog
	ledger  *Ledger
	store   Store
	log     *zap.Logger
	clock   func() time.Time
}

// New builds a Service, loading prior state from the store.
func New(ctx context.Context, store Store, log *zap.Logger) (*Service, error) {
	products, events, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}

	s := &Service{
		catalog: newCatalog(),
		ledger:  newLedger(),
		store:   store,
		log:     log,
		clock:   time.Now,
	}
	s.catalog.restore(products)
	s.ledger.restore(events)

	log.Info("inventory engine loaded",
		zap.Int("products", len(products)),
		zap.Int("events", len(events)))
	return s, nil
}

// AddProduct registers a new SKU. A positive opening quantity is recorded as
// an inbound event so the ledger replay always matches the stored quantity.
func (s *Service) AddProduct(ctx context.Context, sku, name string, unitPrice, quantity int64) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity < 0 {
		return Product{}, fmt.Errorf("%w: quantity must not be negative", ErrInvalidInput)
	}
	now := s.clock()
	p, err := s.catalog.add(sku, name, unitPrice, 0, now)
	if err != nil {
		return Product{}, err
	}
	s.persistProduct(ctx, p)

	if quantity > 0 {
		var ev Event
		p, ev, err = s.ledger.record(s.catalog, EventInbound, p.ID, quantity, 0, now)
		if err != nil {
			return Product{}, err
		}
		s.persistEvent(ctx, ev, p)
	}

	s.log.Info("product added",
		zap.Int64("product_id", p.ID),
		zap.String("sku", p.SKU),
		zap.Int64("quantity", p.Quantity))
	return p, nil
}

// GetProduct returns a product by ID.
func (s *Service) GetProduct(id int64) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.get(id)
}

// ListProducts returns all products in insertion order.
func (s *Service) ListProducts() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.list()
}

// RemoveProduct soft-deletes a product. Its ledger history stays intact; no
// event is generated.
func (s *Service) RemoveProduct(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.catalog.remove(id); err != nil {
		return err
	}
	if err := s.store.RemoveProduct(ctx, id); err != nil {
		prometheus.RecordStoreWriteFailure("remove_product")
		s.log.Error("store remove failed", zap.Int64("product_id", id), zap.Error(err))
	}
	s.log.Info("product removed", zap.Int64("product_id", id))
	return nil
}

// RecordInbound receives stock. It cannot fail on stock level, only on an
// unknown product or non-positive quantity.
func (s *Service) RecordInbound(ctx context.Context, productID, quantity int64) (Product, error) {
	return s.recordMovement(ctx, EventInbound, productID, quantity)
}

// RecordOutbound ships stock out, rejecting any overdraft.
func (s *Service) RecordOutbound(ctx context.Context, productID, quantity int64) (Product, error) {
	return s.recordMovement(ctx, EventOutbound, productID, quantity)
}

// RecordSale decrements stock like an outbound and journals the sale at the
// given unit price, which may differ from the catalog price.
func (s *Service) RecordSale(ctx context.Context, productID, quantity, unitPrice int64) (Product, SaleEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ev, err := s.ledger.record(s.catalog, EventSale, productID, quantity, unitPrice, s.clock())
	if err != nil {
		s.logRejected(EventSale, productID, quantity, err)
		return Product{}, SaleEntry{}, err
	}
	s.persistEvent(ctx, ev, p)

	entry := saleEntry(ev)
	s.log.Info("sale recorded",
		zap.Int64("product_id", productID),
		zap.Int64("quantity", quantity),
		zap.Int64("unit_price", unitPrice),
		zap.Int64("revenue", entry.Revenue()),
		zap.Int64("remaining", p.Quantity))
	return p, entry, nil
}

func (s *Service) recordMovement(ctx context.Context, kind EventKind, productID, quantity int64) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ev, err := s.ledger.record(s.catalog, kind, productID, quantity, 0, s.clock())
	if err != nil {
		s.logRejected(kind, productID, quantity, err)
		return Product{}, err
	}
	s.persistEvent(ctx, ev, p)

	s.log.Info("stock movement recorded",
		zap.String("kind", string(kind)),
		zap.Int64("product_id", productID),
		zap.Int64("quantity", quantity),
		zap.Int64("remaining", p.Quantity))
	return p, nil
}

// History returns ledger events in append order. A productID of 0 means all
// products.
func (s *Service) History(productID int64) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.history(productID)
}

// SalesInRange returns journal entries with start <= date <= end. A zero
// bound is unbounded on that side.
func (s *Service) SalesInRange(start, end time.Time) []SaleEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.salesInRange(start, end)
}

// Dashboard computes the KPI snapshot as of now.
func (s *Service) Dashboard(now time.Time, lowStockThreshold int64) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return dashboardSnapshot(s.catalog, s.ledger, now, lowStockThreshold)
}

// LowStock lists products at or below the threshold, in catalog order.
func (s *Service) LowStock(threshold int64) []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lowStock(s.catalog, threshold)
}

// Analyze aggregates sales over [start, end] inclusive.
func (s *Service) Analyze(start, end time.Time) (Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary, err := periodSummary(s.ledger, start, end)
	if err != nil {
		return Analysis{}, err
	}
	daily, err := dailySeries(s.ledger, start, end)
	if err != nil {
		return Analysis{}, err
	}
	return Analysis{
		Start:      dayOf(start).Format(DateFormat),
		End:        dayOf(end).Format(DateFormat),
		Summary:    summary,
		Daily:      daily,
		PerProduct: perProductBreakdown(s.catalog, s.ledger, start, end),
		Recent:     recentSales(s.catalog, s.ledger, start, end),
	}, nil
}

// persistProduct and persistEvent write through to the store. The in-memory
// commit already happened; a store failure is logged and counted, not rolled
// back, since durability is delegated to the backend.
func (s *Service) persistProduct(ctx context.Context, p Product) {
	if err := s.store.SaveProduct(ctx, p); err != nil {
		prometheus.RecordStoreWriteFailure("save_product")
		s.log.Error("store write failed",
			zap.Int64("product_id", p.ID),
			zap.Error(err))
	}
}

func (s *Service) persistEvent(ctx context.Context, ev Event, p Product) {
	if err := s.store.AppendEvent(ctx, ev, p); err != nil {
		prometheus.RecordStoreWriteFailure("append_event")
		s.log.Error("store append failed",
			zap.Int64("event_id", ev.ID),
			zap.Int64("product_id", p.ID),
			zap.Error(err))
	}
}

func (s *Service) logRejected(kind EventKind, productID, quantity int64, err error) {
	s.log.Warn("stock movement rejected",
		zap.String("kind", string(kind)),
		zap.Int64("product_id", productID),
		zap.Int64("quantity", quantity),
		zap.Error(err))
}
