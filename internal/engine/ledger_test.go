package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestRecordSale_RevenueAndDecrement(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.AddProduct(ctx, "SKU1", "Widget", 100, 15)
	if err != nil {
		t.Fatalf("AddProduct failed: %v", err)
	}

	updated, entry, err := svc.RecordSale(ctx, p.ID, 3, 200)
	if err != nil {
		t.Fatalf("RecordSale failed: %v", err)
	}
	if updated.Quantity != 12 {
		t.Errorf("expected quantity 12, got %d", updated.Quantity)
	}
	if entry.Revenue() != 600 {
		t.Errorf("expected revenue 600, got %d", entry.Revenue())
	}
	if entry.UnitPrice != 200 {
		t.Errorf("expected sale price 200 independent of catalog price, got %d", entry.UnitPrice)
	}

	entries := svc.SalesInRange(entry.Date, entry.Date)
	if len(entries) != 1 {
		t.Fatalf("expected 1 journal entry, got %d", len(entries))
	}
	if entries[0].Revenue() != 600 {
		t.Errorf("expected journal revenue 600, got %d", entries[0].Revenue())
	}
}

func TestRecordSale_InsufficientStock(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.AddProduct(ctx, "SKU1", "Widget", 100, 2)
	if err != nil {
		t.Fatalf("AddProduct failed: %v", err)
	}

	before := len(svc.History(p.ID))
	_, _, err = svc.RecordSale(ctx, p.ID, 3, 200)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got: %v", err)
	}

	// No event is recorded for a rejected sale.
	if after := len(svc.History(p.ID)); after != before {
		t.Errorf("expected %d events, got %d", before, after)
	}
	got, _ := svc.GetProduct(p.ID)
	if got.Quantity != 2 {
		t.Errorf("expected quantity unchanged at 2, got %d", got.Quantity)
	}
}

func TestRecordMovement_InvalidQuantity(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.AddProduct(ctx, "SKU1", "Widget", 100, 5)
	if err != nil {
		t.Fatalf("AddProduct failed: %v", err)
	}

	if _, err := svc.RecordInbound(ctx, p.ID, 0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("inbound 0: expected ErrInvalidInput, got: %v", err)
	}
	if _, err := svc.RecordOutbound(ctx, p.ID, -3); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("outbound -3: expected ErrInvalidInput, got: %v", err)
	}
	if _, _, err := svc.RecordSale(ctx, p.ID, 1, -1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("sale price -1: expected ErrInvalidInput, got: %v", err)
	}
	if _, err := svc.RecordInbound(ctx, 99, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown product: expected ErrNotFound, got: %v", err)
	}
}

func TestHistory_FilterAndRestartable(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, _ := svc.AddProduct(ctx, "SKU-A", "A", 100, 10)
	b, _ := svc.AddProduct(ctx, "SKU-B", "B", 100, 10)

	svc.RecordOutbound(ctx, a.ID, 1)
	svc.RecordInbound(ctx, b.ID, 2)
	svc.RecordSale(ctx, a.ID, 1, 100)

	all := svc.History(0)
	if len(all) != 5 { // two opening inbounds plus three movements
		t.Fatalf("expected 5 events, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].ID <= all[i-1].ID {
			t.Errorf("event IDs not increasing: %d after %d", all[i].ID, all[i-1].ID)
		}
	}

	forA := svc.History(a.ID)
	if len(forA) != 3 {
		t.Fatalf("expected 3 events for product A, got %d", len(forA))
	}
	for _, ev := range forA {
		if ev.ProductID != a.ID {
			t.Errorf("filtered history contains product %d", ev.ProductID)
		}
	}

	// Re-iterable: a second call yields the same sequence.
	again := svc.History(a.ID)
	if len(again) != len(forA) {
		t.Fatalf("history not restartable: %d vs %d", len(again), len(forA))
	}
	for i := range forA {
		if forA[i] != again[i] {
			t.Errorf("history differs at %d: %+v vs %+v", i, forA[i], again[i])
		}
	}
}

// Replaying the signed deltas of a product's events from zero must never go
// negative and must end at the product's current quantity.
func TestLedgerReplay_Invariant(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.AddProduct(ctx, "SKU1", "Widget", 100, 10)
	if err != nil {
		t.Fatalf("AddProduct failed: %v", err)
	}

	svc.RecordOutbound(ctx, p.ID, 4)
	svc.RecordSale(ctx, p.ID, 2, 150)
	svc.RecordOutbound(ctx, p.ID, 10) // rejected, leaves no event
	svc.RecordInbound(ctx, p.ID, 7)
	svc.RecordSale(ctx, p.ID, 11, 150)
	svc.RecordSale(ctx, p.ID, 1, 150) // rejected, stock is 0 at this point
	svc.RecordInbound(ctx, p.ID, 3)

	var sum int64
	for _, ev := range svc.History(p.ID) {
		switch ev.Kind {
		case EventInbound:
			sum += ev.Quantity
		case EventOutbound, EventSale:
			sum -= ev.Quantity
		}
		if sum < 0 {
			t.Fatalf("replay went negative at event %d", ev.ID)
		}
	}

	got, _ := svc.GetProduct(p.ID)
	if sum != got.Quantity {
		t.Errorf("replay sum %d does not match quantity %d", sum, got.Quantity)
	}
}

func TestConcurrentOutbound_NoOverdraft(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.AddProduct(ctx, "SKU1", "Widget", 100, 5)
	if err != nil {
		t.Fatalf("AddProduct failed: %v", err)
	}

	// Two competing requests for 3 and 4 units against 5 in stock: exactly
	// one fits.
	var successCount, failCount atomic.Int32
	var wg sync.WaitGroup
	for _, quantity := range []int64{3, 4} {
		wg.Add(1)
		go func(q int64) {
			defer wg.Done()
			if _, err := svc.RecordOutbound(ctx, p.ID, q); err == nil {
				successCount.Add(1)
			} else if errors.Is(err, ErrInsufficientStock) {
				failCount.Add(1)
			}
		}(quantity)
	}
	wg.Wait()

	if successCount.Load() != 1 || failCount.Load() != 1 {
		t.Errorf("expected 1 success and 1 rejection, got %d and %d",
			successCount.Load(), failCount.Load())
	}
	got, _ := svc.GetProduct(p.ID)
	if got.Quantity < 0 {
		t.Fatalf("stock went negative: %d", got.Quantity)
	}
	if got.Quantity != 2 && got.Quantity != 1 {
		t.Errorf("expected quantity 2 or 1 depending on arrival order, got %d", got.Quantity)
	}
}

func TestConcurrentSales_ExactlyStockSucceed(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	initialStock := int64(20)
	totalRequests := 50

	p, err := svc.AddProduct(ctx, "SKU1", "Widget", 100, initialStock)
	if err != nil {
		t.Fatalf("AddProduct failed: %v", err)
	}

	var successCount atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := svc.RecordSale(ctx, p.ID, 1, 100); err == nil {
				successCount.Add(1)
			}
		}()
	}
	wg.Wait()

	if successCount.Load() != int32(initialStock) {
		t.Errorf("expected %d successes, got %d", initialStock, successCount.Load())
	}
	got, _ := svc.GetProduct(p.ID)
	if got.Quantity != 0 {
		t.Errorf("expected quantity 0, got %d", got.Quantity)
	}
	// One opening inbound plus one event per successful sale.
	if events := svc.History(p.ID); len(events) != int(initialStock)+1 {
		t.Errorf("expected %d events, got %d", initialStock+1, len(events))
	}
}
