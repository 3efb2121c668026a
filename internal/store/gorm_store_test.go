package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"inventory-service/internal/engine"
	"inventory-service/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func getPostgresDB(t *testing.T) *gorm.DB {
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5432 user=postgres password=postgres dbname=inventory_test sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Skipf("Postgres not available: %v", err)
	}
	if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
		t.Skipf("Postgres not available: %v", err)
	}

	if err := db.AutoMigrate(&model.Product{}, &model.StockEvent{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

func TestGormStore_SaveLoad(t *testing.T) {
	db := getPostgresDB(t)
	ctx := context.Background()
	s := NewGormStore(db)

	// Cleanup old test rows
	db.Exec(`DELETE FROM stock_events WHERE product_id IN (SELECT id FROM products WHERE sku LIKE 'test-%')`)
	db.Unscoped().Where("sku LIKE 'test-%'").Delete(&model.Product{})

	sku := fmt.Sprintf("test-%d", time.Now().UnixNano())
	p := engine.Product{ID: time.Now().UnixNano(), SKU: sku, Name: "Test Widget", UnitPrice: 100, Quantity: 10, CreatedAt: time.Now()}
	if err := s.SaveProduct(ctx, p); err != nil {
		t.Fatalf("SaveProduct failed: %v", err)
	}

	ev := engine.Event{ID: p.ID, ProductID: p.ID, Kind: engine.EventSale, Quantity: 3, UnitPrice: 200, Date: time.Now().UTC().Truncate(24 * time.Hour)}
	p.Quantity = 7
	if err := s.AppendEvent(ctx, ev, p); err != nil {
		t.Fatalf("AppendEvent failed: %v", err)
	}

	products, events, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	var found *engine.StoredProduct
	for i := range products {
		if products[i].SKU == sku {
			found = &products[i]
		}
	}
	if found == nil {
		t.Fatal("saved product not loaded")
	}
	if found.Quantity != 7 {
		t.Errorf("expected quantity 7 after append, got %d", found.Quantity)
	}

	var foundEvent bool
	for _, e := range events {
		if e.ProductID == p.ID && e.Kind == engine.EventSale && e.UnitPrice == 200 {
			foundEvent = true
		}
	}
	if !foundEvent {
		t.Error("appended event not loaded")
	}

	// Cleanup
	db.Exec(`DELETE FROM stock_events WHERE product_id = ?`, p.ID)
	db.Unscoped().Delete(&model.Product{}, p.ID)
}

func TestGormStore_RemoveKeepsRow(t *testing.T) {
	db := getPostgresDB(t)
	ctx := context.Background()
	s := NewGormStore(db)

	sku := fmt.Sprintf("test-rm-%d", time.Now().UnixNano())
	p := engine.Product{ID: time.Now().UnixNano(), SKU: sku, Name: "Removable", UnitPrice: 100, Quantity: 1, CreatedAt: time.Now()}
	if err := s.SaveProduct(ctx, p); err != nil {
		t.Fatalf("SaveProduct failed: %v", err)
	}
	if err := s.RemoveProduct(ctx, p.ID); err != nil {
		t.Fatalf("RemoveProduct failed: %v", err)
	}

	products, _, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	for _, sp := range products {
		if sp.ID == p.ID {
			if !sp.Removed {
				t.Error("expected removed flag on soft-deleted product")
			}
			db.Unscoped().Delete(&model.Product{}, p.ID)
			return
		}
	}
	t.Error("soft-deleted product no longer loadable")
}
