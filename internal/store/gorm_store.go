package store

import (
	"context"
	"fmt"

	"inventory-service/internal/engine"
	"inventory-service/internal/model"

	"gorm.io/gorm"
)

// GormStore persists engine state to a relational database through gorm.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Load(ctx context.Context) ([]engine.StoredProduct, []engine.Event, error) {
	var rows []model.Product
	if err := s.db.WithContext(ctx).Unscoped().Order("id").Find(&rows).Error; err != nil {
		return nil, nil, fmt.Errorf("load products: %w", err)
	}
	products := make([]engine.StoredProduct, 0, len(rows))
	for _, r := range rows {
		products = append(products, engine.StoredProduct{
			Product: engine.Product{
				ID:        r.ID,
				SKU:       r.SKU,
				Name:      r.Name,
				UnitPrice: r.UnitPrice,
				Quantity:  r.Quantity,
				CreatedAt: r.CreatedAt,
			},
			Removed: r.DeletedAt.Valid,
		})
	}

	var eventRows []model.StockEvent
	if err := s.db.WithContext(ctx).Order("id").Find(&eventRows).Error; err != nil {
		return nil, nil, fmt.Errorf("load events: %w", err)
	}
	events := make([]engine.Event, 0, len(eventRows))
	for _, r := range eventRows {
		events = append(events, engine.Event{
			ID:        r.ID,
			ProductID: r.ProductID,
			Kind:      engine.EventKind(r.Kind),
			Quantity:  r.Quantity,
			UnitPrice: r.UnitPrice,
			Date:      r.OccurredOn,
		})
	}
	return products, events, nil
}

func (s *GormStore) SaveProduct(ctx context.Context, p engine.Product) error {
	row := productRow(p)
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("save product %d: %w", p.ID, err)
	}
	return nil
}

func (s *GormStore) RemoveProduct(ctx context.Context, id int64) error {
	if err := s.db.WithContext(ctx).Delete(&model.Product{}, id).Error; err != nil {
		return fmt.Errorf("remove product %d: %w", id, err)
	}
	return nil
}

// AppendEvent writes the event row and the product's new quantity in one
// transaction, mirroring the engine's all-or-nothing commit.
func (s *GormStore) AppendEvent(ctx context.Context, ev engine.Event, p engine.Product) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := model.StockEvent{
			ID:         ev.ID,
			ProductID:  ev.ProductID,
			Kind:       string(ev.Kind),
			Quantity:   ev.Quantity,
			UnitPrice:  ev.UnitPrice,
			OccurredOn: ev.Date,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return tx.Model(&model.Product{}).Where("id = ?", p.ID).
			Update("quantity", p.Quantity).Error
	})
	if err != nil {
		return fmt.Errorf("append event %d: %w", ev.ID, err)
	}
	return nil
}

func productRow(p engine.Product) model.Product {
	return model.Product{
		ID:        p.ID,
		SKU:       p.SKU,
		Name:      p.Name,
		UnitPrice: p.UnitPrice,
		Quantity:  p.Quantity,
		CreatedAt: p.CreatedAt,
	}
}
