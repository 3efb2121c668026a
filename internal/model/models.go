package model

import (
	"time"

	"gorm.io/gorm"
)

// Product is the persisted catalog row. IDs are assigned by the engine, not
// by the database, so restarts keep the monotonic counter stable.
type Product struct {
	ID        int64          `json:"id" gorm:"primarykey"`
	SKU       string         `json:"sku" gorm:"type:varchar(100);uniqueIndex;not null"`
	Name      string         `json:"name" gorm:"type:varchar(255);not null"`
	UnitPrice int64          `json:"price" gorm:"not null"`
	Quantity  int64          `json:"quantity" gorm:"not null;default:0"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// StockEvent is one persisted ledger entry. Rows are append-only; nothing
// updates or deletes them.
type StockEvent struct {
	ID         int64     `json:"id" gorm:"primarykey"`
	ProductID  int64     `json:"product_id" gorm:"index;not null"`
	Kind       string    `json:"kind" gorm:"type:varchar(16);not null"`
	Quantity   int64     `json:"quantity" gorm:"not null"`
	UnitPrice  int64     `json:"unit_price"`
	OccurredOn time.Time `json:"occurred_on" gorm:"index;not null"`
	CreatedAt  time.Time `json:"created_at"`
}
