package engine

import (
	"fmt"
	"time"
)

// Product is a stock-keeping unit tracked by the engine. Quantity is the only
// mutable field and changes exclusively through ledger events.
type Product struct {
	ID        int64     `json:"id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	UnitPrice int64     `json:"price"`
	Quantity  int64     `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`

	removed bool
}

// Catalog owns the product set. It is not safe for concurrent use on its own;
// the Service serializes access.
type Catalog struct {
	products map[int64]*Product
	bySKU    map[string]int64
	order    []int64
	nextID   int64
}

func newCatalog() *Catalog {
	return &Catalog{
		products: make(map[int64]*Product),
		bySKU:    make(map[string]int64),
		nextID:   1,
	}
}

func (c *Catalog) add(sku, name string, unitPrice, quantity int64, now time.Time) (Product, error) {
	if sku == "" || name == "" {
		return Product{}, fmt.Errorf("%w: sku and name are required", ErrInvalidInput)
	}
	if unitPrice <= 0 {
		return Product{}, fmt.Errorf("%w: unit price must be positive", ErrInvalidInput)
	}
	if quantity < 0 {
		return Product{}, fmt.Errorf("%w: quantity must not be negative", ErrInvalidInput)
	}
	if _, exists := c.bySKU[sku]; exists {
		return Product{}, fmt.Errorf("%w: %q", ErrDuplicateSKU, sku)
	}

	p := &Product{
		ID:        c.nextID,
		SKU:       sku,
		Name:      name,
		UnitPrice: unitPrice,
		Quantity:  quantity,
		CreatedAt: now,
	}
	c.nextID++
	c.products[p.ID] = p
	c.bySKU[sku] = p.ID
	c.order = append(c.order, p.ID)
	return *p, nil
}

func (c *Catalog) get(id int64) (Product, error) {
	p, ok := c.products[id]
	if !ok || p.removed {
		return Product{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return *p, nil
}

// lookup resolves a product even after removal, for naming ledger history.
func (c *Catalog) lookup(id int64) (Product, bool) {
	p, ok := c.products[id]
	if !ok {
		return Product{}, false
	}
	return *p, true
}

func (c *Catalog) list() []Product {
	out := make([]Product, 0, len(c.order))
	for _, id := range c.order {
		if p := c.products[id]; !p.removed {
			out = append(out, *p)
		}
	}
	return out
}

func (c *Catalog) remove(id int64) error {
	p, ok := c.products[id]
	if !ok || p.removed {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	p.removed = true
	return nil
}

// applyDelta is the single mutation point for product quantities. Only the
// ledger record path may call it, so a rejected movement leaves no trace.
func (c *Catalog) applyDelta(id, delta int64) (Product, error) {
	p, ok := c.products[id]
	if !ok || p.removed {
		return Product{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if p.Quantity+delta < 0 {
		return Product{}, fmt.Errorf("%w: have %d, requested %d", ErrInsufficientStock, p.Quantity, -delta)
	}
	p.Quantity += delta
	return *p, nil
}

// restore rebuilds catalog state from persisted products, keeping ID
// assignment monotonic past the highest seen ID.
func (c *Catalog) restore(products []StoredProduct) {
	for i := range products {
		p := products[i].Product
		p.removed = products[i].Removed
		c.products[p.ID] = &p
		c.bySKU[p.SKU] = p.ID
		c.order = append(c.order, p.ID)
		if p.ID >= c.nextID {
			c.nextID = p.ID + 1
		}
	}
}
