package store

import (
	"context"
	"sync"

	"inventory-service/internal/engine"
)

// Memory keeps engine state in process memory. It backs tests and runs that
// do not need a database, where losing state on restart is acceptable.
type Memory struct {
	mu       sync.Mutex
	products map[int64]engine.StoredProduct
	order    []int64
	events   []engine.Event
}

func NewMemory() *Memory {
	return &Memory{products: make(map[int64]engine.StoredProduct)}
}

func (m *Memory) Load(ctx context.Context) ([]engine.StoredProduct, []engine.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	products := make([]engine.StoredProduct, 0, len(m.order))
	for _, id := range m.order {
		products = append(products, m.products[id])
	}
	events := make([]engine.Event, len(m.events))
	copy(events, m.events)
	return products, events, nil
}

func (m *Memory) SaveProduct(ctx context.Context, p engine.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.products[p.ID]; !exists {
		m.order = append(m.order, p.ID)
	}
	m.products[p.ID] = engine.StoredProduct{Product: p}
	return nil
}

func (m *Memory) RemoveProduct(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sp, exists := m.products[id]; exists {
		sp.Removed = true
		m.products[id] = sp
	}
	return nil
}

func (m *Memory) AppendEvent(ctx context.Context, ev engine.Event, p engine.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, ev)
	if sp, exists := m.products[p.ID]; exists {
		sp.Quantity = p.Quantity
		m.products[p.ID] = sp
	}
	return nil
}
