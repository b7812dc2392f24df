package order

import (
	"context"
	"sync"
	"time"
)

// Repository defines the interface for order data persistence.
type Repository interface {
	// Get retrieves an order by ID.
	Get(ctx context.Context, id string) (*Order, error)

	// List returns all orders.
	List(ctx context.Context) ([]Order, error)

	// ListByUser returns all orders placed by a user.
	ListByUser(ctx context.Context, userID string) ([]Order, error)

	// ListByDateRange returns orders with order date in [start, end],
	// both bounds inclusive, regardless of status or user.
	ListByDateRange(ctx context.Context, start, end time.Time) ([]Order, error)

	// Create inserts a new order.
	Create(ctx context.Context, order *Order) error

	// Update updates an existing order.
	Update(ctx context.Context, order *Order) error
}

// InMemoryRepository is an in-memory implementation of Repository.
// Intended for tests; production uses the PostgreSQL implementation.
type InMemoryRepository struct {
	mu     sync.RWMutex
	orders map[string]*Order
	order  []string
}

// NewInMemoryRepository creates a new in-memory order repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{orders: make(map[string]*Order)}
}

// Get retrieves an order by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return copyOrder(o), nil
}

// List returns all orders in insertion order.
func (r *InMemoryRepository) List(_ context.Context) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]Order, 0, len(r.order))
	for _, id := range r.order {
		orders = append(orders, *copyOrder(r.orders[id]))
	}
	return orders, nil
}

// ListByUser returns all orders placed by a user in insertion order.
func (r *InMemoryRepository) ListByUser(_ context.Context, userID string) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []Order
	for _, id := range r.order {
		if r.orders[id].UserID == userID {
			orders = append(orders, *copyOrder(r.orders[id]))
		}
	}
	return orders, nil
}

// ListByDateRange returns orders with order date in [start, end] inclusive.
func (r *InMemoryRepository) ListByDateRange(_ context.Context, start, end time.Time) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []Order
	for _, id := range r.order {
		o := r.orders[id]
		if o.OrderDate.Before(start) || o.OrderDate.After(end) {
			continue
		}
		orders = append(orders, *copyOrder(o))
	}
	return orders, nil
}

// Create inserts a new order.
func (r *InMemoryRepository) Create(_ context.Context, order *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.orders[order.ID] = copyOrder(order)
	r.order = append(r.order, order.ID)
	return nil
}

// Update updates an existing order.
func (r *InMemoryRepository) Update(_ context.Context, order *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.ID]; !ok {
		return ErrOrderNotFound
	}
	r.orders[order.ID] = copyOrder(order)
	return nil
}

// copyOrder creates a deep copy of an order.
func copyOrder(o *Order) *Order {
	orderCopy := *o
	orderCopy.Items = make([]LineItem, len(o.Items))
	for i, item := range o.Items {
		itemCopy := item
		if item.AboBox != nil {
			box := *item.AboBox
			itemCopy.AboBox = &box
		}
		if item.Product != nil {
			product := *item.Product
			itemCopy.Product = &product
		}
		orderCopy.Items[i] = itemCopy
	}
	return &orderCopy
}
