package catalog

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
)

// Repository errors.
var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrAboBoxNotFound   = errors.New("abo box not found")
	ErrSupplierNotFound = errors.New("supplier not found")
	ErrProductExists    = errors.New("product with this name already exists")
)

// Repository defines the interface for catalog data persistence.
type Repository interface {
	// ListProducts returns all products in catalog order.
	ListProducts(ctx context.Context) ([]Product, error)

	// GetProduct retrieves a product by ID.
	GetProduct(ctx context.Context, id string) (*Product, error)

	// GetProductByName retrieves a product by its exact name.
	GetProductByName(ctx context.Context, name string) (*Product, error)

	// CreateProduct inserts a new product.
	CreateProduct(ctx context.Context, product *Product) error

	// UpdateProductStock sets the stock level of a product.
	UpdateProductStock(ctx context.Context, id string, stockLevel int) error

	// AdjustProductStock atomically adds delta (which may be negative) to
	// a product's stock level and returns the new level. Stock never goes
	// below zero.
	AdjustProductStock(ctx context.Context, id string, delta int) (int, error)

	// ListProductsBySupplier returns all products owned by a supplier.
	ListProductsBySupplier(ctx context.Context, supplierID string) ([]Product, error)

	// ListCategories returns all categories.
	ListCategories(ctx context.Context) ([]Category, error)

	// GetCategory retrieves a category by ID.
	GetCategory(ctx context.Context, id string) (*Category, error)

	// ListAboBoxes returns all abo boxes in catalog order.
	ListAboBoxes(ctx context.Context) ([]AboBox, error)

	// GetAboBox retrieves an abo box by ID.
	GetAboBox(ctx context.Context, id string) (*AboBox, error)

	// ListSuppliers returns all suppliers.
	ListSuppliers(ctx context.Context) ([]Supplier, error)

	// GetSupplier retrieves a supplier by ID.
	GetSupplier(ctx context.Context, id string) (*Supplier, error)
}

// InMemoryRepository is an in-memory implementation of Repository.
// Intended for tests; production uses the PostgreSQL implementation.
// Insertion order is preserved so list calls return stable catalog order.
type InMemoryRepository struct {
	mu sync.RWMutex

	products     map[string]*Product
	productOrder []string

	categories map[string]*Category

	aboBoxes     map[string]*AboBox
	aboBoxOrder  []string

	suppliers map[string]*Supplier
}

// NewInMemoryRepository creates a new in-memory catalog repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		products:   make(map[string]*Product),
		categories: make(map[string]*Category),
		aboBoxes:   make(map[string]*AboBox),
		suppliers:  make(map[string]*Supplier),
	}
}

// ListProducts returns all products in insertion order.
func (r *InMemoryRepository) ListProducts(_ context.Context) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]Product, 0, len(r.productOrder))
	for _, id := range r.productOrder {
		products = append(products, copyProduct(r.products[id]))
	}
	return products, nil
}

// GetProduct retrieves a product by ID.
func (r *InMemoryRepository) GetProduct(_ context.Context, id string) (*Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	p := copyProduct(product)
	return &p, nil
}

// GetProductByName retrieves a product by exact name match.
func (r *InMemoryRepository) GetProductByName(_ context.Context, name string) (*Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.productOrder {
		if strings.EqualFold(r.products[id].Name, name) {
			p := copyProduct(r.products[id])
			return &p, nil
		}
	}
	return nil, ErrProductNotFound
}

// CreateProduct inserts a new product.
func (r *InMemoryRepository) CreateProduct(_ context.Context, product *Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := copyProduct(product)
	r.products[product.ID] = &p
	r.productOrder = append(r.productOrder, product.ID)
	return nil
}

// UpdateProductStock sets the stock level of a product.
func (r *InMemoryRepository) UpdateProductStock(_ context.Context, id string, stockLevel int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return ErrProductNotFound
	}
	product.StockLevel = stockLevel
	return nil
}

// AdjustProductStock adds delta to a product's stock level, floored at zero.
func (r *InMemoryRepository) AdjustProductStock(_ context.Context, id string, delta int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return 0, ErrProductNotFound
	}
	product.StockLevel += delta
	if product.StockLevel < 0 {
		product.StockLevel = 0
	}
	return product.StockLevel, nil
}

// ListProductsBySupplier returns the supplier's products in insertion order.
func (r *InMemoryRepository) ListProductsBySupplier(_ context.Context, supplierID string) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var products []Product
	for _, id := range r.productOrder {
		if r.products[id].SupplierID == supplierID {
			products = append(products, copyProduct(r.products[id]))
		}
	}
	return products, nil
}

// ListCategories returns all categories sorted by ID.
func (r *InMemoryRepository) ListCategories(_ context.Context) ([]Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	categories := make([]Category, 0, len(r.categories))
	for _, c := range r.categories {
		categories = append(categories, *c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return categories, nil
}

// GetCategory retrieves a category by ID.
func (r *InMemoryRepository) GetCategory(_ context.Context, id string) (*Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	category, ok := r.categories[id]
	if !ok {
		return nil, ErrCategoryNotFound
	}
	c := *category
	return &c, nil
}

// AddCategory seeds a category. Categories are reference data without a
// write path in the API, so this is only used by tests and fixtures.
func (r *InMemoryRepository) AddCategory(category *Category) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := *category
	r.categories[category.ID] = &c
}

// ListAboBoxes returns all abo boxes in insertion order.
func (r *InMemoryRepository) ListAboBoxes(_ context.Context) ([]AboBox, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	boxes := make([]AboBox, 0, len(r.aboBoxOrder))
	for _, id := range r.aboBoxOrder {
		boxes = append(boxes, copyAboBox(r.aboBoxes[id]))
	}
	return boxes, nil
}

// GetAboBox retrieves an abo box by ID.
func (r *InMemoryRepository) GetAboBox(_ context.Context, id string) (*AboBox, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	box, ok := r.aboBoxes[id]
	if !ok {
		return nil, ErrAboBoxNotFound
	}
	b := copyAboBox(box)
	return &b, nil
}

// AddAboBox seeds an abo box for tests and fixtures.
func (r *InMemoryRepository) AddAboBox(box *AboBox) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := copyAboBox(box)
	r.aboBoxes[box.ID] = &b
	r.aboBoxOrder = append(r.aboBoxOrder, box.ID)
}

// ListSuppliers returns all suppliers sorted by ID.
func (r *InMemoryRepository) ListSuppliers(_ context.Context) ([]Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	suppliers := make([]Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		suppliers = append(suppliers, *s)
	}
	sort.Slice(suppliers, func(i, j int) bool { return suppliers[i].ID < suppliers[j].ID })
	return suppliers, nil
}

// GetSupplier retrieves a supplier by ID.
func (r *InMemoryRepository) GetSupplier(_ context.Context, id string) (*Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	supplier, ok := r.suppliers[id]
	if !ok {
		return nil, ErrSupplierNotFound
	}
	s := *supplier
	return &s, nil
}

// AddSupplier seeds a supplier for tests and fixtures.
func (r *InMemoryRepository) AddSupplier(supplier *Supplier) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := *supplier
	r.suppliers[supplier.ID] = &s
}

func copyProduct(p *Product) Product {
	productCopy := *p
	productCopy.CategoryIDs = append([]string(nil), p.CategoryIDs...)
	return productCopy
}

func copyAboBox(b *AboBox) AboBox {
	boxCopy := *b
	boxCopy.ProductIDs = append([]string(nil), b.ProductIDs...)
	return boxCopy
}
