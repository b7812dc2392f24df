package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service errors.
var (
	// ErrNotProductOwner is returned when a supplier tries to modify a
	// product owned by a different supplier.
	ErrNotProductOwner = errors.New("product is not owned by this supplier")
)

// Service provides catalog operations.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

// NewService creates a new catalog service.
func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ListProducts returns all products with resolved category and supplier detail.
func (s *Service) ListProducts(ctx context.Context) ([]ProductDetail, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return s.resolveProducts(ctx, products)
}

// GetProduct returns a single product with resolved detail.
func (s *Service) GetProduct(ctx context.Context, id string) (*ProductDetail, error) {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	details, err := s.resolveProducts(ctx, []Product{*product})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// GetProductByName returns a product by its name with resolved detail.
func (s *Service) GetProductByName(ctx context.Context, name string) (*ProductDetail, error) {
	product, err := s.repo.GetProductByName(ctx, name)
	if err != nil {
		return nil, err
	}

	details, err := s.resolveProducts(ctx, []Product{*product})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// CreateProductInput holds the fields for creating a product.
type CreateProductInput struct {
	Name        string
	Description string
	Price       int64
	StockLevel  int
	CategoryIDs []string
	SupplierID  string
}

// CreateProduct creates a new product after checking name uniqueness and
// that every referenced category and the supplier exist.
func (s *Service) CreateProduct(ctx context.Context, input CreateProductInput) (*Product, error) {
	_, err := s.repo.GetProductByName(ctx, input.Name)
	if err == nil {
		return nil, ErrProductExists
	}
	if !errors.Is(err, ErrProductNotFound) {
		return nil, err
	}

	for _, categoryID := range input.CategoryIDs {
		if _, err := s.repo.GetCategory(ctx, categoryID); err != nil {
			return nil, fmt.Errorf("category %s: %w", categoryID, err)
		}
	}
	if _, err := s.repo.GetSupplier(ctx, input.SupplierID); err != nil {
		return nil, err
	}

	now := time.Now()
	product := &Product{
		ID:          "prd_" + uuid.New().String()[:22],
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		StockLevel:  input.StockLevel,
		CategoryIDs: input.CategoryIDs,
		SupplierID:  input.SupplierID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("product_id", product.ID).
		Str("supplier_id", product.SupplierID).
		Msg("product created")

	return product, nil
}

// UpdateStock sets the stock level of a product on behalf of a supplier.
// The supplier must own the product.
func (s *Service) UpdateStock(ctx context.Context, supplierID, productID string, stockLevel int) (*Product, error) {
	product, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.SupplierID != supplierID {
		return nil, ErrNotProductOwner
	}

	if err := s.repo.UpdateProductStock(ctx, productID, stockLevel); err != nil {
		return nil, err
	}

	product.StockLevel = stockLevel
	return product, nil
}

// AdjustStock adds delta (negative to consume) to a product's stock and
// returns the new level. Used by the fulfillment worker.
func (s *Service) AdjustStock(ctx context.Context, productID string, delta int) (int, error) {
	level, err := s.repo.AdjustProductStock(ctx, productID, delta)
	if err != nil {
		return 0, err
	}
	s.logger.Debug().
		Str("product_id", productID).
		Int("delta", delta).
		Int("stock_level", level).
		Msg("stock adjusted")
	return level, nil
}

// ProductsBySupplier returns the supplier's products with resolved detail.
func (s *Service) ProductsBySupplier(ctx context.Context, supplierID string) ([]ProductDetail, error) {
	products, err := s.repo.ListProductsBySupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	return s.resolveProducts(ctx, products)
}

// Inventory returns a stock summary across all products for the admin view.
func (s *Service) Inventory(ctx context.Context) ([]InventoryItem, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	suppliers, err := s.supplierMap(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]InventoryItem, 0, len(products))
	for _, p := range products {
		item := InventoryItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			StockLevel:  p.StockLevel,
			SupplierID:  p.SupplierID,
		}
		if supplier, ok := suppliers[p.SupplierID]; ok {
			item.SupplierName = supplier.Name
		}
		items = append(items, item)
	}
	return items, nil
}

// AboBoxesWithProducts returns all abo boxes with constituent products
// resolved, in catalog order. A product id that no longer resolves is
// dropped from the box rather than failing the call.
func (s *Service) AboBoxesWithProducts(ctx context.Context) ([]AboBoxDetail, error) {
	boxes, err := s.repo.ListAboBoxes(ctx)
	if err != nil {
		return nil, err
	}

	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	details := make([]AboBoxDetail, 0, len(boxes))
	for _, box := range boxes {
		detail := AboBoxDetail{AboBox: box}
		for _, productID := range box.ProductIDs {
			if product, ok := byID[productID]; ok {
				detail.Products = append(detail.Products, product)
			}
		}
		details = append(details, detail)
	}
	return details, nil
}

// GetAboBox returns a single abo box with resolved products.
func (s *Service) GetAboBox(ctx context.Context, id string) (*AboBoxDetail, error) {
	box, err := s.repo.GetAboBox(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := AboBoxDetail{AboBox: *box}
	for _, productID := range box.ProductIDs {
		product, err := s.repo.GetProduct(ctx, productID)
		if err != nil {
			if errors.Is(err, ErrProductNotFound) {
				continue
			}
			return nil, err
		}
		detail.Products = append(detail.Products, *product)
	}
	return &detail, nil
}

// ListCategories returns all categories.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategories(ctx)
}

// GetCategory retrieves a category by ID.
func (s *Service) GetCategory(ctx context.Context, id string) (*Category, error) {
	return s.repo.GetCategory(ctx, id)
}

// ListSuppliers returns all suppliers.
func (s *Service) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	return s.repo.ListSuppliers(ctx)
}

// GetSupplier retrieves a supplier by ID.
func (s *Service) GetSupplier(ctx context.Context, id string) (*Supplier, error) {
	return s.repo.GetSupplier(ctx, id)
}

// resolveProducts attaches category and supplier detail to each product.
// Lookups are batched once per call, not per product.
func (s *Service) resolveProducts(ctx context.Context, products []Product) ([]ProductDetail, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	categoryByID := make(map[string]Category, len(categories))
	for _, c := range categories {
		categoryByID[c.ID] = c
	}

	suppliers, err := s.supplierMap(ctx)
	if err != nil {
		return nil, err
	}

	details := make([]ProductDetail, 0, len(products))
	for _, p := range products {
		detail := ProductDetail{Product: p}
		for _, categoryID := range p.CategoryIDs {
			if category, ok := categoryByID[categoryID]; ok {
				detail.Categories = append(detail.Categories, category)
			}
		}
		if supplier, ok := suppliers[p.SupplierID]; ok {
			supplierCopy := supplier
			detail.Supplier = &supplierCopy
		}
		details = append(details, detail)
	}
	return details, nil
}

func (s *Service) supplierMap(ctx context.Context) (map[string]Supplier, error) {
	suppliers, err := s.repo.ListSuppliers(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]Supplier, len(suppliers))
	for _, supplier := range suppliers {
		byID[supplier.ID] = supplier
	}
	return byID, nil
}
