// Package catalog provides the product catalog: products, categories,
// subscription boxes (AboBoxes) and suppliers.
//
// Categories are immutable reference data seeded at deploy time. Products
// reference categories and an owning supplier by id. AboBoxes are curated
// bundles referencing constituent products by id; the id lists are kept
// flat (no embedded documents) so boxes and products can change
// independently.
package catalog

import "time"

// Category is a product category used for user preferences and SEO.
type Category struct {
	// ID is the unique category identifier (format: cat_XXXX).
	ID string

	// Type is the category label, e.g. "food" or "fashion".
	Type string

	// Description is a human-readable description.
	Description string

	// SEOTag is the tag used by the storefront for search indexing.
	SEOTag string
}

// Product is a purchasable item owned by a supplier.
type Product struct {
	// ID is the unique product identifier (format: prd_XXXX).
	ID string

	Name        string
	Description string

	// Price is the unit price in euro cents.
	Price int64

	// StockLevel is the number of units on hand.
	StockLevel int

	// CategoryIDs reference the categories this product belongs to.
	CategoryIDs []string

	// SupplierID references the owning supplier.
	SupplierID string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Supplier is a vendor whose products appear in the catalog.
type Supplier struct {
	// ID is the unique supplier identifier (format: sup_XXXX).
	ID string

	Name    string
	Email   string
	Address string

	// IsPartner marks suppliers with a partnership agreement.
	IsPartner bool
}

// AboBox is a curated subscription box bundling several products.
type AboBox struct {
	// ID is the unique box identifier (format: box_XXXX).
	ID string

	// BoxType is the box theme, e.g. "organic gourmet".
	BoxType string

	// Size is the box size label (S/M/L).
	Size string

	// Price is the per-cycle price in euro cents.
	Price int64

	// ProductIDs reference the constituent products.
	ProductIDs []string
}

// AboBoxDetail is an AboBox with its constituent products resolved.
// Products deleted since the box was assembled are simply absent.
type AboBoxDetail struct {
	AboBox

	Products []Product
}

// ProductDetail is a Product with category and supplier references resolved.
type ProductDetail struct {
	Product

	Categories []Category
	Supplier   *Supplier
}

// InventoryItem is a stock summary row for the admin inventory view.
type InventoryItem struct {
	ProductID    string
	ProductName  string
	StockLevel   int
	SupplierID   string
	SupplierName string
}
