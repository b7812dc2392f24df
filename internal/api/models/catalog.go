package models

// Category is a product category in a response.
type Category struct {
	CategoryID  string `json:"categoryId"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	SEOTag      string `json:"seoTag,omitempty"`
}

// Supplier is a supplier in a response.
type Supplier struct {
	SupplierID string `json:"supplierId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Address    string `json:"address,omitempty"`
	IsPartner  bool   `json:"isPartner"`
}

// Product is a product with resolved detail in a response.
type Product struct {
	ProductID   string     `json:"productId"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	PriceCents  int64      `json:"priceCents"`
	StockLevel  int        `json:"stockLevel"`
	Categories  []Category `json:"categories"`
	SupplierID  string     `json:"supplierId"`
	Supplier    *Supplier  `json:"supplier,omitempty"`
}

// ProductCreateRequest is the body for POST /v1/products.
type ProductCreateRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	PriceCents  int64    `json:"priceCents"`
	StockLevel  int      `json:"stockLevel"`
	CategoryIDs []string `json:"categoryIds"`
	SupplierID  string   `json:"supplierId"`
}

// StockUpdateRequest is the body for PUT /v1/supplier/{supplierId}/products/{productId}/stock.
type StockUpdateRequest struct {
	StockLevel int `json:"stockLevel"`
}

// AboBox is a subscription box with resolved products in a response.
type AboBox struct {
	AboBoxID   string    `json:"aboBoxId"`
	BoxType    string    `json:"boxType"`
	Size       string    `json:"size"`
	PriceCents int64     `json:"priceCents"`
	Products   []Product `json:"products"`
}

// InventoryItem is a stock summary row for the admin inventory view.
type InventoryItem struct {
	ProductID    string `json:"productId"`
	ProductName  string `json:"productName"`
	StockLevel   int    `json:"stockLevel"`
	SupplierID   string `json:"supplierId"`
	SupplierName string `json:"supplierName,omitempty"`
}
