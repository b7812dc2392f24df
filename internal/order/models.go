// Package order provides order management for direct product purchases
// and abo box subscriptions.
//
// Line items are a tagged union: every item carries an explicit Kind
// discriminant and exactly one payload matching it. Code consuming items
// switches on Kind exhaustively instead of probing for field presence.
package order

import (
	"errors"
	"fmt"
	"time"
)

// Repository errors.
var (
	ErrOrderNotFound = errors.New("order not found")
)

// Type discriminates direct product orders from abo box orders. An
// order's item list is homogeneous per its type.
type Type string

// Order types.
const (
	TypeAboBox  Type = "aboBox"
	TypeProduct Type = "product"
)

// Valid reports whether the order type is known.
func (t Type) Valid() bool {
	return t == TypeAboBox || t == TypeProduct
}

// Status is the lifecycle state of an order. Orders are append-mostly:
// status is the only field mutated after creation, by the fulfillment
// worker or an admin.
type Status string

// Order statuses.
const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether the status is known.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted || s == StatusCancelled
}

// SubscriptionStatus is the lifecycle state of an abo box line item.
type SubscriptionStatus string

// Subscription statuses.
const (
	SubscriptionPending   SubscriptionStatus = "pending"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionExpired   SubscriptionStatus = "expired"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// ItemKind discriminates the line item union.
type ItemKind string

// Line item kinds.
const (
	ItemKindAboBox  ItemKind = "aboBox"
	ItemKindProduct ItemKind = "product"
)

// AboBoxItem is the payload of an abo box line item. The box is billed
// per subscription period; each month represents one fulfillment cycle.
type AboBoxItem struct {
	AboBoxID           string             `json:"aboBoxId"`
	Quantity           int                `json:"quantity"`
	OrderPriceCents    int64              `json:"orderPriceCents"`
	SubscriptionStatus SubscriptionStatus `json:"subscriptionStatus"`
	SubscriptionMonths int                `json:"subscriptionMonths"`
}

// ProductItem is the payload of a direct product line item.
type ProductItem struct {
	ProductID       string `json:"productId"`
	Quantity        int    `json:"quantity"`
	OrderPriceCents int64  `json:"orderPriceCents"`
}

// LineItem is a tagged union of AboBoxItem and ProductItem. Exactly one
// payload is non-nil, matching Kind.
type LineItem struct {
	Kind    ItemKind     `json:"kind"`
	AboBox  *AboBoxItem  `json:"aboBox,omitempty"`
	Product *ProductItem `json:"product,omitempty"`
}

// NewAboBoxItem constructs an abo box line item.
func NewAboBoxItem(item AboBoxItem) LineItem {
	return LineItem{Kind: ItemKindAboBox, AboBox: &item}
}

// NewProductItem constructs a direct product line item.
func NewProductItem(item ProductItem) LineItem {
	return LineItem{Kind: ItemKindProduct, Product: &item}
}

// Validate checks that the discriminant matches the populated payload.
func (li LineItem) Validate() error {
	switch li.Kind {
	case ItemKindAboBox:
		if li.AboBox == nil || li.Product != nil {
			return fmt.Errorf("line item kind %q: payload mismatch", li.Kind)
		}
	case ItemKindProduct:
		if li.Product == nil || li.AboBox != nil {
			return fmt.Errorf("line item kind %q: payload mismatch", li.Kind)
		}
	default:
		return fmt.Errorf("unknown line item kind %q", li.Kind)
	}
	return nil
}

// Order represents a customer order.
type Order struct {
	// ID is the unique order identifier (format: ord_XXXX).
	ID string

	// UserID references the ordering user.
	UserID string

	// OrderDate is when the order was placed.
	OrderDate time.Time

	PaymentMethod   string
	DeliveryAddress string

	Type   Type
	Status Status

	// Items is homogeneous per Type.
	Items []LineItem

	CreatedAt time.Time
	UpdatedAt time.Time
}
