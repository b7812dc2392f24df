package models

// OrderItemInput is a line item in an order create/update request.
// Exactly one of AboBoxID or ProductID must be set, matching the order type.
type OrderItemInput struct {
	AboBoxID           string `json:"aboBoxId,omitempty"`
	ProductID          string `json:"productId,omitempty"`
	Quantity           int    `json:"quantity"`
	OrderPriceCents    int64  `json:"orderPriceCents"`
	SubscriptionMonths int    `json:"subscriptionMonths,omitempty"`
}

// OrderCreateRequest is the body for POST /v1/orders.
type OrderCreateRequest struct {
	UserID          string           `json:"userId"`
	PaymentMethod   string           `json:"paymentMethod"`
	DeliveryAddress string           `json:"deliveryAddress"`
	Type            OrderType        `json:"type"`
	Items           []OrderItemInput `json:"items"`
}

// OrderUpdateRequest is the body for PUT /v1/orders/{orderId}.
type OrderUpdateRequest struct {
	PaymentMethod   *string      `json:"paymentMethod,omitempty"`
	DeliveryAddress *string      `json:"deliveryAddress,omitempty"`
	Status          *OrderStatus `json:"orderStatus,omitempty"`
}

// OrderAboBoxItem is an abo box line item in a response.
type OrderAboBoxItem struct {
	AboBoxID           string             `json:"aboBoxId"`
	Quantity           int                `json:"quantity"`
	OrderPriceCents    int64              `json:"orderPriceCents"`
	SubscriptionStatus SubscriptionStatus `json:"subscriptionStatus"`
	SubscriptionMonths int                `json:"subscriptionMonths"`
}

// OrderProductItem is a direct product line item in a response.
type OrderProductItem struct {
	ProductID       string `json:"productId"`
	Quantity        int    `json:"quantity"`
	OrderPriceCents int64  `json:"orderPriceCents"`
}

// Order is an order in a response. Items is homogeneous per Type; the
// unused item slice is omitted.
type Order struct {
	OrderID         string             `json:"orderId"`
	UserID          string             `json:"userId"`
	OrderDate       Timestamp          `json:"orderDate"`
	PaymentMethod   string             `json:"paymentMethod"`
	DeliveryAddress string             `json:"deliveryAddress"`
	Type            OrderType          `json:"type"`
	Status          OrderStatus        `json:"orderStatus"`
	AboBoxItems     []OrderAboBoxItem  `json:"aboBoxItems,omitempty"`
	ProductItems    []OrderProductItem `json:"productItems,omitempty"`
}
