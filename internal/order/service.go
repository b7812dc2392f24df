package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abokiste/abokiste/internal/api/models"
)

// Service errors.
var (
	// ErrInvalidTransition is returned for a status change other than
	// pending -> completed or pending -> cancelled.
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// Service provides order operations.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

// NewService creates a new order service.
func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Get retrieves an order by ID.
func (s *Service) Get(ctx context.Context, orderID string) (*Order, error) {
	return s.repo.Get(ctx, orderID)
}

// List returns all orders.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.repo.List(ctx)
}

// ListByUser returns all orders placed by a user.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

// OrdersInRange returns orders placed in [start, end] inclusive,
// regardless of status or user.
func (s *Service) OrdersInRange(ctx context.Context, start, end time.Time) ([]Order, error) {
	return s.repo.ListByDateRange(ctx, start, end)
}

// Create creates a new pending order. The item list is normalized to the
// order's type: abo box items start with a pending subscription, direct
// product items carry only product id, quantity and price.
func (s *Service) Create(ctx context.Context, input *models.OrderCreateRequest) (*Order, error) {
	if fieldErrors := validateCreateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	items := make([]LineItem, 0, len(input.Items))
	switch Type(input.Type) {
	case TypeAboBox:
		for _, in := range input.Items {
			items = append(items, NewAboBoxItem(AboBoxItem{
				AboBoxID:           in.AboBoxID,
				Quantity:           in.Quantity,
				OrderPriceCents:    in.OrderPriceCents,
				SubscriptionStatus: SubscriptionPending,
				SubscriptionMonths: in.SubscriptionMonths,
			}))
		}
	case TypeProduct:
		for _, in := range input.Items {
			items = append(items, NewProductItem(ProductItem{
				ProductID:       in.ProductID,
				Quantity:        in.Quantity,
				OrderPriceCents: in.OrderPriceCents,
			}))
		}
	}

	now := time.Now()
	o := &Order{
		ID:              "ord_" + uuid.New().String()[:22],
		UserID:          input.UserID,
		OrderDate:       now,
		PaymentMethod:   input.PaymentMethod,
		DeliveryAddress: input.DeliveryAddress,
		Type:            Type(input.Type),
		Status:          StatusPending,
		Items:           items,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", o.ID).
		Str("user_id", o.UserID).
		Str("type", string(o.Type)).
		Int("items", len(o.Items)).
		Msg("order created")

	return o, nil
}

// Update applies partial updates to an order. Status may only move from
// pending to completed or cancelled.
func (s *Service) Update(ctx context.Context, orderID string, input *models.OrderUpdateRequest) (*Order, error) {
	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if input.PaymentMethod != nil {
		o.PaymentMethod = *input.PaymentMethod
	}
	if input.DeliveryAddress != nil {
		o.DeliveryAddress = *input.DeliveryAddress
	}
	if input.Status != nil {
		next := Status(*input.Status)
		if !next.Valid() {
			return nil, &ValidationError{Errors: []models.FieldError{{Field: "orderStatus", Message: "must be one of pending, completed, cancelled"}}}
		}
		if next != o.Status {
			if o.Status != StatusPending {
				return nil, ErrInvalidTransition
			}
			o.Status = next
		}
	}
	o.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// ActivateSubscriptions moves every pending abo box item of the order to
// active. Called by the fulfillment worker on the first renewal cycle.
func (s *Service) ActivateSubscriptions(ctx context.Context, orderID string) (*Order, error) {
	return s.updateSubscriptions(ctx, orderID, SubscriptionPending, SubscriptionActive)
}

// ExpireSubscriptions moves every active abo box item of the order to
// expired and completes the order. Called by the fulfillment worker once
// the final cycle has shipped.
func (s *Service) ExpireSubscriptions(ctx context.Context, orderID string) (*Order, error) {
	o, err := s.updateSubscriptions(ctx, orderID, SubscriptionActive, SubscriptionExpired)
	if err != nil {
		return nil, err
	}
	if o.Status == StatusPending {
		o.Status = StatusCompleted
		o.UpdatedAt = time.Now()
		if err := s.repo.Update(ctx, o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (s *Service) updateSubscriptions(ctx context.Context, orderID string, from, to SubscriptionStatus) (*Order, error) {
	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	changed := false
	for i, item := range o.Items {
		switch item.Kind {
		case ItemKindAboBox:
			if item.AboBox.SubscriptionStatus == from {
				o.Items[i].AboBox.SubscriptionStatus = to
				changed = true
			}
		case ItemKindProduct:
			// Direct product items carry no subscription state.
		}
	}

	if changed {
		o.UpdatedAt = time.Now()
		if err := s.repo.Update(ctx, o); err != nil {
			return nil, err
		}
		s.logger.Debug().
			Str("order_id", orderID).
			Str("from", string(from)).
			Str("to", string(to)).
			Msg("subscription items updated")
	}
	return o, nil
}

func validateCreateInput(input *models.OrderCreateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.UserID == "" {
		errs = append(errs, models.FieldError{Field: "userId", Message: "is required"})
	}
	if input.PaymentMethod == "" {
		errs = append(errs, models.FieldError{Field: "paymentMethod", Message: "is required"})
	}
	if input.DeliveryAddress == "" {
		errs = append(errs, models.FieldError{Field: "deliveryAddress", Message: "is required"})
	}

	orderType := Type(input.Type)
	if !orderType.Valid() {
		errs = append(errs, models.FieldError{Field: "type", Message: "must be aboBox or product"})
		return errs
	}

	if len(input.Items) == 0 {
		errs = append(errs, models.FieldError{Field: "items", Message: "is required"})
	}

	for i, item := range input.Items {
		if item.Quantity <= 0 {
			errs = append(errs, models.FieldError{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: "must be positive",
			})
		}
		switch orderType {
		case TypeAboBox:
			if item.AboBoxID == "" {
				errs = append(errs, models.FieldError{
					Field:   fmt.Sprintf("items[%d].aboBoxId", i),
					Message: "is required for aboBox orders",
				})
			}
			if item.ProductID != "" {
				errs = append(errs, models.FieldError{
					Field:   fmt.Sprintf("items[%d].productId", i),
					Message: "must not be set for aboBox orders",
				})
			}
			if item.SubscriptionMonths <= 0 {
				errs = append(errs, models.FieldError{
					Field:   fmt.Sprintf("items[%d].subscriptionMonths", i),
					Message: "must be positive",
				})
			}
		case TypeProduct:
			if item.ProductID == "" {
				errs = append(errs, models.FieldError{
					Field:   fmt.Sprintf("items[%d].productId", i),
					Message: "is required for product orders",
				})
			}
			if item.AboBoxID != "" {
				errs = append(errs, models.FieldError{
					Field:   fmt.Sprintf("items[%d].aboBoxId", i),
					Message: "must not be set for product orders",
				})
			}
		}
	}

	return errs
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s)", len(e.Errors))
}
