// Package report computes supplier trend reports: per-product demand
// totals over a date range, combining direct product orders and abo box
// orders.
package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/abokiste/abokiste/internal/catalog"
	"github.com/abokiste/abokiste/internal/order"
)

// Service errors.
var (
	// ErrNoSupplierProducts is returned when the supplier owns no
	// products. An unknown supplier id looks the same to the report.
	ErrNoSupplierProducts = errors.New("supplier has no products")

	// ErrDataIntegrity is returned when an order line item references an
	// abo box that no longer resolves. The whole report is aborted
	// rather than silently under-reporting.
	ErrDataIntegrity = errors.New("order references unknown catalog entity")
)

// CatalogSource provides the catalog lookups the report needs.
type CatalogSource interface {
	ListProductsBySupplier(ctx context.Context, supplierID string) ([]catalog.Product, error)
	GetAboBox(ctx context.Context, id string) (*catalog.AboBox, error)
}

// OrderSource provides date-ranged order access.
type OrderSource interface {
	ListByDateRange(ctx context.Context, start, end time.Time) ([]order.Order, error)
}

// Row is one per-product demand total.
type Row struct {
	ProductID   string
	ProductName string
	Quantity    int
}

// Service is the supplier trend report engine. It is stateless; every
// call works from freshly fetched data.
type Service struct {
	catalog CatalogSource
	orders  OrderSource
	logger  zerolog.Logger
}

// NewService creates a new trend report service.
func NewService(cat CatalogSource, orders OrderSource, logger zerolog.Logger) *Service {
	return &Service{catalog: cat, orders: orders, logger: logger}
}

// TrendReport totals ordered quantities per supplier product across all
// orders placed in [start, end], both bounds inclusive, regardless of
// order status or ordering user.
//
// A direct product item contributes its quantity. An abo box item
// contributes quantity * subscription months for each constituent
// product the supplier owns: the box ships once per subscription month,
// so each month is one fulfillment cycle. Items referencing other
// suppliers' products are ignored.
//
// Rows are merged per product in a single pass and returned in
// ascending product id order. Each distinct abo box is resolved once.
func (s *Service) TrendReport(ctx context.Context, supplierID string, start, end time.Time) ([]Row, error) {
	products, err := s.catalog.ListProductsBySupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrNoSupplierProducts
	}

	// Supplier product names, memoized up front. Also serves as the
	// ownership set: anything absent from this map is not the
	// supplier's concern.
	productName := make(map[string]string, len(products))
	for _, product := range products {
		productName[product.ID] = product.Name
	}

	orders, err := s.orders.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int)
	boxCache := make(map[string]*catalog.AboBox)

	for _, o := range orders {
		for _, item := range o.Items {
			switch item.Kind {
			case order.ItemKindProduct:
				if _, owned := productName[item.Product.ProductID]; owned {
					totals[item.Product.ProductID] += item.Product.Quantity
				}
			case order.ItemKindAboBox:
				box, ok := boxCache[item.AboBox.AboBoxID]
				if !ok {
					box, err = s.catalog.GetAboBox(ctx, item.AboBox.AboBoxID)
					if err != nil {
						if errors.Is(err, catalog.ErrAboBoxNotFound) {
							return nil, fmt.Errorf("%w: abo box %s in order %s",
								ErrDataIntegrity, item.AboBox.AboBoxID, o.ID)
						}
						return nil, err
					}
					boxCache[item.AboBox.AboBoxID] = box
				}
				for _, productID := range box.ProductIDs {
					if _, owned := productName[productID]; owned {
						totals[productID] += item.AboBox.Quantity * item.AboBox.SubscriptionMonths
					}
				}
			}
		}
	}

	rows := make([]Row, 0, len(totals))
	for productID, quantity := range totals {
		rows = append(rows, Row{
			ProductID:   productID,
			ProductName: productName[productID],
			Quantity:    quantity,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ProductID < rows[j].ProductID })

	s.logger.Debug().
		Str("supplier_id", supplierID).
		Time("start", start).
		Time("end", end).
		Int("orders", len(orders)).
		Int("rows", len(rows)).
		Msg("trend report computed")

	return rows, nil
}
