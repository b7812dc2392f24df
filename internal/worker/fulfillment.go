package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/abokiste/abokiste/internal/catalog"
	"github.com/abokiste/abokiste/internal/notify"
	"github.com/abokiste/abokiste/internal/order"
)

// OrderStore is the order access the fulfillment job needs.
type OrderStore interface {
	List(ctx context.Context) ([]order.Order, error)
	ActivateSubscriptions(ctx context.Context, orderID string) (*order.Order, error)
	ExpireSubscriptions(ctx context.Context, orderID string) (*order.Order, error)
}

// CatalogStore is the catalog access the fulfillment job needs.
type CatalogStore interface {
	GetAboBox(ctx context.Context, id string) (*catalog.AboBoxDetail, error)
	AdjustStock(ctx context.Context, productID string, delta int) (int, error)
	Inventory(ctx context.Context) ([]catalog.InventoryItem, error)
}

// LowStockNotifier delivers low-stock events.
type LowStockNotifier interface {
	NotifyLowStock(ctx context.Context, event notify.LowStockEvent) error
}

// FulfillmentJob runs subscription renewal cycles: it activates newly
// placed abo box subscriptions, draws constituent product stock for the
// cycle's shipments, expires subscriptions whose term has elapsed and
// reports products running low.
type FulfillmentJob struct {
	config   FulfillmentConfig
	logger   zerolog.Logger
	orders   OrderStore
	catalog  CatalogStore
	notifier LowStockNotifier

	metrics *FulfillmentMetrics
}

// FulfillmentMetrics tracks fulfillment job statistics.
type FulfillmentMetrics struct {
	mu sync.RWMutex

	// Counters
	TotalCycles      int64
	OrdersProcessed  int64
	OrdersFailed     int64
	Activated        int64
	Expired          int64
	StockAdjustments int64
	LowStockEvents   int64

	// Timings
	LastRunAt       time.Time
	LastRunDuration time.Duration
	TotalDuration   time.Duration
}

// FulfillmentJobConfig holds configuration for creating a FulfillmentJob.
type FulfillmentJobConfig struct {
	Config   FulfillmentConfig
	Logger   zerolog.Logger
	Orders   OrderStore
	Catalog  CatalogStore
	Notifier LowStockNotifier
}

// NewFulfillmentJob creates a new fulfillment job processor.
func NewFulfillmentJob(cfg FulfillmentJobConfig) *FulfillmentJob {
	return &FulfillmentJob{
		config:   cfg.Config.withDefaults(),
		logger:   cfg.Logger,
		orders:   cfg.Orders,
		catalog:  cfg.Catalog,
		notifier: cfg.Notifier,
		metrics:  &FulfillmentMetrics{},
	}
}

// FulfillmentResult contains the result of a renewal cycle.
type FulfillmentResult struct {
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
	TotalOrders int
	Successful  int
	Failed      int
	Errors      []FulfillmentError
}

// FulfillmentError represents an error while processing one order.
type FulfillmentError struct {
	OrderID string
	Error   string
}

// Run executes one renewal cycle over all pending and active abo box
// orders.
func (j *FulfillmentJob) Run(ctx context.Context) *FulfillmentResult {
	startTime := time.Now()
	result := &FulfillmentResult{StartTime: startTime}

	orders, err := j.orders.List(ctx)
	if err != nil {
		j.logger.Error().Err(err).Msg("listing orders failed")
		result.Failed = 1
		result.Errors = append(result.Errors, FulfillmentError{Error: err.Error()})
		result.EndTime = time.Now()
		result.Duration = result.EndTime.Sub(startTime)
		return result
	}

	// Only pending abo box orders carry live subscriptions.
	var due []order.Order
	for _, o := range orders {
		if o.Type == order.TypeAboBox && o.Status == order.StatusPending {
			due = append(due, o)
		}
	}
	result.TotalOrders = len(due)

	j.logger.Info().
		Int("total_orders", result.TotalOrders).
		Int("concurrency", j.config.Concurrency).
		Msg("starting fulfillment cycle")

	// Create work channels
	ordersChan := make(chan order.Order, len(due))
	resultsChan := make(chan orderResult, len(due))

	// Start workers
	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.fulfillmentWorker(ctx, ordersChan, resultsChan)
		}()
	}

	// Send orders to workers
	for _, o := range due {
		ordersChan <- o
	}
	close(ordersChan)

	// Wait for workers to complete
	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	// Collect results
	for or := range resultsChan {
		if or.err != nil {
			result.Failed++
			result.Errors = append(result.Errors, FulfillmentError{
				OrderID: or.orderID,
				Error:   or.err.Error(),
			})
		} else {
			result.Successful++
		}
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)

	j.updateMetrics(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Msg("fulfillment cycle completed")

	return result
}

type orderResult struct {
	orderID string
	err     error
}

func (j *FulfillmentJob) fulfillmentWorker(ctx context.Context, orders <-chan order.Order, results chan<- orderResult) {
	for o := range orders {
		select {
		case <-ctx.Done():
			return
		default:
			results <- orderResult{orderID: o.ID, err: j.processOrder(ctx, o)}
		}
	}
}

// processOrder runs one fulfillment cycle for a single order.
func (j *FulfillmentJob) processOrder(ctx context.Context, o order.Order) error {
	orderCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	// Newly placed subscriptions become active on their first cycle.
	activated, err := j.orders.ActivateSubscriptions(orderCtx, o.ID)
	if err != nil {
		return fmt.Errorf("activating subscriptions: %w", err)
	}
	atomic.AddInt64(&j.metrics.Activated, 1)

	// Draw stock for this cycle's shipments.
	for _, item := range activated.Items {
		if item.Kind != order.ItemKindAboBox {
			continue
		}
		if item.AboBox.SubscriptionStatus != order.SubscriptionActive {
			continue
		}
		if err := j.shipBoxCycle(orderCtx, item.AboBox); err != nil {
			return err
		}
	}

	// Expire subscriptions whose full term has elapsed.
	if j.termElapsed(activated) {
		if _, err := j.orders.ExpireSubscriptions(orderCtx, o.ID); err != nil {
			return fmt.Errorf("expiring subscriptions: %w", err)
		}
		atomic.AddInt64(&j.metrics.Expired, 1)
	}

	atomic.AddInt64(&j.metrics.OrdersProcessed, 1)
	return nil
}

// shipBoxCycle draws constituent product stock for one cycle of an abo
// box line item and reports products that ran low.
func (j *FulfillmentJob) shipBoxCycle(ctx context.Context, item *order.AboBoxItem) error {
	box, err := j.catalog.GetAboBox(ctx, item.AboBoxID)
	if err != nil {
		return fmt.Errorf("resolving abo box %s: %w", item.AboBoxID, err)
	}

	for _, product := range box.Products {
		level, err := j.catalog.AdjustStock(ctx, product.ID, -item.Quantity)
		if err != nil {
			return fmt.Errorf("adjusting stock for %s: %w", product.ID, err)
		}
		atomic.AddInt64(&j.metrics.StockAdjustments, 1)

		if level <= j.config.LowStockThreshold && j.notifier != nil {
			event := notify.LowStockEvent{
				ProductID:   product.ID,
				ProductName: product.Name,
				SupplierID:  product.SupplierID,
				StockLevel:  level,
				OccurredAt:  time.Now(),
			}
			if err := j.notifier.NotifyLowStock(ctx, event); err != nil {
				// Notification failures never fail the cycle.
				j.logger.Warn().Err(err).Str("product_id", product.ID).Msg("low stock notification failed")
			} else {
				atomic.AddInt64(&j.metrics.LowStockEvents, 1)
			}
		}
	}
	return nil
}

// termElapsed reports whether every active subscription item of the
// order has run past its term.
func (j *FulfillmentJob) termElapsed(o *order.Order) bool {
	elapsed := false
	for _, item := range o.Items {
		if item.Kind != order.ItemKindAboBox {
			continue
		}
		if item.AboBox.SubscriptionStatus != order.SubscriptionActive {
			continue
		}
		term := time.Duration(item.AboBox.SubscriptionMonths) * j.config.CycleLength
		if time.Since(o.OrderDate) < term {
			return false
		}
		elapsed = true
	}
	return elapsed
}

// LowStockScan walks the inventory and reports every product at or
// below the threshold, without touching stock.
func (j *FulfillmentJob) LowStockScan(ctx context.Context) error {
	items, err := j.catalog.Inventory(ctx)
	if err != nil {
		return fmt.Errorf("listing inventory: %w", err)
	}

	low := 0
	for _, item := range items {
		if item.StockLevel > j.config.LowStockThreshold {
			continue
		}
		low++
		if j.notifier == nil {
			continue
		}
		event := notify.LowStockEvent{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			SupplierID:  item.SupplierID,
			StockLevel:  item.StockLevel,
			OccurredAt:  time.Now(),
		}
		if err := j.notifier.NotifyLowStock(ctx, event); err != nil {
			j.logger.Warn().Err(err).Str("product_id", item.ProductID).Msg("low stock notification failed")
		} else {
			atomic.AddInt64(&j.metrics.LowStockEvents, 1)
		}
	}

	j.logger.Info().
		Int("products", len(items)).
		Int("low", low).
		Msg("low stock scan completed")
	return nil
}

func (j *FulfillmentJob) updateMetrics(result *FulfillmentResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalCycles++
	j.metrics.OrdersFailed += int64(result.Failed)
	j.metrics.LastRunAt = result.EndTime
	j.metrics.LastRunDuration = result.Duration
	j.metrics.TotalDuration += result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *FulfillmentJob) GetMetrics() FulfillmentMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return FulfillmentMetrics{
		TotalCycles:      j.metrics.TotalCycles,
		OrdersProcessed:  atomic.LoadInt64(&j.metrics.OrdersProcessed),
		OrdersFailed:     j.metrics.OrdersFailed,
		Activated:        atomic.LoadInt64(&j.metrics.Activated),
		Expired:          atomic.LoadInt64(&j.metrics.Expired),
		StockAdjustments: atomic.LoadInt64(&j.metrics.StockAdjustments),
		LowStockEvents:   atomic.LoadInt64(&j.metrics.LowStockEvents),
		LastRunAt:        j.metrics.LastRunAt,
		LastRunDuration:  j.metrics.LastRunDuration,
		TotalDuration:    j.metrics.TotalDuration,
	}
}
