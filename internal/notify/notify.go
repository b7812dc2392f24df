// Package notify delivers low-stock webhook notifications to the
// procurement system. Deliveries go through the resilient HTTP client so
// a flapping endpoint cannot stall the fulfillment worker.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/abokiste/abokiste/internal/api/middleware"
	"github.com/abokiste/abokiste/internal/resilience"
)

// LowStockThreshold is the stock level at or below which a notification
// is sent.
const LowStockThreshold = 10

// LowStockEvent is the webhook payload for a product running low.
type LowStockEvent struct {
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	SupplierID  string    `json:"supplierId"`
	StockLevel  int       `json:"stockLevel"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// Notifier posts low-stock events to a configured webhook URL.
type Notifier struct {
	client     *resilience.Client
	webhookURL string
	metrics    *middleware.WebhookMetrics
	logger     zerolog.Logger
}

// Config holds notifier configuration.
type Config struct {
	// WebhookURL is the procurement endpoint. Empty disables delivery.
	WebhookURL string

	// Client overrides the HTTP client config. Zero value uses defaults.
	Client *resilience.ClientConfig

	// Metrics records delivery metrics when set.
	Metrics *middleware.WebhookMetrics
}

// NewNotifier creates a new low-stock notifier.
func NewNotifier(cfg Config, logger zerolog.Logger) *Notifier {
	clientCfg := resilience.DefaultClientConfig("procurement-webhook")
	if cfg.Client != nil {
		clientCfg = *cfg.Client
	}
	if clientCfg.Registry == nil {
		clientCfg.Registry = resilience.GlobalRegistry
	}

	return &Notifier{
		client:     resilience.NewClient(clientCfg),
		webhookURL: cfg.WebhookURL,
		metrics:    cfg.Metrics,
		logger:     logger,
	}
}

// Enabled reports whether a webhook URL is configured.
func (n *Notifier) Enabled() bool {
	return n.webhookURL != ""
}

// NotifyLowStock posts a low-stock event. Returns nil without sending
// when no webhook is configured.
func (n *Notifier) NotifyLowStock(ctx context.Context, event LowStockEvent) error {
	if !n.Enabled() {
		return nil
	}

	start := time.Now()
	err := n.deliver(ctx, event)
	if n.metrics != nil {
		n.metrics.RecordDelivery(n.client.Name(), time.Since(start), err)
	}
	return err
}

func (n *Notifier) deliver(ctx context.Context, event LowStockEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling low stock event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Error().
			Err(err).
			Str("product_id", event.ProductID).
			Msg("low stock notification failed")
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	n.logger.Info().
		Str("product_id", event.ProductID).
		Int("stock_level", event.StockLevel).
		Msg("low stock notification delivered")
	return nil
}
