// Package worker provides background job processing for Abokiste:
// subscription renewal cycles and low-stock scans, triggered by Pub/Sub
// messages from Cloud Scheduler.
package worker

import (
	"time"
)

// FulfillmentConfig holds configuration for the fulfillment job.
type FulfillmentConfig struct {
	// Concurrency is the number of orders processed in parallel.
	// Default: 3
	Concurrency int

	// Timeout is the timeout for processing a single order.
	// Default: 30 seconds
	Timeout time.Duration

	// CycleLength is the length of one subscription fulfillment cycle.
	// Each subscription month corresponds to one cycle.
	// Default: 30 days
	CycleLength time.Duration

	// LowStockThreshold is the stock level at or below which a
	// notification is sent. Default: 10
	LowStockThreshold int
}

// DefaultFulfillmentConfig returns the default fulfillment configuration.
func DefaultFulfillmentConfig() FulfillmentConfig {
	return FulfillmentConfig{
		Concurrency:       3,
		Timeout:           30 * time.Second,
		CycleLength:       30 * 24 * time.Hour,
		LowStockThreshold: 10,
	}
}

// withDefaults fills in zero values.
func (c FulfillmentConfig) withDefaults() FulfillmentConfig {
	d := DefaultFulfillmentConfig()
	if c.Concurrency <= 0 {
		c.Concurrency = d.Concurrency
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.CycleLength <= 0 {
		c.CycleLength = d.CycleLength
	}
	if c.LowStockThreshold <= 0 {
		c.LowStockThreshold = d.LowStockThreshold
	}
	return c
}
