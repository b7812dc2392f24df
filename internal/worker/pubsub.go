package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"
)

// Job types published by Cloud Scheduler onto the worker topic.
const (
	jobTypeRenewal      = "subscription_renewal"
	jobTypeLowStockScan = "low_stock_scan"
)

// JobMessage is the payload of a scheduled job message.
type JobMessage struct {
	JobType string `json:"job_type"`
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	FulfillmentJob   *FulfillmentJob
	Logger           zerolog.Logger
}

// PubSubHandler receives scheduled job messages and dispatches them to
// the fulfillment job.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	fulfillmentJob   *FulfillmentJob
	logger           zerolog.Logger
}

// NewPubSubHandler connects to Pub/Sub and prepares the subscriber.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)

	// Renewal cycles can run long; keep the lease extended while one is
	// in flight, and don't pull more than a handful at a time.
	subscriber.ReceiveSettings.MaxOutstandingMessages = 10
	subscriber.ReceiveSettings.MaxExtension = 10 * time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		fulfillmentJob:   cfg.FulfillmentJob,
		logger:           cfg.Logger,
	}, nil
}

// Start blocks, receiving and dispatching messages until ctx is done.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		h.handleMessage(ctx, msg)
	})
}

// Close releases the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

func (h *PubSubHandler) handleMessage(ctx context.Context, msg *pubsub.Message) {
	startTime := time.Now()

	logger := h.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	var jobMsg JobMessage
	if err := json.Unmarshal(msg.Data, &jobMsg); err != nil {
		logger.Error().Err(err).Msg("failed to parse message")
		msg.Nack()
		return
	}

	var err error
	switch jobMsg.JobType {
	case jobTypeRenewal:
		err = h.runRenewalCycle(ctx)
	case jobTypeLowStockScan:
		err = h.fulfillmentJob.LowStockScan(ctx)
	default:
		// Ack so an unrecognized job type is not redelivered forever.
		logger.Warn().Str("job_type", jobMsg.JobType).Msg("unknown job type")
		msg.Ack()
		return
	}

	if err != nil {
		logger.Error().Err(err).Str("job_type", jobMsg.JobType).Msg("job failed")
		msg.Nack()
		return
	}

	logger.Info().
		Str("job_type", jobMsg.JobType).
		Dur("duration", time.Since(startTime)).
		Msg("job completed")

	msg.Ack()
}

// runRenewalCycle runs one fulfillment pass. The message is nacked for
// redelivery only when failures outnumber successes; partial failures
// are expected and retried on the next scheduled cycle.
func (h *PubSubHandler) runRenewalCycle(ctx context.Context) error {
	result := h.fulfillmentJob.Run(ctx)

	h.logger.Info().
		Dur("duration", result.Duration).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Msg("renewal cycle completed")

	if result.Failed > result.Successful {
		return fmt.Errorf("too many fulfillment failures: %d/%d", result.Failed, result.TotalOrders)
	}

	return nil
}
