// Package main provides the entrypoint for the Abokiste fulfillment worker.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/abokiste/abokiste/internal/api/middleware"
	"github.com/abokiste/abokiste/internal/catalog"
	"github.com/abokiste/abokiste/internal/database"
	"github.com/abokiste/abokiste/internal/notify"
	"github.com/abokiste/abokiste/internal/order"
	"github.com/abokiste/abokiste/internal/resilience"
	"github.com/abokiste/abokiste/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "abokiste-worker"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting Abokiste worker")

	// Worker also exposes a health endpoint for Cloud Run
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	// Initialize services
	catalogService := catalog.NewService(catalog.NewPostgresRepository(pool), log)
	orderService := order.NewService(order.NewPostgresRepository(pool), log)

	// Low stock notifier (disabled when no webhook configured)
	webhookMetrics, err := middleware.NewWebhookMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create webhook metrics")
	}
	notifier := notify.NewNotifier(notify.Config{
		WebhookURL: os.Getenv("PROCUREMENT_WEBHOOK_URL"),
		Metrics:    webhookMetrics,
	}, log)
	if !notifier.Enabled() {
		log.Warn().Msg("PROCUREMENT_WEBHOOK_URL not set - low stock notifications disabled")
	}

	// Fulfillment job
	job := worker.NewFulfillmentJob(worker.FulfillmentJobConfig{
		Config:   worker.DefaultFulfillmentConfig(),
		Logger:   log,
		Orders:   orderService,
		Catalog:  catalogService,
		Notifier: notifier,
	})

	// Pub/Sub handler
	projectID := os.Getenv("PUBSUB_PROJECT_ID")
	subscription := os.Getenv("PUBSUB_SUBSCRIPTION")
	if subscription == "" {
		subscription = "abokiste-fulfillment"
	}

	var pubsubHandler *worker.PubSubHandler
	if projectID != "" {
		pubsubHandler, err = worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        projectID,
			SubscriptionName: subscription,
			FulfillmentJob:   job,
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub handler")
		}
		defer func() {
			if closeErr := pubsubHandler.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close pubsub client")
			}
		}()

		go func() {
			if err := pubsubHandler.Start(ctx); err != nil && ctx.Err() == nil {
				log.Fatal().Err(err).Msg("pubsub handler stopped")
			}
		}()
	} else {
		log.Warn().Msg("PUBSUB_PROJECT_ID not set - running renewal cycles on a local ticker")

		// Local fallback: run a renewal cycle periodically.
		go func() {
			ticker := time.NewTicker(time.Hour)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					job.Run(ctx)
				}
			}
		}()
	}

	// Create HTTP server for health checks
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		upstreams := make(map[string]string)
		for _, h := range resilience.GlobalRegistry.GetAllHealth() {
			upstreams[h.Name] = h.CircuitState.String()
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":    "healthy",
			"version":   Version,
			"upstreams": upstreams,
		})
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health check server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("health server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
