// Package main is the entrypoint for the Abokiste API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/abokiste/abokiste/internal/api"
	"github.com/abokiste/abokiste/internal/api/middleware"
	"github.com/abokiste/abokiste/internal/auth"
	"github.com/abokiste/abokiste/internal/catalog"
	"github.com/abokiste/abokiste/internal/database"
	"github.com/abokiste/abokiste/internal/feedback"
	"github.com/abokiste/abokiste/internal/order"
	"github.com/abokiste/abokiste/internal/recommend"
	"github.com/abokiste/abokiste/internal/report"
	"github.com/abokiste/abokiste/internal/telemetry"
	"github.com/abokiste/abokiste/internal/user"
)

const serviceName = "abokiste-api"

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting Abokiste API")

	ctx := context.Background()

	tp := setupTelemetry(ctx, log)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown telemetry")
		}
	}()

	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	userRepo := user.NewPostgresRepository(pool)
	catalogRepo := catalog.NewPostgresRepository(pool)
	orderRepo := order.NewPostgresRepository(pool)
	feedbackRepo := feedback.NewPostgresRepository(pool)

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: jwtSigningKey,
		Issuer:     "https://api.abokiste.shop",
		Audience:   serviceName,
	})

	catalogService := catalog.NewService(catalogRepo, log)
	userService := user.NewService(userRepo, catalogRepo, log)
	authService := auth.NewService(userRepo, jwtService, log)
	orderService := order.NewService(orderRepo, log)
	recommendService := recommend.NewService(userRepo, catalogService, log)
	reportService := report.NewService(catalogRepo, orderRepo, log)
	feedbackService := feedback.NewService(feedbackRepo, catalogRepo, log)
	log.Info().Msg("services initialized")

	router := api.NewRouter(api.RouterConfig{
		Version:          Version,
		BuildTime:        BuildTime,
		Logger:           log,
		ServiceName:      serviceName,
		Metrics:          metrics,
		DB:               pool,
		AuthService:      authService,
		UserService:      userService,
		CatalogService:   catalogService,
		OrderService:     orderService,
		RecommendService: recommendService,
		ReportService:    reportService,
		FeedbackService:  feedbackService,
	})

	server := &http.Server{
		Addr:         ":" + envOr("APP_PORT", "8080"),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

func setupTelemetry(ctx context.Context, log zerolog.Logger) *telemetry.Provider {
	enabled := os.Getenv("OTEL_ENABLED") == "true"
	endpoint := envOr("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    envOr("APP_ENV", "development"),
		OTLPEndpoint:   endpoint,
		Enabled:        enabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}

	if enabled {
		log.Info().
			Str("otlp_endpoint", endpoint).
			Msg("OpenTelemetry initialized")
	}

	return tp
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
