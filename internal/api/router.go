// Package api provides the HTTP API for Abokiste.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/abokiste/abokiste/internal/api/handler"
	"github.com/abokiste/abokiste/internal/api/middleware"
	"github.com/abokiste/abokiste/internal/auth"
	"github.com/abokiste/abokiste/internal/catalog"
	"github.com/abokiste/abokiste/internal/feedback"
	"github.com/abokiste/abokiste/internal/order"
	"github.com/abokiste/abokiste/internal/recommend"
	"github.com/abokiste/abokiste/internal/report"
	"github.com/abokiste/abokiste/internal/user"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version          string
	BuildTime        string
	Logger           zerolog.Logger
	ServiceName      string
	Metrics          *middleware.Metrics
	DB               handler.Pinger
	AuthService      *auth.Service
	UserService      *user.Service
	CatalogService   *catalog.Service
	OrderService     *order.Service
	RecommendService *recommend.Service
	ReportService    *report.Service
	FeedbackService  *feedback.Service
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "abokiste-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.DB)
	authHandler := handler.NewAuthHandler(cfg.AuthService, cfg.UserService)
	userHandler := handler.NewUserHandler(cfg.UserService, cfg.RecommendService)
	catalogHandler := handler.NewCatalogHandler(cfg.CatalogService)
	productHandler := handler.NewProductHandler(cfg.CatalogService)
	orderHandler := handler.NewOrderHandler(cfg.OrderService)
	supplierHandler := handler.NewSupplierHandler(cfg.CatalogService, cfg.ReportService)
	adminHandler := handler.NewAdminHandler(cfg.CatalogService)
	feedbackHandler := handler.NewFeedbackHandler(cfg.FeedbackService)

	// Create auth middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	adminOnly := middleware.RequireRole(user.RoleAdmin)
	supplierOrAdmin := middleware.RequireRole(user.RoleSupplier, user.RoleAdmin)

	// Create rate limit middleware for different endpoint categories
	authRateLimit := middleware.RateLimitByIP(middleware.AuthRateLimit)           // 10 req/min
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Auth endpoints (public) - strict rate limiting
		r.Route("/auth", func(r chi.Router) {
			r.Use(authRateLimit) // 10 requests per minute per IP
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		// Catalog browsing (public) - standard rate limiting
		r.Group(func(r chi.Router) {
			r.Use(standardRateLimit)

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", catalogHandler.ListCategories)
				r.Get("/{categoryId}", catalogHandler.GetCategory)
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", productHandler.ListProducts)
				r.Get("/{productId}", productHandler.GetProduct)
				r.With(authMiddleware, supplierOrAdmin).Post("/", productHandler.CreateProduct)
			})

			r.Route("/aboboxes", func(r chi.Router) {
				r.Get("/", catalogHandler.ListAboBoxes)
				r.Get("/{aboBoxId}", catalogHandler.GetAboBox)

				// Feedback requires authentication
				r.Route("/{aboBoxId}/feedback", func(r chi.Router) {
					r.Get("/", feedbackHandler.ListFeedback)
					r.With(authMiddleware).Post("/", feedbackHandler.CreateFeedback)
				})
			})
		})

		// User endpoints (authenticated) - user-based rate limiting
		r.Route("/users", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit)) // 100 req/min per user

			r.With(adminOnly).Get("/", userHandler.ListUsers)

			// Recommendation engine - expensive compute
			r.With(middleware.RateLimitByUser(middleware.ExpensiveRateLimit)).
				Get("/abobox/{userId}", userHandler.Recommend)

			r.Route("/{userId}", func(r chi.Router) {
				r.Get("/", userHandler.GetUser)
				r.Put("/", userHandler.UpdateUser)
				r.Delete("/", userHandler.DeleteUser)

				r.Get("/orders", orderHandler.ListUserOrders)

				r.Route("/preferences", func(r chi.Router) {
					r.Put("/", userHandler.UpdatePreferences)
					r.Delete("/", userHandler.DeletePreferences)
				})
			})
		})

		// Order endpoints (authenticated)
		r.Route("/orders", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit))

			r.Post("/", orderHandler.CreateOrder)
			r.With(adminOnly).Get("/", orderHandler.ListOrders)
			r.Route("/{orderId}", func(r chi.Router) {
				r.Get("/", orderHandler.GetOrder)
				r.Put("/", orderHandler.UpdateOrder)
			})
		})

		// Supplier endpoints (supplier or admin role)
		r.Route("/supplier/{supplierId}", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(supplierOrAdmin)

			// Trend report - expensive compute, strict rate limiting
			r.With(expensiveRateLimit).Post("/trends", supplierHandler.TrendReport)

			r.Get("/products", supplierHandler.ListSupplierProducts)
			r.Put("/products/{productId}/stock", supplierHandler.UpdateStock)
		})

		// Supplier directory (admin only)
		r.Route("/suppliers", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(adminOnly)
			r.Get("/", catalogHandler.ListSuppliers)
			r.Get("/{supplierId}", catalogHandler.GetSupplier)
		})

		// Admin endpoints (authenticated) - for internal operations
		r.Route("/admin", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(adminOnly)
			r.Use(standardRateLimit)

			r.Get("/inventory", adminHandler.Inventory)
		})
	})

	return r
}
