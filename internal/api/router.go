package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/ecommerce-showcase/storefront/internal/api/handler"
	"github.com/ecommerce-showcase/storefront/internal/api/middleware"
	"github.com/ecommerce-showcase/storefront/internal/core/domain"
	"github.com/ecommerce-showcase/storefront/internal/core/ports"
)

// RouterConfig carries everything NewRouter wires into the HTTP surface.
type RouterConfig struct {
	Logger      zerolog.Logger
	CORSOrigins []string

	Accounts ports.AccountService
	Products ports.ProductService
	Tokens   ports.TokenVerifier

	// Checks are pinged by GET /health/ready.
	Checks []handler.DependencyCheck

	// Registry receives the HTTP metrics and is served on /metrics.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger)

	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	// --- Global middleware ---
	// RequestLogger wraps Recover so a recovered panic still gets its 500 line.
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(cfg.Logger))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "storefront",
		Subsystem:  "http",
		Registerer: reg,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(cfg.Accounts)
	userHandler := handler.NewUserHandler(cfg.Accounts)
	productHandler := handler.NewProductHandler(cfg.Products)

	authenticated := middleware.Auth(cfg.Tokens, cfg.Logger)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	api := e.Group("/api")

	// --- Auth routes ---
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// --- User routes ---
	users := api.Group("/users", authenticated)
	users.GET("", userHandler.List, adminOnly)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update, adminOnly)
	users.DELETE("/:id", userHandler.Delete, adminOnly)

	// --- Product routes (reads are public) ---
	products := api.Group("/products")
	products.GET("", productHandler.List)
	products.GET("/:id", productHandler.Get)
	products.POST("", productHandler.Create, authenticated, adminOnly)
	products.PUT("/:id", productHandler.Update, authenticated, adminOnly)
	products.DELETE("/:id", productHandler.Delete, authenticated, adminOnly)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(cfg.Checks...)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Operational ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
