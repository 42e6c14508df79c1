package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/storefront-api/docs"
	"github.com/99minutos/storefront-api/internal/api/handler"
	"github.com/99minutos/storefront-api/internal/api/middleware"
	"github.com/99minutos/storefront-api/internal/core/ports"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Auth           ports.AuthService
	Accounts       ports.AccountDirectory
	Catalog        ports.CatalogDirectory
	HealthChecks   map[string]handler.HealthCheck
	RequestTimeout time.Duration
	Logger         zerolog.Logger
	// Registry receives the HTTP request metrics. Nil means the default
	// Prometheus registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(metricsConfig(deps.Registry)))
	if deps.RequestTimeout > 0 {
		e.Use(echomiddleware.ContextTimeout(deps.RequestTimeout))
	}

	authenticated := middleware.Auth(deps.Auth)
	adminOnly := middleware.AdminOnly()

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/me", authHandler.Me, authenticated)

	// --- Accounts ---
	accountHandler := handler.NewAccountHandler(deps.Accounts)
	users := e.Group("/users", authenticated)
	users.GET("", accountHandler.List, adminOnly)
	users.POST("", accountHandler.Create, adminOnly)
	users.GET("/:id", accountHandler.Get)
	users.PUT("/:id", accountHandler.Update)
	users.DELETE("/:id", accountHandler.Delete, adminOnly)

	// --- Catalog ---
	itemHandler := handler.NewItemHandler(deps.Catalog)
	e.GET("/products", itemHandler.List)
	e.GET("/products/:id", itemHandler.Get)
	e.POST("/products", itemHandler.Create, authenticated, adminOnly)
	e.PUT("/products/:id", itemHandler.Update, authenticated, adminOnly)
	e.DELETE("/products/:id", itemHandler.Delete, authenticated, adminOnly)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler(deps.HealthChecks)
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – is the record store up?

	// --- Ops ---
	e.GET("/metrics", metricsHandler(deps.Registry))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func metricsConfig(reg *prometheus.Registry) echoprometheus.MiddlewareConfig {
	cfg := echoprometheus.MiddlewareConfig{Subsystem: "storefront"}
	if reg != nil {
		cfg.Registerer = reg
	}
	return cfg
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
