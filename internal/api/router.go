package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/MohaiminulEraj/Containerized-To-Do-App/docs"
	"github.com/MohaiminulEraj/Containerized-To-Do-App/internal/api/handler"
	"github.com/MohaiminulEraj/Containerized-To-Do-App/internal/api/metrics"
	"github.com/MohaiminulEraj/Containerized-To-Do-App/internal/api/middleware"
	"github.com/MohaiminulEraj/Containerized-To-Do-App/internal/core/ports"
)

// Dependencies are the services the router wires into handlers.
type Dependencies struct {
	Auth          ports.AuthService
	Authenticator ports.Authenticator
	Tasks         ports.TaskService
	// Checks are pinged by the readiness probe, keyed by dependency name.
	Checks map[string]handler.Pinger
	Logger zerolog.Logger
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
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(metrics.Middleware())

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Task routes (bearer token required) ---
	taskHandler := handler.NewTaskHandler(deps.Tasks)
	todos := e.Group("/todos", middleware.Auth(deps.Authenticator, deps.Logger))
	todos.GET("", taskHandler.List)
	todos.GET("/search", taskHandler.Search)
	todos.POST("", taskHandler.Create)
	todos.GET("/:id", taskHandler.Get)
	todos.PATCH("/:id", taskHandler.Update)
	todos.DELETE("/:id", taskHandler.Delete)
	todos.PATCH("/:id/toggle", taskHandler.Toggle)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler(deps.Checks, deps.Logger)
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
