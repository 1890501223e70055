package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/dsalta/compliance-api/internal/api/handler"
	"github.com/dsalta/compliance-api/internal/api/middleware"
	"github.com/dsalta/compliance-api/internal/core/domain"
	"github.com/dsalta/compliance-api/internal/core/ports"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Log           zerolog.Logger
	BasePath      string
	Auth          ports.AuthService
	Authenticator ports.Authenticator
	Tasks         ports.TaskService
	Health        map[string]handler.PingFunc
	// Registry receives the HTTP metrics. Nil means the default registry.
	Registry *prometheus.Registry
}

var (
	anyRole   = []domain.Role{domain.RoleAdmin, domain.RoleStandard}
	adminOnly = []domain.Role{domain.RoleAdmin}
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "compliance_api",
		Registerer: registerer,
	}))

	// --- Probes, metrics and docs (no auth required) ---
	health := handler.NewHealthHandler(d.Health)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group(d.BasePath)
	authn := middleware.Auth(d.Authenticator)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth)
	v1.POST("/auth/login", authHandler.Login)
	v1.POST("/auth/logout", authHandler.Logout, authn)
	v1.GET("/auth/users", authHandler.ListUsers, authn, middleware.RBAC(adminOnly...))

	// --- Task routes ---
	taskHandler := handler.NewTaskHandler(d.Tasks)
	tasks := v1.Group("/tasks", authn)
	tasks.POST("", taskHandler.Create, middleware.RBAC(anyRole...))
	tasks.GET("", taskHandler.List, middleware.RBAC(anyRole...))
	tasks.GET("/:id", taskHandler.Get, middleware.RBAC(anyRole...))
	tasks.PUT("/:id", taskHandler.Update, middleware.RBAC(anyRole...))
	tasks.DELETE("/:id", taskHandler.Delete, middleware.RBAC(adminOnly...))
	tasks.GET("/:id/history", taskHandler.History, middleware.RBAC(adminOnly...))

	return e
}
