package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/roadmasterpro/project-api/internal/api/handler"
	"github.com/roadmasterpro/project-api/internal/core/ports"
	"github.com/roadmasterpro/project-api/internal/core/service"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// lock may be nil when no Redis is configured.
func NewRouter(store ports.Store, lock ports.ApprovalLocker, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("roadmaster"))

	// --- Dependencies ---
	userHandler := handler.NewUserHandler(service.NewUserService(store, log))
	registrationHandler := handler.NewRegistrationHandler(service.NewRegistrationService(store, lock, log))
	projectHandler := handler.NewProjectHandler(service.NewProjectService(store, log))
	healthHandler := handler.NewHealthHandler(store)

	// --- Users ---
	e.GET("/users", userHandler.List)
	e.POST("/users", userHandler.Create)

	// --- Registration workflow ---
	e.GET("/pending-registrations", registrationHandler.List)
	e.POST("/pending-registrations", registrationHandler.Create)
	e.DELETE("/pending-registrations/:id", registrationHandler.Delete)
	e.POST("/pending-registrations/:id/approve", registrationHandler.Approve)

	// --- Projects ---
	e.GET("/projects", projectHandler.List)
	e.POST("/projects", projectHandler.Create)
	e.GET("/projects/:id", projectHandler.Get)
	e.PUT("/projects/:id", projectHandler.Update)
	e.DELETE("/projects/:id", projectHandler.Delete)

	// --- Probes ---
	e.GET("/health", healthHandler.Check)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
