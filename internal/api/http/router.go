package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/inquiry-service/internal/api/http/handlers"
	"github.com/spec-kit/inquiry-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Inquiries      *handlers.InquiriesHandler
	Templates      *handlers.TemplatesHandler
	Reports        *handlers.ReportsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle)

	inquiries := protected.Group("/inquiries")
	inquiries.Post("", cfg.Inquiries.Create)
	inquiries.Get("", cfg.Inquiries.List)
	inquiries.Get("/:id", cfg.Inquiries.Get)
	inquiries.Post("/:id/messages", cfg.Inquiries.AddMessage)
	inquiries.Post("/:id/notes", cfg.Inquiries.AddNote)
	inquiries.Post("/:id/assign", cfg.Inquiries.Assign)
	inquiries.Post("/:id/escalate", cfg.Inquiries.Escalate)
	inquiries.Patch("/:id/status", cfg.Inquiries.UpdateStatus)
	inquiries.Get("/:id/audit", cfg.Inquiries.ListAudit)

	templates := protected.Group("/templates")
	templates.Get("", cfg.Templates.List)
	templates.Post("", cfg.Templates.Create)
	templates.Put("/:id", cfg.Templates.Update)
	templates.Delete("/:id", cfg.Templates.Delete)

	reports := protected.Group("/reports")
	reports.Get("/overview", cfg.Reports.Overview)
	reports.Get("/counters", cfg.Reports.Counters)
}
