package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/maintenance-service/internal/api/http/handlers"
)

// NewApp builds the fiber app. Immutable copies request values out of the
// reused fasthttp buffers; parsed bodies end up in the in-memory stores.
func NewApp(name string) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:   name,
		Immutable: true,
	})
}

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Maintenance *handlers.MaintenanceHandler
	Drafts      *handlers.DraftsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	maintenance := app.Group("/maintenance")
	maintenance.Get("/tickets", cfg.Maintenance.ListTickets)
	maintenance.Post("/tickets", cfg.Maintenance.CreateTicket)
	maintenance.Get("/tickets/:id", cfg.Maintenance.GetTicket)
	maintenance.Post("/tickets/:id/status", cfg.Maintenance.ChangeStatus)
	maintenance.Post("/tickets/:id/assignee", cfg.Maintenance.Assign)
	maintenance.Post("/tickets/:id/notes", cfg.Maintenance.AddNote)
	maintenance.Get("/stats", cfg.Maintenance.Stats)
	maintenance.Get("/staff", cfg.Maintenance.Staff)
	maintenance.Get("/residents", cfg.Maintenance.Residents)
	maintenance.Post("/classify", cfg.Maintenance.Classify)

	drafts := maintenance.Group("/drafts")
	drafts.Post("", cfg.Drafts.OpenDraft)
	drafts.Get("/:id", cfg.Drafts.GetDraft)
	drafts.Put("/:id", cfg.Drafts.UpdateDraft)
	drafts.Delete("/:id", cfg.Drafts.CloseDraft)
	drafts.Post("/:id/analyze", cfg.Drafts.AnalyzeDraft)
	drafts.Post("/:id/submit", cfg.Drafts.SubmitDraft)
}
