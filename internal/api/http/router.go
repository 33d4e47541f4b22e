package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/ticket-dashboard/internal/session"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health            *handlers.HealthHandler
	Metrics           *handlers.MetricsHandler
	Sessions          *handlers.SessionHandler
	Tickets           *handlers.TicketsHandler
	Lists             *handlers.ListsHandler
	Scripts           *handlers.ScriptsHandler
	Stats             *handlers.StatsHandler
	SessionMiddleware *session.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Snapshot)

	app.Post("/sessions", cfg.Sessions.Create)

	requireSession := cfg.SessionMiddleware.Handle

	sessionGroup := app.Group("/session", requireSession)
	sessionGroup.Delete("", cfg.Sessions.End)
	sessionGroup.Get("/view", cfg.Sessions.View)
	sessionGroup.Post("/reload", cfg.Sessions.Reload)
	sessionGroup.Put("/filters", cfg.Sessions.SetFilters)
	sessionGroup.Post("/sort/:field", cfg.Sessions.ToggleSort)
	sessionGroup.Put("/page", cfg.Sessions.SetPage)
	sessionGroup.Put("/page-size", cfg.Sessions.SetPageSize)
	sessionGroup.Post("/selection/:id", cfg.Sessions.ToggleSelection)
	sessionGroup.Delete("/selection", cfg.Sessions.DeleteSelected)
	sessionGroup.Post("/edit", cfg.Sessions.BeginEdit)
	sessionGroup.Put("/edit", cfg.Sessions.SetPending)
	sessionGroup.Post("/edit/commit", cfg.Sessions.CommitEdit)
	sessionGroup.Delete("/edit", cfg.Sessions.CancelEdit)
	sessionGroup.Get("/notifications", cfg.Sessions.Notifications)

	tickets := app.Group("/tickets", requireSession)
	tickets.Get("/search", cfg.Tickets.Search)
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Put("/:id/fields/:field", cfg.Tickets.UpdateField)
	tickets.Post("/:id/status/toggle", cfg.Tickets.ToggleStatus)
	tickets.Put("/:id/satisfaction", cfg.Tickets.SetSatisfaction)
	tickets.Post("/:id/copy", cfg.Tickets.CopyProcessNumber)
	tickets.Delete("/:id", cfg.Tickets.DeleteTicket)

	lists := app.Group("/lists", requireSession)
	lists.Get("", cfg.Lists.ListEntries)
	lists.Post("", cfg.Lists.SaveEntries)
	lists.Delete("/:id", cfg.Lists.DeleteEntry)

	scripts := app.Group("/scripts", requireSession)
	scripts.Get("", cfg.Scripts.ListScripts)
	scripts.Post("", cfg.Scripts.UploadScript)
	scripts.Get("/:id/template", cfg.Scripts.Template)
	scripts.Post("/:id/render", cfg.Scripts.Render)

	stats := app.Group("/stats", requireSession)
	stats.Get("/organizations", cfg.Stats.Organizations)
	stats.Get("/handling-time", cfg.Stats.HandlingTime)
}
