package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/process-desk/internal/api/http/handlers"
	"github.com/spec-kit/process-desk/internal/session"
	"github.com/spec-kit/process-desk/internal/web"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Pages     *handlers.PagesHandler
	Processes *handlers.ProcessesHandler
	Sessions  *session.Manager
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	health := app.Group("/health")
	health.Get("/live", cfg.Health.Live)
	health.Get("/ready", cfg.Health.Ready)
	health.Get("/metrics", cfg.Health.Metrics)

	cfg.Pages.Register(web.PageProcesses, cfg.Processes.List)

	browser := app.Group("", cfg.Sessions.Middleware())
	browser.Get("/login", cfg.Auth.ShowLogin)
	browser.Post("/login", cfg.Auth.Login)
	browser.Post("/logout", cfg.Auth.Logout)

	protected := browser.Group("", cfg.Sessions.RequireLogin())
	protected.Get("/", cfg.Pages.Home)

	processes := protected.Group("/" + web.PageProcesses)
	processes.Post("/new", cfg.Processes.OpenCreate)
	processes.Post("/save", cfg.Processes.Save)
	processes.Post("/cancel", cfg.Processes.Cancel)
	processes.Post("/delete/confirm", cfg.Processes.ConfirmDelete)
	processes.Post("/delete/cancel", cfg.Processes.Cancel)
	processes.Post("/:id<int>/edit", cfg.Processes.OpenEdit)
	processes.Post("/:id<int>/delete", cfg.Processes.OpenDelete)

	protected.Get("/:page", cfg.Pages.Show)
}
