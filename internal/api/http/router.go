package http

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/civic-complaints/internal/api/http/handlers"
	"github.com/spec-kit/civic-complaints/internal/auth"
	"github.com/spec-kit/civic-complaints/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health          *handlers.HealthHandler
	Users           *handlers.UsersHandler
	Complaints      *handlers.ComplaintsHandler
	AdminComplaints *handlers.AdminComplaintsHandler
	Notifications   *handlers.NotificationsHandler
	Meta            *handlers.MetaHandler
	AuthMiddleware  *auth.AuthMiddleware
	Metrics         *observability.Metrics
	LoginRatePerMin int
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	app.Get("/meta/options", cfg.Meta.Options)
	app.Get("/track/:reference", cfg.Complaints.Track)

	authGroup := app.Group("/auth", RateLimitMiddleware(cfg.LoginRatePerMin))
	authGroup.Post("/users/register", cfg.Users.Register)
	authGroup.Post("/users/verify", cfg.Users.Verify)
	authGroup.Post("/users/login", cfg.Users.Login)
	authGroup.Post("/admin/login", cfg.Users.AdminLogin)

	// Filing accepts anonymous submissions, so auth is optional here
	// and required everywhere else under /complaints.
	app.Post("/complaints", cfg.AuthMiddleware.OptionalHandle, cfg.Complaints.Create)

	userGroup := app.Group("/complaints", cfg.AuthMiddleware.Handle, auth.RequireUser())
	userGroup.Get("", cfg.Complaints.ListMine)
	userGroup.Get("/:id", cfg.Complaints.GetMine)

	notifGroup := app.Group("/notifications", cfg.AuthMiddleware.Handle, auth.RequireUser())
	notifGroup.Get("", cfg.Notifications.List)
	notifGroup.Post("/:id/read", cfg.Notifications.MarkRead)

	adminGroup := app.Group("/admin/complaints", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	adminGroup.Get("", cfg.AdminComplaints.List)
	adminGroup.Get("/:id", cfg.AdminComplaints.Get)
	adminGroup.Patch("/:id", cfg.AdminComplaints.Update)
	adminGroup.Get("/:id/history", cfg.AdminComplaints.History)
}
