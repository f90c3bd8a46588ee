package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/wanderlust-labs/destination-portal/internal/api/http/handlers"
	"github.com/wanderlust-labs/destination-portal/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Auth          *handlers.AuthHandler
	Destinations  *handlers.DestinationsHandler
	Session       *handlers.SessionHandler
	SessionLoader *auth.SessionLoader
	LoginLimiter  *IPRateLimiter
}

// RegisterRoutes wires HTTP routes. Anything unmatched is sent to the login page.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Session.Metrics)

	session := cfg.SessionLoader.Handle
	member := auth.RequireSession()
	admin := auth.RequireAdmin()
	throttle := cfg.LoginLimiter.Handler()

	app.Get("/session", session, cfg.Session.Show)

	app.Get("/login", session, cfg.Auth.LoginPage)
	app.Post("/login", throttle, session, cfg.Auth.Login)
	app.Get("/register", session, cfg.Auth.RegisterPage)
	app.Post("/register", throttle, session, cfg.Auth.Register)
	app.Post("/logout", session, cfg.Auth.Logout)

	app.Get("/", session, member, cfg.Destinations.Home)
	app.Get("/destination/:id<int>", session, member, cfg.Destinations.Detail)

	app.Get("/add-destination", session, admin, cfg.Destinations.NewForm)
	app.Post("/add-destination", session, admin, cfg.Destinations.Create)
	app.Get("/destination/:id<int>/edit", session, admin, cfg.Destinations.EditForm)
	app.Post("/destination/:id<int>/edit", session, admin, cfg.Destinations.Update)
	app.Post("/destination/:id<int>/delete", session, admin, cfg.Destinations.Delete)

	app.Use(func(c *fiber.Ctx) error {
		return c.Redirect(auth.LoginPath, http.StatusFound)
	})
}
