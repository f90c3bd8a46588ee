package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wanderlust-labs/destination-portal/internal/api/http/views"
	"github.com/wanderlust-labs/destination-portal/internal/observability"
)

// ServerConfig holds what NewApp needs beyond the routes.
type ServerConfig struct {
	Name           string
	RequestTimeout time.Duration
	ReloadViews    bool
	Logger         *zap.Logger
	Metrics        *observability.Metrics
}

// NewApp builds the fiber app with views, middlewares and routes.
func NewApp(cfg ServerConfig, routes RouteConfig) *fiber.App {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	app := fiber.New(fiber.Config{
		AppName:               cfg.Name,
		Views:                 views.NewEngine(cfg.ReloadViews),
		DisableStartupMessage: true,
	})
	RegisterMiddlewares(app, cfg.Logger, cfg.Metrics, cfg.RequestTimeout)
	RegisterRoutes(app, routes)
	return app
}
