package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/compliance-service/internal/api/http/handlers"
	"github.com/spec-kit/compliance-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Metrics        *handlers.MetricsHandler
	Countries      *handlers.CountriesHandler
	Safeguards     *handlers.SafeguardsHandler
	Assets         *handlers.AssetsHandler
	Activities     *handlers.ActivitiesHandler
	Changes        *handlers.ChangesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Get)

	v1 := app.Group("/v1", cfg.AuthMiddleware.Handle)

	v1.Post("/countries", cfg.Countries.Create)
	v1.Put("/countries/:id", cfg.Countries.Update)
	v1.Get("/countries/:id", cfg.Countries.Get)

	v1.Post("/safeguards", cfg.Safeguards.Create)
	v1.Put("/safeguards/:id", cfg.Safeguards.Update)
	v1.Get("/safeguards/:id", cfg.Safeguards.Get)

	v1.Post("/assets", cfg.Assets.Create)
	v1.Put("/assets/:id", cfg.Assets.Update)
	v1.Get("/assets/:id", cfg.Assets.Get)

	v1.Post("/activities", cfg.Activities.Create)
	v1.Put("/activities/:id", cfg.Activities.Update)
	v1.Get("/activities/:id", cfg.Activities.Get)

	v1.Get("/changes", cfg.Changes.List)
	v1.Get("/changes/watermark", cfg.Changes.Watermark)
}
