package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/eventpass/internal/api/http/handlers"
	"github.com/spec-kit/eventpass/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Metrics        *handlers.MetricsHandler
	Auth           *handlers.AuthHandler
	Usuarios       *handlers.UsuariosHandler
	Eventos        *handlers.EventosHandler
	Ingressos      *handlers.IngressosHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Snapshot)

	authenticated := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireAnyRole()}
	manager := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireManager()}

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)
	authGroup.Post("/password/change", with(authenticated, cfg.Auth.ChangePassword)...)

	me := app.Group("/usuarios/me", authenticated...)
	me.Get("", cfg.Usuarios.Me)
	me.Put("", cfg.Usuarios.UpdateMe)
	me.Delete("", cfg.Usuarios.DeleteMe)
	me.Get("/eventos", auth.RequireManager(), cfg.Usuarios.MyEventos)
	me.Get("/ingressos", cfg.Usuarios.MyIngressos)

	eventos := app.Group("/eventos")
	eventos.Get("", cfg.Eventos.List)
	eventos.Get("/:id", cfg.Eventos.Get)
	eventos.Post("", with(manager, cfg.Eventos.Create)...)
	eventos.Put("/:id", with(manager, cfg.Eventos.Update)...)
	eventos.Delete("/:id", with(manager, cfg.Eventos.Delete)...)
	eventos.Post("/:id/ingressos", with(authenticated, cfg.Eventos.Purchase)...)
	eventos.Get("/:id/ingressos", with(manager, cfg.Eventos.Ingressos)...)

	ingressos := app.Group("/ingressos", authenticated...)
	ingressos.Get("/:id", cfg.Ingressos.Get)
	ingressos.Delete("/:id", cfg.Ingressos.Delete)
	ingressos.Post("/:id/checkin", cfg.Ingressos.CheckIn)
	ingressos.Post("/:id/cancel", cfg.Ingressos.Cancel)
	ingressos.Get("/:id/historico", cfg.Ingressos.Historico)
}

func with(chain []fiber.Handler, handler fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(chain)+1)
	out = append(out, chain...)
	return append(out, handler)
}
