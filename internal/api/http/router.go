package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration. Every route maps
// to a concrete handler method; there are no runtime fallbacks.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Categories     *handlers.CategoriesHandler
	Departments    *handlers.DepartmentsHandler
	Tickets        *handlers.TicketsHandler
	Messages       *handlers.MessagesHandler
	AuthMiddleware *auth.AuthMiddleware
	RateLimiter    *RateLimiter
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	requireAuth := cfg.AuthMiddleware.Handle

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.RateLimiter.Handle, cfg.Auth.Register)
	authGroup.Post("/login", cfg.RateLimiter.Handle, cfg.Auth.Login)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/profile", requireAuth, cfg.Auth.Profile)
	authGroup.Put("/profile", requireAuth, cfg.Auth.UpdateProfile)
	authGroup.Delete("/profile", requireAuth, cfg.Auth.DeleteProfile)
	authGroup.Put("/change-password", requireAuth, cfg.Auth.ChangePassword)

	users := app.Group("/users", requireAuth, auth.RequireAdmin())
	users.Post("/", cfg.Users.Create)
	users.Get("/", cfg.Users.List)
	users.Get("/:id", cfg.Users.Get)
	users.Put("/:id", cfg.Users.Update)
	users.Delete("/:id", cfg.Users.Delete)
	users.Put("/:id/reset-password", cfg.Users.ResetPassword)

	categories := app.Group("/categories")
	categories.Get("/", cfg.Categories.List)
	categories.Get("/:id", cfg.Categories.Get)
	categories.Post("/", requireAuth, auth.RequireAdmin(), cfg.Categories.Create)
	categories.Put("/:id", requireAuth, auth.RequireAdmin(), cfg.Categories.Update)
	categories.Delete("/:id", requireAuth, auth.RequireAdmin(), cfg.Categories.Delete)

	departments := app.Group("/departments")
	departments.Get("/", cfg.Departments.List)
	departments.Get("/:id", cfg.Departments.Get)
	departments.Post("/", requireAuth, auth.RequireAdmin(), cfg.Departments.Create)
	departments.Put("/:id", requireAuth, auth.RequireAdmin(), cfg.Departments.Update)
	departments.Delete("/:id", requireAuth, auth.RequireAdmin(), cfg.Departments.Delete)

	tickets := app.Group("/tickets", requireAuth)
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/", auth.RequireAdmin(), cfg.Tickets.ListAll)
	tickets.Get("/my", cfg.Tickets.ListMine)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Put("/:id", cfg.Tickets.Update)
	tickets.Delete("/:id", cfg.Tickets.Delete)

	messages := app.Group("/messages", requireAuth)
	messages.Post("/", cfg.Messages.Create)
	messages.Get("/:ticketId", cfg.Messages.ListByTicket)
	messages.Put("/:id", cfg.Messages.Update)
	messages.Delete("/:id", cfg.Messages.Delete)
}
