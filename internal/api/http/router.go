package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-console/internal/api/http/handlers"
	"github.com/spec-kit/complaint-console/internal/auth"
	"github.com/spec-kit/complaint-console/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Complaints     *handlers.ComplaintsHandler
	Users          *handlers.UsersHandler
	Categories     *handlers.CategoriesHandler
	Dashboard      *handlers.DashboardHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api", cfg.AuthMiddleware.Handle)

	complaints := api.Group("/complaints")
	complaints.Post("", cfg.Complaints.CreateComplaint)
	complaints.Get("", cfg.Complaints.ListComplaints)
	complaints.Get("/:id", cfg.Complaints.GetComplaint)
	complaints.Patch("/:id/status", cfg.Complaints.UpdateStatus)
	complaints.Patch("/:id/assignee", cfg.Complaints.UpdateAssignee)
	complaints.Post("/:id/comments", cfg.Complaints.AddComment)

	api.Get("/users", cfg.Users.ListUsers)
	api.Get("/categories", cfg.Categories.ListCategories)

	dashboard := api.Group("/dashboard")
	dashboard.Get("/summary", cfg.Dashboard.Summary)
	dashboard.Get("/activities", cfg.Dashboard.RecentActivities)
	dashboard.Get("/recent-complaints", cfg.Dashboard.RecentComplaints)

	admin := api.Group("/admin", auth.RequireRole(domain.RoleAdmin))
	admin.Patch("/users/:id/role", cfg.Users.UpdateRole)
}
