package dashboardRoutes

import (
	dashboardController "portal/controllers/dashboard"
	"portal/middleware"
	"portal/models"

	"github.com/gofiber/fiber/v2"
)

func SetupDashboardRoutes(app *fiber.App) {
	app.Get("/employee/dashboard",
		middleware.JWTMiddleware,
		middleware.RequireRole(models.RoleEmployee, models.RoleAdmin),
		middleware.CheckPermissionMiddleware(models.PermViewDashboard),
		dashboardController.EmployeeDashboard,
	)
	app.Get("/dashboard/me", middleware.JWTMiddleware, dashboardController.MyDashboard)
}
