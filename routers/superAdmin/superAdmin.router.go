package superAdminRoutes

import (
	superAdminController "portal/controllers/superAdmin"
	"portal/middleware"
	"portal/models"
	superAdminValidator "portal/validators/superAdmin"

	"github.com/gofiber/fiber/v2"
)

func SetupSuperAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin",
		middleware.JWTMiddleware,
		middleware.RequireRole(models.RoleAdmin),
	)
	userID := middleware.ParamID("id", "targetUserID")
	manageUsers := middleware.CheckPermissionMiddleware(models.PermManageUsers)

	adminGroup.Get("/dashboard", middleware.CheckPermissionMiddleware(models.PermViewDashboard), superAdminController.Dashboard)
	adminGroup.Get("/users", manageUsers, superAdminValidator.List(), superAdminController.UserList)
	adminGroup.Post("/users/:id/toggle", manageUsers, userID, superAdminController.ToggleUser)
	adminGroup.Post("/users/:id/unlock", manageUsers, userID, superAdminController.UnlockUser)
	adminGroup.Get("/permission", manageUsers, superAdminValidator.PermissionByUserID(), superAdminController.PermissionsByUserID)
}
