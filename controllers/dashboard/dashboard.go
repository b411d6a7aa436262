package dashboardController

import (
	"log"
	"time"

	"portal/database"
	"portal/middleware"
	dashboardService "portal/services/dashboard"

	"github.com/gofiber/fiber/v2"
)

func EmployeeDashboard(c *fiber.Ctx) error {
	stats, err := dashboardService.Employee(database.Database.Db, time.Now())
	if err != nil {
		log.Printf("[DASHBOARD] Error loading employee dashboard: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load dashboard!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Employee dashboard.", stats)
}

func MyDashboard(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)
	stats, err := dashboardService.User(database.Database.Db, userID)
	if err != nil {
		log.Printf("[DASHBOARD] Error loading dashboard of user %d: %v", userID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load dashboard!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Your dashboard.", stats)
}
