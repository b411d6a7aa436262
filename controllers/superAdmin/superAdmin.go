package superAdminController

import (
	"log"

	"portal/database"
	"portal/middleware"
	adminService "portal/services/admin"
	authService "portal/services/auth"
	dashboardService "portal/services/dashboard"
	"portal/services/notify"
	"portal/utils"
	superAdminValidator "portal/validators/superAdmin"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

func Dashboard(c *fiber.Ctx) error {
	stats, err := dashboardService.Admin(database.Database.Db)
	if err != nil {
		log.Printf("[ADMIN] Error loading dashboard: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load dashboard!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Admin dashboard.", stats)
}

func UserList(c *fiber.Ctx) error {
	reqData := c.Locals("validatedUserList").(*superAdminValidator.UserListQuery)
	page, limit, offset := utils.Paginate(c, 20)

	users, total, err := adminService.ListUsers(database.Database.Db, reqData.Query, limit, offset)
	if err != nil {
		log.Printf("[ADMIN] Error listing users: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch user list!", nil)
	}

	response := map[string]interface{}{
		"users": users,
		"q":     reqData.Query,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User List.", response)
}

func targetUser(c *fiber.Ctx) (uint, error) {
	id := middleware.LocalID(c, "targetUserID")
	if id == middleware.CurrentUserID(c) {
		return 0, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You cannot change your own account here.", nil)
	}
	return id, nil
}

func ToggleUser(c *fiber.Ctx) error {
	id, respErr := targetUser(c)
	if id == 0 {
		return respErr
	}
	db := database.Database.Db

	user, err := adminService.GetUser(db, id)
	if err != nil {
		if errors.Is(err, adminService.ErrUserNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load user!", nil)
	}

	active, err := adminService.ToggleActive(db, user)
	if err != nil {
		log.Printf("[ADMIN] Error toggling user %d: %v", id, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user!", nil)
	}

	action := "blocked"
	if active {
		action = "unblocked"
	}
	log.Printf("[ADMIN] User %s %s by %d", user.Username, action, middleware.CurrentUserID(c))
	email, name := user.Email, user.Name
	mail := notify.Default
	notify.Go("MAIL", func() error {
		return mail.SendAccountStatusEmail(email, name, active)
	})
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User "+user.Username+" has been "+action+".", fiber.Map{
		"user": user,
	})
}

func UnlockUser(c *fiber.Ctx) error {
	id, respErr := targetUser(c)
	if id == 0 {
		return respErr
	}
	db := database.Database.Db

	user, err := adminService.GetUser(db, id)
	if err != nil {
		if errors.Is(err, adminService.ErrUserNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load user!", nil)
	}

	if err := authService.ResetLockout(db, user); err != nil {
		log.Printf("[ADMIN] Error unlocking user %d: %v", id, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to unlock user!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User "+user.Username+" has been unlocked.", fiber.Map{
		"user": user,
	})
}

func PermissionsByUserID(c *fiber.Ctx) error {
	userID := c.Locals("validatedUserId").(uint)

	perms, err := adminService.Permissions(database.Database.Db, userID)
	if err != nil {
		log.Printf("[ADMIN] Error loading permissions of user %d: %v", userID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch permissions!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Permissions fetched successfully.", perms)
}
